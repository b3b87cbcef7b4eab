package history

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Entry records one opened notebook.
type Entry struct {
	Ref      string    `json:"ref"`
	Name     string    `json:"name"`
	Cells    int       `json:"cells"`
	Recovery string    `json:"recovery,omitempty"`
	TS       time.Time `json:"ts"`
}

// Store is an append-only JSONL log of opened notebooks.
type Store struct {
	Path string
}

func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".nbview", "history.jsonl"), nil
}

func NewDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return &Store{Path: path}, nil
}

func (s *Store) check() error {
	if s == nil {
		return errors.New("history store is nil")
	}
	if strings.TrimSpace(s.Path) == "" {
		return errors.New("history store path is empty")
	}
	return nil
}

// Append records e. Entries without a ref, and stdin, are ignored.
func (s *Store) Append(e Entry) error {
	if err := s.check(); err != nil {
		return err
	}
	e.Ref = strings.TrimSpace(e.Ref)
	if e.Ref == "" || e.Ref == "-" {
		return nil
	}
	if e.TS.IsZero() {
		e.TS = time.Now()
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return errors.Wrap(err, "create history dir")
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "open history")
	}
	defer f.Close()

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return errors.Wrap(err, "write history")
}

// Load returns every valid entry in file order; garbage lines are skipped.
func (s *Store) Load() ([]Entry, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "open history")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var out []Entry
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		if strings.TrimSpace(e.Ref) == "" {
			continue
		}
		out = append(out, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read history")
	}
	return out, nil
}

// Recent returns up to limit entries, newest first, one per ref.
func (s *Store) Recent(limit int) ([]Entry, error) {
	all, err := s.Load()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(all))
	var out []Entry
	for i := len(all) - 1; i >= 0; i-- {
		e := all[i]
		if seen[e.Ref] {
			continue
		}
		seen[e.Ref] = true
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
