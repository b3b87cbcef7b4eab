package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrTooLarge is returned when a document exceeds Options.MaxBytes.
var ErrTooLarge = errors.New("document exceeds size limit")

const defaultMaxBytes = 64 << 20

// Options controls how notebook documents are fetched.
type Options struct {
	// Token is sent as a bearer token on URL fetches when set.
	Token    string
	Timeout  time.Duration
	MaxBytes int64
	Client   *http.Client
	Stdin    io.Reader
}

// Document is the raw bytes of a notebook plus where they came from.
type Document struct {
	Name string
	Data []byte
}

// Load reads a notebook from a file path, "-" for stdin, or an http(s) URL.
func Load(ctx context.Context, ref string, opts Options) (Document, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return Document{}, errors.New("no notebook given")
	case ref == "-":
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err := readLimited(in, opts.maxBytes())
		if err != nil {
			return Document{}, errors.Wrap(err, "read stdin")
		}
		return Document{Name: "stdin", Data: data}, nil
	case IsURL(ref):
		return fetch(ctx, ref, opts)
	default:
		f, err := os.Open(ref)
		if err != nil {
			return Document{}, errors.Wrapf(err, "open %s", ref)
		}
		defer f.Close()
		data, err := readLimited(f, opts.maxBytes())
		if err != nil {
			return Document{}, errors.Wrapf(err, "read %s", ref)
		}
		return Document{Name: filepath.Base(ref), Data: data}, nil
	}
}

// IsURL reports whether ref should be fetched over HTTP.
func IsURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func fetch(ctx context.Context, url string, opts Options) (Document, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Document{}, errors.Wrapf(err, "build request for %s", url)
	}
	req.Header.Set("Accept", "application/x-ipynb+json, application/json;q=0.9, */*;q=0.1")
	if token := strings.TrimSpace(opts.Token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Document{}, errors.Wrapf(err, "fetch %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Document{}, errors.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	data, err := readLimited(resp.Body, opts.maxBytes())
	if err != nil {
		return Document{}, errors.Wrapf(err, "read body of %s", url)
	}
	return Document{Name: nameFromURL(url), Data: data}, nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errors.Wrap(ErrTooLarge, fmt.Sprintf("limit %d bytes", limit))
	}
	return data, nil
}

func nameFromURL(url string) string {
	trimmed := url
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	trimmed = strings.TrimRight(trimmed, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 && i < len(trimmed)-1 {
		return trimmed[i+1:]
	}
	return url
}

func (o Options) maxBytes() int64 {
	if o.MaxBytes <= 0 {
		return defaultMaxBytes
	}
	return o.MaxBytes
}

// ReadLimited reads r up to limit bytes, failing with ErrTooLarge beyond it.
func ReadLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = defaultMaxBytes
	}
	return readLimited(r, limit)
}
