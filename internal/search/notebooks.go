package search

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

const notebookExt = ".ipynb"

var skipDirs = map[string]bool{
	".git":               true,
	".ipynb_checkpoints": true,
	"node_modules":       true,
	"__pycache__":        true,
	".venv":              true,
	"venv":               true,
	"site-packages":      true,
}

// FindNotebooks returns up to limit relative .ipynb paths under root,
// sorted, skipping checkpoints and common dependency dirs.
func FindNotebooks(root string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 200
	}
	paths := make([]string, 0, 16)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), notebookExt) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		if len(paths) >= limit {
			return fs.SkipAll
		}
		return nil
	})
	sort.Strings(paths)
	return paths, err
}

// Filter keeps the paths fuzzy-matching query, best match first. An empty
// query returns paths unchanged.
func Filter(paths []string, query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return paths
	}
	matches := fuzzy.Find(query, paths)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}
	return out
}
