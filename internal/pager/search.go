package pager

import (
	"strings"

	"nbview/internal/notebook"

	"github.com/sahilm/fuzzy"
)

type candidate struct {
	block int
	key   string
}

// buildCandidates indexes every non-blank source line (raw text for degraded
// documents) with the block it belongs to.
func buildCandidates(blocks []notebook.Block) ([]candidate, []string) {
	var cands []candidate
	var keys []string
	for i, b := range blocks {
		text := b.Text
		if b.Kind == notebook.BlockCell && b.Cell != nil {
			text = b.Cell.Source
		}
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			cands = append(cands, candidate{block: i, key: strings.ToLower(line)})
			keys = append(keys, strings.ToLower(line))
		}
	}
	return cands, keys
}

// findBlock returns the block whose source best matches query. Ties keep
// document order because fuzzy.Find sorts stably by score.
func findBlock(blocks []notebook.Block, query string) (int, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return -1, false
	}
	cands, keys := buildCandidates(blocks)
	results := fuzzy.Find(query, keys)
	if len(results) == 0 {
		return -1, false
	}
	return cands[results[0].Index].block, true
}

// blockSource is what "copy cell" puts on the clipboard.
func blockSource(b notebook.Block) string {
	if b.Kind == notebook.BlockCell && b.Cell != nil {
		return b.Cell.Source
	}
	return b.Text
}
