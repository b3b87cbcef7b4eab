package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"nbview/internal/config"
	"nbview/internal/history"
	"nbview/internal/notebook"
	"nbview/internal/source"
	"nbview/internal/termview"
)

const defaultWidth = 80

// historyStore records opened notebooks; nil disables recording.
var historyStore *history.Store

// loadedDocument is a fetched notebook and its rendered blocks.
type loadedDocument struct {
	Name        string
	Data        []byte
	Blocks      []notebook.Block
	Diagnostics notebook.Diagnostics
}

func sourceOptions(cfg config.Config, stdin io.Reader) source.Options {
	return source.Options{
		Token:    cfg.Token,
		Timeout:  time.Duration(cfg.FetchTimeoutSeconds) * time.Second,
		MaxBytes: cfg.MaxDocumentBytes,
		Stdin:    stdin,
	}
}

// loadDocument reads ref (stdin when empty) and renders it.
func loadDocument(ctx context.Context, cfg config.Config, ref string, stdin io.Reader) (loadedDocument, error) {
	if strings.TrimSpace(ref) == "" {
		ref = "-"
	}
	doc, err := source.Load(ctx, ref, sourceOptions(cfg, stdin))
	if err != nil {
		return loadedDocument{}, err
	}
	blocks, diag := notebook.Inspect(doc.Data)
	logDiagnostics(doc.Name, diag)
	remember(ref, doc.Name, diag)
	return loadedDocument{Name: doc.Name, Data: doc.Data, Blocks: blocks, Diagnostics: diag}, nil
}

func logDiagnostics(name string, diag notebook.Diagnostics) {
	entry := log.WithField("document", name).
		WithField("cells", diag.Cells).
		WithField("outputs", diag.Outputs)
	if diag.Degraded() {
		entry.WithField("recovery", diag.Recovery).Debug("notebook degraded")
		return
	}
	if diag.UnknownCells > 0 || diag.SkippedOutputs > 0 || diag.EmptyBundles > 0 {
		entry.WithField("unknown_cells", diag.UnknownCells).
			WithField("skipped_outputs", diag.SkippedOutputs).
			WithField("empty_bundles", diag.EmptyBundles).
			Debug("notebook partially rendered")
		return
	}
	entry.Debug("notebook rendered")
}

func remember(ref, name string, diag notebook.Diagnostics) {
	if historyStore == nil {
		return
	}
	if !source.IsURL(ref) && ref != "-" {
		if abs, err := filepath.Abs(ref); err == nil {
			ref = abs
		}
	}
	err := historyStore.Append(history.Entry{Ref: ref, Name: name, Cells: diag.Cells, Recovery: string(diag.Recovery)})
	if err != nil {
		log.WithError(err).Warn("record history")
	}
}

// resolveWidth picks the terminal width: flag, then config, then $COLUMNS.
func resolveWidth(flagWidth int, cfg config.Config) int {
	if flagWidth > 0 {
		return flagWidth
	}
	if cfg.Width > 0 {
		return cfg.Width
	}
	if cols, err := strconv.Atoi(strings.TrimSpace(os.Getenv("COLUMNS"))); err == nil && cols > 0 {
		return cols
	}
	return defaultWidth
}

func newRenderer(cfg config.Config, width, maxLines int, plain bool) *termview.Renderer {
	theme := termview.ThemeFromConfig(cfg.Theme, plain || cfg.Plain)
	if maxLines < 0 {
		maxLines = cfg.MaxOutputLines
	}
	return termview.New(termview.Options{
		Width:          resolveWidth(width, cfg),
		MaxOutputLines: maxLines,
		Theme:          &theme,
	})
}
