package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"nbview/internal/config"
	"nbview/internal/htmlview"
	"nbview/internal/notebook"

	"github.com/pkg/errors"
)

func renderMain(cfg config.Config, args []string) {
	if err := runRender(context.Background(), cfg, args, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("render failed: %v", err)
	}
}

func htmlMain(cfg config.Config, args []string) {
	if err := runHTML(context.Background(), cfg, args, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("html failed: %v", err)
	}
}

func jsonMain(cfg config.Config, args []string) {
	if err := runJSON(context.Background(), cfg, args, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("json failed: %v", err)
	}
}

func inspectMain(cfg config.Config, args []string) {
	if err := runInspect(context.Background(), cfg, args, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("inspect failed: %v", err)
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func runRender(ctx context.Context, cfg config.Config, args []string, stdin io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var width int
	var maxLines int
	var plain bool
	fs.IntVar(&width, "width", 0, "Wrap width (default: config, $COLUMNS, 80)")
	fs.IntVar(&maxLines, "max-lines", -1, "Lines shown per output, 0 for all (default from config)")
	fs.BoolVar(&plain, "plain", false, "Disable colors and styles")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}

	doc, err := loadDocument(ctx, cfg, firstArg(positional), stdin)
	if err != nil {
		return err
	}
	return newRenderer(cfg, width, maxLines, plain).Write(out, doc.Blocks)
}

func runHTML(ctx context.Context, cfg config.Config, args []string, stdin io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("html", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var outPath string
	var fragment bool
	var title string
	fs.StringVar(&outPath, "o", "", "Write to file instead of stdout")
	fs.BoolVar(&fragment, "fragment", false, "Emit only the notebook body, without page chrome")
	fs.StringVar(&title, "title", "", "Page title (default: notebook name)")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}

	doc, err := loadDocument(ctx, cfg, firstArg(positional), stdin)
	if err != nil {
		return err
	}
	if title == "" {
		title = doc.Name
	}
	var markup string
	if fragment {
		markup, err = htmlview.Fragment(doc.Blocks)
	} else {
		markup, err = htmlview.Page(doc.Blocks, htmlview.Options{Title: title})
	}
	if err != nil {
		return errors.Wrap(err, "render html")
	}

	if outPath == "" {
		_, err = io.WriteString(out, markup)
		return err
	}
	if err := os.WriteFile(outPath, []byte(markup), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", outPath)
	}
	log.WithField("path", outPath).Info("html written")
	return nil
}

func runJSON(ctx context.Context, cfg config.Config, args []string, stdin io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var withDiag bool
	fs.BoolVar(&withDiag, "diagnostics", false, "Wrap blocks as {blocks, diagnostics}")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}

	doc, err := loadDocument(ctx, cfg, firstArg(positional), stdin)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if withDiag {
		return enc.Encode(struct {
			Blocks      []notebook.Block     `json:"blocks"`
			Diagnostics notebook.Diagnostics `json:"diagnostics"`
		}{doc.Blocks, doc.Diagnostics})
	}
	return enc.Encode(doc.Blocks)
}

func runInspect(ctx context.Context, cfg config.Config, args []string, stdin io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}

	doc, err := loadDocument(ctx, cfg, firstArg(positional), stdin)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, inspectSummary(doc))
	return err
}

func inspectSummary(doc loadedDocument) string {
	d := doc.Diagnostics
	var b strings.Builder
	fmt.Fprintf(&b, "document:  %s (%d bytes)\n", doc.Name, len(doc.Data))
	if meta, err := notebook.Parse(doc.Data); err == nil {
		lang := meta.Language
		if lang == "" {
			lang = "unknown"
		}
		fmt.Fprintf(&b, "language:  %s\n", lang)
		fmt.Fprintf(&b, "nbformat:  %d.%d\n", meta.NBFormat, meta.NBFormatMinor)
	}
	other := d.Cells - d.CodeCells - d.MarkdownCells
	fmt.Fprintf(&b, "cells:     %d (code %d, markdown %d, other %d)\n", d.Cells, d.CodeCells, d.MarkdownCells, other)
	fmt.Fprintf(&b, "outputs:   %d (skipped %d, empty bundles %d)\n", d.Outputs, d.SkippedOutputs, d.EmptyBundles)
	recovery := string(d.Recovery)
	if recovery == "" {
		recovery = "none"
	}
	fmt.Fprintf(&b, "recovery:  %s\n", recovery)
	return b.String()
}
