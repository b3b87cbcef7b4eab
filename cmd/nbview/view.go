package main

import (
	"context"
	"flag"
	"io"
	"os"

	"nbview/internal/config"
	"nbview/internal/pager"
)

func viewMain(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var plain bool
	var maxLines int
	fs.BoolVar(&plain, "plain", false, "Disable colors and styles")
	fs.IntVar(&maxLines, "max-lines", -1, "Lines shown per output, 0 for all (default from config)")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		log.Fatalf("parse view args: %v", err)
	}

	ref := firstArg(positional)
	if ref == "" || ref == "-" {
		log.Fatalf("view needs a file or URL; stdin is reserved for the terminal")
	}
	doc, err := loadDocument(context.Background(), cfg, ref, os.Stdin)
	if err != nil {
		log.Fatalf("view failed: %v", err)
	}
	err = pager.Run(pager.Options{
		Title:    doc.Name,
		Blocks:   doc.Blocks,
		Renderer: newRenderer(cfg, 0, maxLines, plain),
		NoColor:  plain || cfg.Plain,
	})
	if err != nil {
		log.Fatalf("pager: %v", err)
	}
}
