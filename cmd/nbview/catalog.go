package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"nbview/internal/history"
	"nbview/internal/search"
)

func listMain(args []string) {
	if err := runList(args, os.Stdout); err != nil {
		log.Fatalf("list failed: %v", err)
	}
}

func recentMain(args []string) {
	if err := runRecent(historyStore, args, os.Stdout); err != nil {
		log.Fatalf("recent failed: %v", err)
	}
}

func runList(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var query string
	var limit int
	fs.StringVar(&query, "q", "", "Fuzzy filter on paths")
	fs.IntVar(&limit, "limit", 200, "Maximum notebooks to scan")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	root := firstArg(positional)
	if root == "" {
		root = "."
	}
	paths, err := search.FindNotebooks(root, limit)
	if err != nil {
		return err
	}
	for _, p := range search.Filter(paths, query) {
		if _, err := fmt.Fprintln(out, p); err != nil {
			return err
		}
	}
	return nil
}

func runRecent(store *history.Store, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("recent", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	limit := fs.Int("n", 20, "Number of entries")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if store == nil {
		return nil
	}
	entries, err := store.Recent(*limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		note := fmt.Sprintf("%d cells", e.Cells)
		if e.Recovery != "" {
			note = e.Recovery
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.TS.Local().Format(time.DateTime), note, e.Ref)
	}
	return tw.Flush()
}
