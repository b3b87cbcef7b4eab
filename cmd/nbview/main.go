package main

import (
	"fmt"
	"io"
	"os"

	"nbview/internal/config"
	"nbview/internal/history"
	"nbview/internal/logger"
)

var (
	log     = logger.Named("cli")
	version = "dev"
)

func main() {
	root, rest, err := parseRootArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("parse args: %v", err)
	}
	if len(rest) == 0 {
		usage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := loadConfig(root)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.Configure(cfg.LogLevel)
	if rest[0] == "serve" {
		logger.SetOutput(os.Stderr)
	} else if logFile, _, err := logger.SetupFile(logger.DefaultLogPath); err != nil {
		log.Warnf("failed to initialize log file: %v", err)
	} else {
		defer logFile.Close()
	}

	if store, err := history.NewDefault(); err != nil {
		log.WithError(err).Debug("history disabled")
	} else {
		historyStore = store
	}

	switch rest[0] {
	case "render":
		renderMain(cfg, rest[1:])
	case "html":
		htmlMain(cfg, rest[1:])
	case "json":
		jsonMain(cfg, rest[1:])
	case "inspect":
		inspectMain(cfg, rest[1:])
	case "view":
		viewMain(cfg, rest[1:])
	case "serve":
		serveMain(cfg, rest[1:])
	case "list":
		listMain(rest[1:])
	case "recent":
		recentMain(rest[1:])
	case "version":
		fmt.Println("nbview " + version)
	case "help", "-h", "--help":
		usage(os.Stdout)
	default:
		renderMain(cfg, rest)
	}
}

func loadConfig(root rootArgs) (config.Config, error) {
	cfg, err := config.Load(root.cfgPath)
	if err != nil {
		return cfg, err
	}
	cfg = config.ApplyKVOverrides(cfg, root.overrides)
	if err := config.Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func usage(w io.Writer) {
	fmt.Fprint(w, `usage: nbview [-config path] [-c key=value]... <command> [flags] [notebook]

commands:
  render   print the notebook to the terminal (default)
  html     write a standalone HTML page
  json     print the block model as JSON
  inspect  summarize cells, outputs and recoveries
  view     open the interactive pager
  serve    run the HTTP preview service
  list     find notebooks under a directory (-q fuzzy filter)
  recent   show recently opened notebooks
  version  print the version

A notebook is a file path, "-" for stdin, or an http(s) URL.
`)
}
