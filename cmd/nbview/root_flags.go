package main

import (
	"flag"
	"io"
)

type rootArgs struct {
	cfgPath   string
	overrides []string
}

// parseRootArgs consumes flags before the subcommand; everything from the
// first positional argument on is returned untouched.
func parseRootArgs(args []string) (rootArgs, []string, error) {
	fs := flag.NewFlagSet("nbview", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var cfgPath string
	var overrides stringSlice
	fs.StringVar(&cfgPath, "config", "", "Path to config file (default ~/.nbview/config.toml)")
	fs.Var(&overrides, "c", "Override config value key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return rootArgs{}, nil, err
	}
	return rootArgs{cfgPath: cfgPath, overrides: append([]string{}, overrides...)}, fs.Args(), nil
}
