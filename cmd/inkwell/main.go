// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Command inkwell runs the Inkwell note-taking backend.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// Exit codes.
const (
	ExitGeneral  = 1
	ExitConfig   = 2
	ExitDatabase = 3
)

// GlobalFlags are recognized before the subcommand and shared by all of
// them.
type GlobalFlags struct {
	Quiet bool
	JSON  bool
}

func main() {
	flags := flag.NewFlagSet("inkwell", flag.ExitOnError)
	flags.SetInterspersed(false)

	quiet := flags.Bool("quiet", false, "Suppress non-essential output")
	jsonOut := flags.Bool("json", false, "Output as JSON where supported")
	configPath := flags.String("config", "", "Path to config.yaml (default .inkwell/config.yaml)")
	flags.Usage = usage

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(ExitGeneral)
	}

	globals := GlobalFlags{Quiet: *quiet, JSON: *jsonOut}

	args := flags.Args()
	if len(args) == 0 {
		usage()
		os.Exit(ExitGeneral)
	}

	switch args[0] {
	case "serve":
		runServe(args[1:], *configPath, globals)
	case "init":
		runInit(args[1:], *configPath, globals)
	case "status":
		runStatus(args[1:], *configPath, globals)
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		usage()
		os.Exit(ExitGeneral)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: inkwell [global options] <command> [options]

Commands:
  serve     Start the Inkwell API server
  init      Create a default .inkwell/config.yaml
  status    Show database and replica status
  help      Show this help

Global options:
  --config PATH   Configuration file (default .inkwell/config.yaml)
  --quiet         Suppress non-essential output
  --json          Output as JSON where supported

Examples:
  inkwell init
  inkwell serve --addr :8080
  inkwell status --json

`)
}
