// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// runInit creates a new .inkwell/config.yaml configuration file.
func runInit(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite existing configuration")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: inkwell init [options]

Description:
  Create a new .inkwell/config.yaml configuration file in the current
  directory with sensible defaults.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  inkwell init            Create configuration with defaults
  inkwell init --force    Overwrite existing configuration

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(ExitGeneral)
	}

	path := configPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
			os.Exit(ExitGeneral)
		}
		path = ConfigPath(cwd)
	}

	if _, err := os.Stat(path); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Error: %s already exists\n", path)
		fmt.Fprintf(os.Stderr, "Use --force to overwrite\n")
		os.Exit(ExitConfig)
	}

	if err := SaveConfig(DefaultConfig(), path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitConfig)
	}

	if !globals.Quiet {
		fmt.Printf("Created %s\n", path)
		fmt.Println("Run 'inkwell serve' to start the server.")
	}
}
