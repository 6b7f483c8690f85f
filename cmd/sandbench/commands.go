// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath     string
	catalogPath    string
	rootDir        string
	profileName    string
	repeatCount    int
	outputPath     string
	parallelBuilds bool
	verbose        bool
	quiet          bool

	rootCmd = &cobra.Command{
		Use:   "sandbench",
		Short: "Compare native and sandboxed execution of a C benchmark catalog",
		Long: `Sandbench builds each catalog program twice, once with the native
compiler and once through the wasm32-wasi toolchain with ahead-of-time
translation, runs both forms back to back, and reports how much the
sandboxed form costs relative to native.`,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Build, measure, and write the comparison table",
		Long: `Build every catalog program in both execution forms, sample their
wall-clock runtimes, and write the comparison table as CSV.

All programs are compiled before any timing starts, so compiler load
never overlaps a timed run. The first build failure or crashing
benchmark aborts the batch; rows already completed stay in the table.

Examples:
  sandbench run
  sandbench run --profile stats --output results.csv
  sandbench run --repeat 10 --parallel-builds
  sandbench run --catalog programs.yaml --root /srv/bench`,
		Run: runRun, // Defined in cmd_run.go
	}

	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Build all catalog programs without measuring",
		Long: `Compile every catalog program in both execution forms and stop.
Useful for checking toolchain health before a long measurement batch.

Examples:
  sandbench build
  sandbench build --parallel-builds`,
		Run: runBuild, // Defined in cmd_build.go
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Show the benchmark catalog",
		Run:   runList, // Defined in cmd_list.go
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a sandbench.yaml config file (default: ./sandbench.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "",
		"Path to a catalog YAML file (default: built-in program list)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "",
		"Catalog root directory holding the program sources")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"Suppress diagnostic logging on stderr")

	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&profileName, "profile", "",
		"Measurement profile: smoke (1 iteration, ratio table) or stats (100 iterations, full table)")
	runCmd.Flags().IntVar(&repeatCount, "repeat", 0,
		"Iterations per program and form (overrides the profile)")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"CSV output file (default benchmarks.csv)")
	runCmd.Flags().BoolVar(&parallelBuilds, "parallel-builds", false,
		"Compile independent programs concurrently (measurement stays sequential)")

	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolVar(&parallelBuilds, "parallel-builds", false,
		"Compile independent programs concurrently")

	rootCmd.AddCommand(listCmd)
}
