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
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/sandbench/pkg/ux"
	"github.com/AleutianAI/sandbench/services/bench/catalog"
	"github.com/AleutianAI/sandbench/services/bench/lock"
	"github.com/AleutianAI/sandbench/services/bench/report"
	"github.com/AleutianAI/sandbench/services/bench/toolchain"
)

// =============================================================================
// COMMAND IMPLEMENTATIONS
// =============================================================================

// runRun implements "sandbench run".
func runRun(cmd *cobra.Command, _ []string) {
	os.Exit(runBenchmarks(cmd))
}

// runBenchmarks carries the body of the run command: resolve configuration,
// take the run lock, verify the toolchain, then hand off to the reporter.
// It returns the process exit code instead of calling os.Exit so the
// deferred lock release and log flush still happen on every path.
func runBenchmarks(cmd *cobra.Command) int {
	console := ux.NewConsole(os.Stdout)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		console.Errorf("%v", err)
		return 1
	}

	logger := newLogger(cfg)
	defer logger.Close()
	slogger := logger.Slog()

	runID := newRunID()

	runLock, err := lock.Acquire(cfg.Root, runID, slogger)
	if err != nil {
		console.Errorf("%v", err)
		return 1
	}
	defer runLock.Release()

	tc := toolchainConfig(cfg)
	if err := toolchain.CheckTools(tc, cfg.Runtime); err != nil {
		console.Errorf("%v", err)
		return 1
	}

	programs, err := loadCatalog(cfg)
	if err != nil {
		console.Errorf("%v", err)
		return 1
	}
	if err := catalog.ValidateTree(cfg.Root, programs); err != nil {
		console.Errorf("%v", err)
		return 1
	}

	mode, err := report.ParseTableMode(cfg.EffectiveTable())
	if err != nil {
		console.Errorf("%v", err)
		return 1
	}

	out, err := os.Create(cfg.Output)
	if err != nil {
		console.Errorf("creating %s: %v", cfg.Output, err)
		return 1
	}
	defer out.Close()

	reporter, err := report.NewReporter(report.Config{
		Programs:       programs,
		Toolchain:      tc,
		Runtime:        cfg.Runtime,
		Repeat:         cfg.EffectiveRepeat(),
		Mode:           mode,
		ParallelBuilds: cfg.ParallelBuilds,
		RunID:          runID,
	}, out, report.WithConsole(console), report.WithLogger(slogger))
	if err != nil {
		console.Errorf("%v", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := reporter.Run(ctx); err != nil {
		reportFailure(console, err)
		return 1
	}

	if err := out.Close(); err != nil {
		console.Errorf("closing %s: %v", cfg.Output, err)
		return 1
	}
	console.Printf("Outputting to %s", cfg.Output)
	return 0
}
