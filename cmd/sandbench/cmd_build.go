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
	"io"
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

// runBuild implements "sandbench build".
func runBuild(cmd *cobra.Command, _ []string) {
	os.Exit(buildArtifacts(cmd))
}

// buildArtifacts compiles every catalog program in both forms without
// executing anything. It holds the run lock because both forms land in the
// same bin/ directories a concurrent run would read from.
func buildArtifacts(cmd *cobra.Command) int {
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
	if err := toolchain.CheckTools(tc); err != nil {
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

	// Repeat and table mode never apply to a build-only batch; the reporter
	// still validates them, so give it the smallest legal values.
	reporter, err := report.NewReporter(report.Config{
		Programs:       programs,
		Toolchain:      tc,
		Runtime:        cfg.Runtime,
		Repeat:         1,
		Mode:           report.TableRatio,
		ParallelBuilds: cfg.ParallelBuilds,
		RunID:          runID,
	}, io.Discard, report.WithConsole(console), report.WithLogger(slogger))
	if err != nil {
		console.Errorf("%v", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := reporter.Build(ctx); err != nil {
		reportFailure(console, err)
		return 1
	}

	console.Successf("Built %d programs in both forms", len(programs))
	return 0
}
