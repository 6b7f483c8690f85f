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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/sandbench/cmd/sandbench/config"
	"github.com/AleutianAI/sandbench/pkg/logging"
	"github.com/AleutianAI/sandbench/pkg/ux"
	"github.com/AleutianAI/sandbench/services/bench/catalog"
	"github.com/AleutianAI/sandbench/services/bench/measure"
	"github.com/AleutianAI/sandbench/services/bench/toolchain"
)

// =============================================================================
// SHARED COMMAND HELPERS
// =============================================================================

// resolveConfig loads the config file and layers command-line flags on top.
//
// Precedence is flags over file over defaults. Only flags the user actually
// set are applied, so a flag's zero value never clobbers a file setting. The
// merged result is validated before it is returned.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = rootDir
	}
	if flags.Changed("catalog") {
		cfg.Catalog = catalogPath
	}
	if flags.Changed("profile") {
		cfg.Profile = profileName
	}
	if flags.Changed("repeat") {
		cfg.Repeat = repeatCount
	}
	if flags.Changed("output") {
		cfg.Output = outputPath
	}
	if flags.Changed("parallel-builds") {
		cfg.ParallelBuilds = parallelBuilds
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds the diagnostic logger for one command invocation.
//
// Diagnostics go to stderr so they never interleave with the progress
// report on stdout. --verbose forces debug level regardless of the config
// file, and --quiet drops the stderr handler entirely.
func newLogger(cfg config.Config) *logging.Logger {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	if verbose {
		level = logging.LevelDebug
	}

	return logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.Dir,
		Service: "sandbench",
		JSON:    cfg.Logging.JSON,
		Quiet:   quiet,
	})
}

// toolchainConfig maps file-level toolchain settings onto the builder's
// configuration.
func toolchainConfig(cfg config.Config) toolchain.Config {
	tc := toolchain.DefaultConfig(cfg.Root)
	tc.NativeCompiler = cfg.Toolchain.NativeCompiler
	tc.SandboxCompiler = cfg.Toolchain.SandboxCompiler
	tc.SandboxTranslator = cfg.Toolchain.SandboxTranslator
	tc.ReservedHeap = cfg.Toolchain.ReservedHeap
	tc.DebugSymbols = cfg.Toolchain.DebugSymbolsEnabled()
	return tc
}

// loadCatalog returns the built-in program catalog, or the user's own if a
// catalog file was configured.
func loadCatalog(cfg config.Config) ([]catalog.Program, error) {
	if cfg.Catalog == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(cfg.Catalog)
}

// newRunID returns a short unique identifier for one batch. It names the
// batch in logs and in the run lock's holder record.
func newRunID() string {
	return "run-" + uuid.NewString()[:8]
}

// signalContext returns a context that is canceled on SIGINT or SIGTERM.
// In-flight compiles and benchmark processes are killed through it.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, stopping...")
		cancel()
	}()

	return ctx, cancel
}

// reportFailure prints enough context for a failed batch that the user can
// rerun the offending command by hand.
func reportFailure(console *ux.Console, err error) {
	var buildErr *toolchain.BuildError
	if errors.As(err, &buildErr) {
		console.Errorf("build failed: %s (%s stage)", buildErr.Program, buildErr.Stage)
		console.Printf("  command: %s %s", buildErr.Command, strings.Join(buildErr.Args, " "))
		if buildErr.ExitCode >= 0 {
			console.Printf("  exit code: %d", buildErr.ExitCode)
		}
		if out := strings.TrimSpace(buildErr.Output); out != "" {
			console.Printf("%s", out)
		}
		return
	}

	var runErr *measure.RunError
	if errors.As(err, &runErr) {
		console.Errorf("benchmark failed: %s (%s form)", runErr.Program, runErr.Kind)
		console.Printf("  command: %s %s", runErr.Command, strings.Join(runErr.Args, " "))
		console.Printf("  exit code: %d", runErr.ExitCode)
		return
	}

	if errors.Is(err, context.Canceled) {
		console.Errorf("run canceled")
		return
	}

	console.Errorf("%v", err)
}
