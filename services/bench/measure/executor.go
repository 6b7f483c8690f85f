// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package measure runs built artifacts and samples their wall-clock
// durations.
//
// The Executor performs exactly one run of one artifact with output
// discarded; the Sampler wraps the Executor in a timed repetition loop.
// Timing covers the entire process lifetime including spawn and teardown,
// the same envelope for both execution forms, which keeps the comparison
// fair even though absolute numbers include process overhead.
package measure

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/AleutianAI/sandbench/services/bench/toolchain"
)

// Invocation describes one run of a built artifact.
type Invocation struct {
	// Program is the catalog name, carried for failure reporting.
	Program string

	// Kind selects how the artifact is launched: directly for native,
	// through the sandbox runtime for sandboxed.
	Kind toolchain.ArtifactKind

	// Path is the absolute path of the artifact to run.
	Path string

	// Args is the program's argument vector, passed verbatim.
	Args []string

	// Dir is the working directory for the run, normally the program's
	// source directory so relative input files resolve.
	Dir string

	// Stdin optionally names a file under Dir fed to standard input.
	Stdin string
}

// Runner executes one invocation of a built artifact.
//
// The Sampler depends on this interface so timing behavior can be tested
// without spawning processes.
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

// =============================================================================
// EXECUTOR
// =============================================================================

// Executor runs artifacts as child processes with stdout and stderr
// discarded.
//
// Thread Safety: Safe for concurrent use; every run creates its own process.
// The harness nevertheless runs timed invocations strictly sequentially so
// measurements never interleave.
type Executor struct {
	runtime string
	logger  *slog.Logger
}

var _ Runner = (*Executor)(nil)

// NewExecutor creates an executor. runtime is the sandbox runtime command
// used to launch sandboxed artifacts; native artifacts run directly.
func NewExecutor(runtime string, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{runtime: runtime, logger: logger}
}

// Run executes the invocation once and waits for it to exit.
//
// Native artifacts are started directly. Sandboxed artifacts are started
// through the sandbox runtime with the working directory preopened as the
// module's filesystem root, mirroring the native run's view of its inputs.
// Output is discarded either way; a benchmark's stdout is not part of the
// measurement. A non-zero exit is returned as a *RunError and is fatal to
// the sampling pass.
func (e *Executor) Run(ctx context.Context, inv Invocation) error {
	if ctx == nil {
		return ErrNilContext
	}

	command, args := e.commandLine(inv)

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = inv.Dir

	if inv.Stdin != "" {
		in, err := os.Open(filepath.Join(inv.Dir, inv.Stdin))
		if err != nil {
			return &RunError{
				Program:  inv.Program,
				Kind:     inv.Kind,
				Command:  command,
				Args:     args,
				ExitCode: -1,
				Err:      err,
			}
		}
		defer in.Close()
		cmd.Stdin = in
	}

	// Stdout and Stderr stay nil: exec wires both to the null device.

	e.logger.Debug("Executing artifact",
		slog.String("program", inv.Program),
		slog.String("kind", inv.Kind.String()),
		slog.String("command", command),
		slog.Any("args", args),
	)

	err := cmd.Run()
	if err == nil {
		return nil
	}

	exitCode := -1
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	}

	return &RunError{
		Program:  inv.Program,
		Kind:     inv.Kind,
		Command:  command,
		Args:     args,
		ExitCode: exitCode,
		Err:      err,
	}
}

// commandLine composes the process argument vector for an invocation.
func (e *Executor) commandLine(inv Invocation) (string, []string) {
	if inv.Kind == toolchain.KindSandboxed {
		args := make([]string, 0, len(inv.Args)+4)
		args = append(args, "--dir", ".:.", inv.Path, "--")
		args = append(args, inv.Args...)
		return e.runtime, args
	}
	return inv.Path, inv.Args
}
