// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package toolchain

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrToolMissing indicates a required external tool is not on PATH.
	ErrToolMissing = errors.New("required tool not found")

	// ErrNoSources indicates a program directory holds no C sources to build.
	ErrNoSources = errors.New("no C source files to build")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// BuildError reports a failed external build command.
//
// A build failure is fatal to the whole run; nothing retries it. The error
// carries everything needed to reproduce the failure by hand: program,
// stage, the exact command and argument vector, the exit code, and the
// tool's combined output (possibly truncated).
type BuildError struct {
	// Program is the catalog name of the program that failed to build.
	Program string

	// Stage is one of the Stage* constants naming the pipeline step.
	Stage string

	// Command is the external tool that was invoked.
	Command string

	// Args is the full argument vector the tool was invoked with.
	Args []string

	// ExitCode is the tool's exit code, or -1 if it could not be started.
	ExitCode int

	// Output is the tool's combined stdout and stderr.
	Output string

	// Err is the underlying execution error.
	Err error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("building %s (%s): %s %s exited %d",
		e.Program, e.Stage, e.Command, strings.Join(e.Args, " "), e.ExitCode)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *BuildError) Unwrap() error {
	return e.Err
}
