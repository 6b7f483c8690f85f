// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package measure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AleutianAI/sandbench/services/bench/toolchain"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrNilContext indicates a nil context was passed to a blocking call.
	ErrNilContext = errors.New("context must not be nil")

	// ErrInvalidRepeat indicates a repeat count below 1.
	ErrInvalidRepeat = errors.New("repeat count must be at least 1")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// RunError reports a benchmarked program exiting non-zero during timed
// sampling.
//
// A crashing benchmark is assumed to expose a genuine incompatibility, such
// as a missing OS facility in the sandboxed form. It is fatal to the run and
// never retried; retrying would only mask the incompatibility.
type RunError struct {
	// Program is the catalog name of the crashing program.
	Program string

	// Kind says which execution form crashed.
	Kind toolchain.ArtifactKind

	// Command is the process that was started: the artifact itself for the
	// native form, the sandbox runtime for the sandboxed form.
	Command string

	// Args is the argument vector the process was started with.
	Args []string

	// ExitCode is the process exit code, or -1 if it could not be started.
	ExitCode int

	// Err is the underlying execution error.
	Err error
}

// Error implements the error interface.
func (e *RunError) Error() string {
	return fmt.Sprintf("running %s (%s): %s %s exited %d",
		e.Program, e.Kind, e.Command, strings.Join(e.Args, " "), e.ExitCode)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RunError) Unwrap() error {
	return e.Err
}
