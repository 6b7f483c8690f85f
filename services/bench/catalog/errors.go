// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package catalog

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrEmptyCatalog indicates a catalog with no programs.
	ErrEmptyCatalog = errors.New("catalog contains no programs")

	// ErrDuplicateName indicates two catalog entries share a name.
	ErrDuplicateName = errors.New("duplicate program name")

	// ErrNegativeStackHint indicates a catalog entry with a negative stack hint.
	ErrNegativeStackHint = errors.New("stack hint must not be negative")

	// ErrProgramDirMissing indicates a program's source directory does not
	// exist under the bench root.
	ErrProgramDirMissing = errors.New("program directory not found")

	// ErrNoSources indicates a program directory contains no C sources.
	ErrNoSources = errors.New("no C source files in program directory")

	// ErrInputMissing indicates a program's standard-input file does not exist.
	ErrInputMissing = errors.New("input file not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// EntryError wraps a validation failure with the offending catalog entry.
// Validation runs before any build starts, so an EntryError always means the
// run stopped without touching a toolchain.
type EntryError struct {
	// Name is the program name of the malformed entry. May be empty when the
	// name itself is the problem.
	Name string

	// Err is the underlying cause, usually one of the sentinel errors above.
	Err error
}

// Error implements the error interface.
func (e *EntryError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("catalog entry: %v", e.Err)
	}
	return fmt.Sprintf("catalog entry %q: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *EntryError) Unwrap() error {
	return e.Err
}
