// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for catalog-provided inputs that are used in
// file paths and subprocess argument vectors. Using these validators prevents
// path traversal and argument injection when benchmark definitions come from
// user-editable catalog files.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// namePattern matches valid benchmark program names.
// A program name doubles as the program's source directory and as the stem of
// its build artifacts, so it must be a single safe path element.
// Allows: letters, digits, underscores, dots, hyphens. Must start with a
// letter or digit. Max length: 64 characters.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.\-]{0,63}$`)

// ValidateProgramName validates a benchmark program name before it is used as
// a directory name or subprocess argument.
//
// Valid names:
//   - 1-64 characters
//   - Letters A-Z a-z, digits 0-9
//   - Underscores (function_pointers), dots, hyphens
//   - First character must be a letter or digit
//
// Returns an error if the name is invalid.
//
// Example:
//
//	if err := validation.ValidateProgramName(prog.Name); err != nil {
//	    return fmt.Errorf("invalid program: %w", err)
//	}
//	// Safe to use in paths and argv
func ValidateProgramName(name string) error {
	if name == "" {
		return fmt.Errorf("program name cannot be empty")
	}

	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid program name: %q (must be 1-64 alphanumeric chars, underscores, dots, or hyphens)", name)
	}

	return nil
}

// ValidateProgramNames validates multiple program names.
// Returns an error listing all invalid names if any fail validation.
func ValidateProgramNames(names []string) error {
	var invalid []string
	for _, n := range names {
		if err := ValidateProgramName(n); err != nil {
			invalid = append(invalid, n)
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid program names: %v", invalid)
	}
	return nil
}

// ValidateRelativeInput validates a path that a benchmark reads at run time,
// such as a standard-input file. The path must stay inside the program's
// directory: no absolute paths, no parent-directory traversal.
func ValidateRelativeInput(path string) error {
	if path == "" {
		return nil
	}

	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\") {
		return fmt.Errorf("input path must be relative: %q", path)
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return fmt.Errorf("input path must not traverse outside the program directory: %q", path)
		}
	}

	return nil
}
