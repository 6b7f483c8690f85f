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
	"fmt"
	"os"
	"path/filepath"

	"github.com/AleutianAI/sandbench/pkg/validation"
)

// Validate checks a catalog for structural problems: empty catalogs, invalid
// or duplicate names, negative stack hints, and input paths that escape the
// program directory.
//
// Validation is fail-fast: the first malformed entry is returned as an
// *EntryError and no further entries are checked. It runs before any build,
// so a malformed catalog never invokes a toolchain.
func Validate(programs []Program) error {
	if len(programs) == 0 {
		return ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(programs))
	for _, p := range programs {
		if err := validation.ValidateProgramName(p.Name); err != nil {
			return &EntryError{Name: p.Name, Err: err}
		}

		if _, dup := seen[p.Name]; dup {
			return &EntryError{Name: p.Name, Err: ErrDuplicateName}
		}
		seen[p.Name] = struct{}{}

		if p.StackHint < 0 {
			return &EntryError{Name: p.Name, Err: ErrNegativeStackHint}
		}

		if err := validation.ValidateRelativeInput(p.Stdin); err != nil {
			return &EntryError{Name: p.Name, Err: err}
		}
	}

	return nil
}

// ValidateTree checks that every catalog entry is backed by real files under
// the bench root: the program directory exists, it contains at least one C
// source, and any declared standard-input file is present.
//
// Like Validate this is a pre-run check; it keeps a missing directory from
// surfacing as a confusing compiler error halfway through a batch.
func ValidateTree(root string, programs []Program) error {
	for _, p := range programs {
		dir := filepath.Join(root, p.Name)

		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return &EntryError{Name: p.Name, Err: fmt.Errorf("%w: %s", ErrProgramDirMissing, dir)}
		}

		sources, err := filepath.Glob(filepath.Join(dir, "*.c"))
		if err != nil {
			return &EntryError{Name: p.Name, Err: err}
		}
		if len(sources) == 0 {
			return &EntryError{Name: p.Name, Err: fmt.Errorf("%w: %s", ErrNoSources, dir)}
		}

		if p.Stdin != "" {
			if _, err := os.Stat(filepath.Join(dir, p.Stdin)); err != nil {
				return &EntryError{Name: p.Name, Err: fmt.Errorf("%w: %s", ErrInputMissing, p.Stdin)}
			}
		}
	}

	return nil
}
