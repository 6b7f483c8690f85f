// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package catalog defines the set of benchmark programs the harness builds
// and measures.
//
// A catalog is an ordered, immutable list of programs. Declaration order is
// the comparison table's row order and is stable across runs. Entries are
// validated before any build begins; a malformed entry stops the run without
// invoking a toolchain.
package catalog

import (
	"fmt"
	"strings"
)

// Program describes one benchmark: a directory of C sources under the bench
// root plus how to build and invoke it.
//
// Programs are value types. Once a catalog is constructed its entries are
// never mutated; the builder and reporter receive copies.
type Program struct {
	// Name identifies the program and doubles as its source directory name
	// under the bench root and the stem of its build artifacts.
	Name string `yaml:"name"`

	// Args is the argument vector passed to the program on every timed run.
	// Arguments are passed verbatim; no shell expands or splits them.
	Args []string `yaml:"args,omitempty"`

	// StackHint is an advisory stack size in bytes carried over from the
	// benchmark suite's metadata. The sandbox toolchain currently ignores it
	// and sizes every module from the fixed heap reservation instead; the
	// hint is retained so catalogs stay complete if that changes.
	StackHint int `yaml:"stack_hint,omitempty"`

	// CFlags are extra compiler flags prepended to both the native and the
	// sandbox compile command, typically warning suppressions the older
	// benchmark sources need.
	CFlags []string `yaml:"cflags,omitempty"`

	// LTO enables link-time optimization for the native build. The sandbox
	// compile always applies it regardless.
	LTO bool `yaml:"lto"`

	// Stdin names a file, relative to the program directory, fed to the
	// program's standard input on every timed run. Empty means no input.
	Stdin string `yaml:"stdin,omitempty"`
}

// String renders the program as "name(arg arg ...)" for logs and listings.
func (p Program) String() string {
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(p.Args, " "))
}
