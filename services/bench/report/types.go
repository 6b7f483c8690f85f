// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package report drives the full benchmark pipeline and writes the
// comparison table.
//
// The Reporter builds every catalog program in both execution forms, samples
// each artifact, reduces the samples against the native baseline, and
// appends one CSV row per program. Rows are flushed as they complete, so a
// failing program leaves earlier results on disk; nothing is rolled back.
package report

import (
	"fmt"

	"github.com/AleutianAI/sandbench/services/bench/catalog"
	"github.com/AleutianAI/sandbench/services/bench/stats"
	"github.com/AleutianAI/sandbench/services/bench/toolchain"
)

// TableMode selects the shape of the output table.
type TableMode int

const (
	// TableFull writes the statistics-grade table: relative label, mean,
	// p99, p95, min, max, and standard deviation per execution form.
	TableFull TableMode = iota

	// TableRatio writes the two-column smoke-test table of self-relative
	// ratios; the native cell is always 1.0000.
	TableRatio
)

// String returns the mode name as accepted by ParseTableMode.
func (m TableMode) String() string {
	switch m {
	case TableFull:
		return "full"
	case TableRatio:
		return "ratio"
	default:
		return fmt.Sprintf("TableMode(%d)", int(m))
	}
}

// ParseTableMode parses a mode name from configuration.
func ParseTableMode(s string) (TableMode, error) {
	switch s {
	case "full":
		return TableFull, nil
	case "ratio":
		return TableRatio, nil
	default:
		return TableFull, fmt.Errorf("%w: %q (want full or ratio)", ErrUnknownTableMode, s)
	}
}

// Config is the immutable configuration record a Reporter is constructed
// with. There is no process-global configuration; two Reporters with
// different records, say a smoke-test and a statistics-grade profile, can
// coexist in one process.
type Config struct {
	// Programs is the validated, ordered catalog. Declaration order is row
	// order.
	Programs []catalog.Program

	// Toolchain selects the external build tools and the bench root.
	Toolchain toolchain.Config

	// Runtime is the sandbox runtime command that executes sandboxed
	// artifacts.
	Runtime string

	// Repeat is the number of timed iterations per artifact. 1 gives the
	// smoke profile's single-shot timing; 100 the statistics-grade profile.
	Repeat int

	// Mode selects the table shape.
	Mode TableMode

	// ParallelBuilds allows independent programs' build phases to run
	// concurrently. Sampling stays strictly sequential regardless.
	ParallelBuilds bool

	// RunID tags log lines of one harness invocation.
	RunID string
}

// Row is one comparison table entry: both execution forms of one program,
// reduced. Rows are appended in catalog order and never mutated.
type Row struct {
	Program    string
	Iterations int
	Native     stats.Summary
	Sandboxed  stats.Summary
}
