// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package report

import "errors"

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrNilContext indicates a nil context was passed to Run.
	ErrNilContext = errors.New("context must not be nil")

	// ErrNoPrograms indicates a Reporter was configured with an empty
	// catalog.
	ErrNoPrograms = errors.New("no programs to benchmark")

	// ErrInvalidRepeat indicates a repeat count below 1.
	ErrInvalidRepeat = errors.New("repeat count must be at least 1")

	// ErrNilTable indicates a Reporter was constructed without a table
	// writer.
	ErrNilTable = errors.New("table writer must not be nil")

	// ErrUnknownTableMode indicates an unrecognized table mode name.
	ErrUnknownTableMode = errors.New("unknown table mode")
)
