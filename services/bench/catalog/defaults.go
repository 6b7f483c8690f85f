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

// Default returns the built-in benchmark set.
//
// The set mixes synthetic micro-benchmarks with MiBench-derived programs.
// Several MiBench programs are deliberately absent because the sandbox
// runtime cannot execute them yet: libjpeg needs tmpfile(), sqlite and gsm
// need threads and signals the sandbox libc does not provide, qsort and
// susan overrun the fixed heap reservation, and blowfish and pgp crash at
// run time. They can be reintroduced through a catalog file once the
// toolchain catches up.
func Default() []Program {
	return []Program{
		// Synthetic benchmarks.
		{Name: "binarytrees", Args: []string{"16"}, StackHint: 1 << 14, LTO: true},
		{Name: "function_pointers", StackHint: 1 << 14, LTO: true},
		{Name: "matrix_multiply", StackHint: 1 << 14, LTO: true},

		// MiBench-derived benchmark programs.
		{
			Name:      "adpcm",
			StackHint: 1 << 14,
			CFlags:    []string{"-Wno-implicit-int", "-Wno-implicit-function-declaration"},
			LTO:       true,
			Stdin:     "large.pcm",
		},
		{Name: "basic_math", StackHint: 1 << 14, LTO: true},
		{Name: "bitcount", Args: []string{"16777216"}, StackHint: 1 << 14, LTO: true},
		{
			Name:      "crc",
			Args:      []string{"./large.pcm"},
			StackHint: 1 << 14,
			CFlags:    []string{"-Wno-implicit-int", "-Wno-format"},
			LTO:       true,
		},
		{
			Name:      "dijkstra",
			Args:      []string{"./input.dat"},
			StackHint: 1 << 14,
			CFlags:    []string{"-Wno-return-type"},
			LTO:       true,
		},
		{Name: "fft", Args: []string{"8", "32768"}, StackHint: 1 << 14, LTO: true},
		{Name: "mandelbrot", Args: []string{"5000"}, StackHint: 1 << 14, LTO: true},
		{
			Name:      "rsynth",
			Args:      []string{"-a", "-q", "-o", "/dev/null"},
			StackHint: 1 << 14,
			CFlags:    []string{"-I.", "-Wno-everything", "-I/usr/local/include/"},
			LTO:       true,
			Stdin:     "largeinput.txt",
		},
		{Name: "sha", Args: []string{"./input_large.asc"}, StackHint: 1 << 14, LTO: true},
		{Name: "stringsearch", StackHint: 1 << 13, LTO: true},
	}
}
