// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package toolchain turns catalog programs into runnable artifacts by
// invoking external compilers.
//
// Two pipelines exist: the native pipeline is a single compile step, the
// sandbox pipeline cross-compiles to WASM and then ahead-of-time translates
// the module into a shared object the sandbox runtime can load. All tools
// are opaque command-line programs; the builder owns only argument
// composition, working directories, and failure capture.
package toolchain

import "fmt"

// ArtifactKind distinguishes the two execution forms of a program.
type ArtifactKind int

const (
	// KindNative is a natively compiled executable.
	KindNative ArtifactKind = iota

	// KindSandboxed is an AOT-translated WASM module run under the sandbox
	// runtime.
	KindSandboxed
)

// String returns the report-facing name of the artifact kind.
func (k ArtifactKind) String() string {
	switch k {
	case KindNative:
		return "native"
	case KindSandboxed:
		return "wasm"
	default:
		return fmt.Sprintf("ArtifactKind(%d)", int(k))
	}
}

// Artifact is the output of a successful build: one runnable form of one
// program. Artifacts are rebuilt on every run; nothing tracks staleness.
type Artifact struct {
	// Program is the catalog name of the program this artifact was built from.
	Program string

	// Kind says which pipeline produced the artifact.
	Kind ArtifactKind

	// Path is the absolute path of the executable (native) or translated
	// module (sandboxed).
	Path string
}

// Build stages as they appear in failure reports.
const (
	StageNativeCompile    = "native-compile"
	StageSandboxCompile   = "sandbox-compile"
	StageSandboxTranslate = "sandbox-translate"
)

// Config selects the external tools and fixed build options.
//
// The zero value is not usable; start from DefaultConfig. Config is immutable
// once handed to a Builder, which makes a Builder safe to share across
// concurrently building programs.
type Config struct {
	// Root is the bench root directory holding one source directory per
	// catalog program.
	Root string

	// NativeCompiler compiles C sources to a native executable.
	NativeCompiler string

	// SandboxCompiler cross-compiles C sources to a WASM module.
	SandboxCompiler string

	// SandboxTranslator AOT-translates a WASM module to a loadable object.
	SandboxTranslator string

	// ReservedHeap is the linear-memory reservation passed to the
	// translator for every program. The translator ignores its documented
	// minimum/maximum pair and uses exactly this reservation, so memory
	// hungry programs need it raised here, not per program.
	ReservedHeap string

	// DebugSymbols adds -g to native compiles.
	DebugSymbols bool
}

// DefaultConfig returns the stock toolchain selection: clang natively,
// the WASI SDK clang plus the Lucet translator for the sandbox, a 32MiB
// heap reservation, debug symbols on.
func DefaultConfig(root string) Config {
	return Config{
		Root:              root,
		NativeCompiler:    "clang",
		SandboxCompiler:   "wasm32-wasi-clang",
		SandboxTranslator: "lucetc-wasi",
		ReservedHeap:      "32MiB",
		DebugSymbols:      true,
	}
}
