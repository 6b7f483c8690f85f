// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config holds the sandbench CLI configuration.
//
// A Config is loaded once by the command that needs it, adjusted by
// command-line flags, validated, and then passed down by value. There is
// no package-level configuration state; two invocations in one process
// (as happens in tests) never see each other's settings.
package config

import (
	"fmt"

	"github.com/AleutianAI/sandbench/pkg/logging"
)

// Config is the on-disk configuration record for sandbench.
//
// Every field has a working default, so an empty file (or no file at
// all) is a valid configuration that benchmarks the built-in catalog in
// the current directory.
type Config struct {
	// Root is the catalog root directory holding one subdirectory of
	// C sources per benchmark program.
	Root string `yaml:"root"`

	// Catalog optionally points to a catalog YAML file. Empty means
	// the built-in program list.
	Catalog string `yaml:"catalog"`

	// Output is the CSV file the comparison table is written to.
	Output string `yaml:"output"`

	// Profile selects the measurement profile, "smoke" or "stats".
	Profile string `yaml:"profile"`

	// Repeat overrides the profile's iteration count when positive.
	Repeat int `yaml:"repeat"`

	// ParallelBuilds compiles independent programs concurrently.
	// Measurement stays sequential regardless.
	ParallelBuilds bool `yaml:"parallel_builds"`

	// Runtime is the sandbox runtime binary used to execute translated
	// artifacts.
	Runtime string `yaml:"runtime"`

	// Toolchain configures the compilers and the translator.
	Toolchain Toolchain `yaml:"toolchain"`

	// Logging configures diagnostic output.
	Logging Logging `yaml:"logging"`
}

// Toolchain names the external tools the build pipeline invokes.
type Toolchain struct {
	// NativeCompiler builds the host-native binaries.
	NativeCompiler string `yaml:"native_compiler"`

	// SandboxCompiler builds the wasm32-wasi modules.
	SandboxCompiler string `yaml:"sandbox_compiler"`

	// SandboxTranslator compiles wasm modules ahead of time into
	// native shared objects.
	SandboxTranslator string `yaml:"sandbox_translator"`

	// ReservedHeap is the linear memory reservation passed to the
	// translator, e.g. "32MiB".
	ReservedHeap string `yaml:"reserved_heap"`

	// DebugSymbols adds -g to native builds. Unset means on.
	DebugSymbols *bool `yaml:"debug_symbols"`
}

// Logging configures the diagnostic logger.
type Logging struct {
	// Level is the minimum level: debug, info, warn, or error.
	Level string `yaml:"level"`

	// Dir enables file logging when set. Supports ~ expansion.
	Dir string `yaml:"dir"`

	// JSON switches stderr output to JSON.
	JSON bool `yaml:"json"`
}

// Profile names accepted in configuration and on the command line.
const (
	// ProfileSmoke is one iteration per program with the compact ratio
	// table. Meant to answer "does everything still build and run".
	ProfileSmoke = "smoke"

	// ProfileStats is a hundred iterations per program with the full
	// statistics table. Meant for numbers worth quoting.
	ProfileStats = "stats"
)

// Profile bundles the settings a named measurement profile implies.
type Profile struct {
	Name   string
	Repeat int
	Table  string
}

var profiles = map[string]Profile{
	ProfileSmoke: {Name: ProfileSmoke, Repeat: 1, Table: "ratio"},
	ProfileStats: {Name: ProfileStats, Repeat: 100, Table: "full"},
}

// LookupProfile resolves a profile name.
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (want %s or %s)",
			name, ProfileSmoke, ProfileStats)
	}
	return p, nil
}

// DefaultConfig returns the configuration used when no file and no
// flags say otherwise.
func DefaultConfig() Config {
	return Config{
		Root:    ".",
		Output:  "benchmarks.csv",
		Profile: ProfileSmoke,
		Runtime: "lucet-wasi",
		Toolchain: Toolchain{
			NativeCompiler:    "clang",
			SandboxCompiler:   "wasm32-wasi-clang",
			SandboxTranslator: "lucetc-wasi",
			ReservedHeap:      "32MiB",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Validate checks the configuration for values no command could act on.
func (c Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root must not be empty")
	}
	if c.Output == "" {
		return fmt.Errorf("output must not be empty")
	}
	if _, err := LookupProfile(c.Profile); err != nil {
		return err
	}
	if c.Repeat < 0 {
		return fmt.Errorf("repeat must not be negative, got %d", c.Repeat)
	}
	if c.Runtime == "" {
		return fmt.Errorf("runtime must not be empty")
	}
	if c.Toolchain.NativeCompiler == "" || c.Toolchain.SandboxCompiler == "" ||
		c.Toolchain.SandboxTranslator == "" {
		return fmt.Errorf("toolchain tools must not be empty")
	}
	if c.Toolchain.ReservedHeap == "" {
		return fmt.Errorf("toolchain reserved_heap must not be empty")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// EffectiveRepeat returns the iteration count for this configuration:
// the explicit Repeat when positive, otherwise the profile's count.
func (c Config) EffectiveRepeat() int {
	if c.Repeat > 0 {
		return c.Repeat
	}
	p, err := LookupProfile(c.Profile)
	if err != nil {
		return 1
	}
	return p.Repeat
}

// EffectiveTable returns the table mode name for this configuration.
func (c Config) EffectiveTable() string {
	p, err := LookupProfile(c.Profile)
	if err != nil {
		return "ratio"
	}
	return p.Table
}

// DebugSymbolsEnabled reports whether native builds carry debug
// symbols, defaulting to on when the file leaves it unset.
func (t Toolchain) DebugSymbolsEnabled() bool {
	return t.DebugSymbols == nil || *t.DebugSymbols
}
