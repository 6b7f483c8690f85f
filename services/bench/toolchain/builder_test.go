// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package toolchain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/AleutianAI/sandbench/services/bench/catalog"
)

// writeFakeTool installs a shell script standing in for an external build
// tool. The script appends its argument vector to argvFile (one argument per
// line, runs separated by a blank line) and creates whatever file follows an
// -o or --output flag, mimicking a compiler writing its artifact.
func writeFakeTool(t *testing.T, dir, name, argvFile string, exitCode int) string {
	t.Helper()

	script := "#!/bin/sh\n" +
		"{ printf '%s\\n' \"$@\"; echo; } >> \"" + argvFile + "\"\n" +
		"prev=\"\"\n" +
		"for a in \"$@\"; do\n" +
		"  if [ \"$prev\" = \"-o\" ] || [ \"$prev\" = \"--output\" ]; then touch \"$a\"; fi\n" +
		"  prev=\"$a\"\n" +
		"done\n"
	if exitCode != 0 {
		script = "#!/bin/sh\necho 'fatal error: boom' >&2\nexit " + strconv.Itoa(exitCode) + "\n"
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeProgramDir lays out a program source directory under root.
func writeProgramDir(t *testing.T, root, name string, sources ...string) {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, src := range sources {
		if err := os.WriteFile(filepath.Join(dir, src), []byte("int x;"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// recordedArgs reads the argument vectors a fake tool logged, one slice per
// invocation.
func recordedArgs(t *testing.T, argvFile string) [][]string {
	t.Helper()

	data, err := os.ReadFile(argvFile)
	if err != nil {
		t.Fatalf("reading recorded argv: %v", err)
	}

	var runs [][]string
	for _, block := range strings.Split(strings.TrimRight(string(data), "\n"), "\n\n") {
		runs = append(runs, strings.Split(block, "\n"))
	}
	return runs
}

func TestBuildNative_ComposesReferenceCommand(t *testing.T) {
	root := t.TempDir()
	tools := t.TempDir()
	writeProgramDir(t, root, "crc", "crc.c", "crc_util.c")

	argvFile := filepath.Join(tools, "clang_argv.txt")
	cfg := DefaultConfig(root)
	cfg.NativeCompiler = writeFakeTool(t, tools, "clang", argvFile, 0)

	prog := catalog.Program{
		Name:   "crc",
		CFlags: []string{"-Wno-implicit-int", "-Wno-format"},
		LTO:    true,
	}

	art, err := NewBuilder(cfg, nil).BuildNative(context.Background(), prog)
	if err != nil {
		t.Fatalf("BuildNative() = %v, want nil", err)
	}

	runs := recordedArgs(t, argvFile)
	if len(runs) != 1 {
		t.Fatalf("compiler invoked %d times, want 1", len(runs))
	}
	want := []string{
		"-Wno-implicit-int", "-Wno-format",
		"-lm", "-lpthread", "-ldl",
		"-O3", "-flto", "-g",
		"crc.c", "crc_util.c",
		"-o", filepath.Join("bin", "crc"),
	}
	got := runs[0]
	if len(got) != len(want) {
		t.Fatalf("argv = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if art.Kind != KindNative {
		t.Errorf("artifact kind = %v, want native", art.Kind)
	}
	if _, err := os.Stat(art.Path); err != nil {
		t.Errorf("artifact path %s not created: %v", art.Path, err)
	}
	if !filepath.IsAbs(art.Path) {
		t.Errorf("artifact path %s must be absolute", art.Path)
	}
}

func TestBuildNative_OptionalFlagsOff(t *testing.T) {
	root := t.TempDir()
	tools := t.TempDir()
	writeProgramDir(t, root, "sha", "sha.c")

	argvFile := filepath.Join(tools, "clang_argv.txt")
	cfg := DefaultConfig(root)
	cfg.NativeCompiler = writeFakeTool(t, tools, "clang", argvFile, 0)
	cfg.DebugSymbols = false

	prog := catalog.Program{Name: "sha", LTO: false}
	if _, err := NewBuilder(cfg, nil).BuildNative(context.Background(), prog); err != nil {
		t.Fatalf("BuildNative() = %v, want nil", err)
	}

	for _, arg := range recordedArgs(t, argvFile)[0] {
		if arg == "-flto" {
			t.Error("LTO disabled but -flto passed")
		}
		if arg == "-g" {
			t.Error("debug symbols disabled but -g passed")
		}
	}
}

func TestBuildSandboxed_TwoStagePipeline(t *testing.T) {
	root := t.TempDir()
	tools := t.TempDir()
	writeProgramDir(t, root, "fft", "fft.c")

	compileArgv := filepath.Join(tools, "compile_argv.txt")
	translateArgv := filepath.Join(tools, "translate_argv.txt")
	cfg := DefaultConfig(root)
	cfg.SandboxCompiler = writeFakeTool(t, tools, "wasm32-wasi-clang", compileArgv, 0)
	cfg.SandboxTranslator = writeFakeTool(t, tools, "lucetc-wasi", translateArgv, 0)

	// Sandbox builds always apply LTO, even when the native build does not.
	prog := catalog.Program{Name: "fft", LTO: false, StackHint: 1 << 14}

	art, err := NewBuilder(cfg, nil).BuildSandboxed(context.Background(), prog)
	if err != nil {
		t.Fatalf("BuildSandboxed() = %v, want nil", err)
	}

	compile := recordedArgs(t, compileArgv)[0]
	wantCompile := []string{"-I.", "-O3", "-flto", "fft.c", "-o", filepath.Join("bin", "fft.wasm")}
	if strings.Join(compile, " ") != strings.Join(wantCompile, " ") {
		t.Errorf("compile argv = %v, want %v", compile, wantCompile)
	}

	translate := recordedArgs(t, translateArgv)[0]
	wantTranslate := []string{
		"--opt-level", "2",
		filepath.Join("bin", "fft.wasm"),
		"--output", filepath.Join("bin", "fft.so"),
		"--reserved-size", "32MiB",
	}
	if strings.Join(translate, " ") != strings.Join(wantTranslate, " ") {
		t.Errorf("translate argv = %v, want %v", translate, wantTranslate)
	}

	if art.Kind != KindSandboxed {
		t.Errorf("artifact kind = %v, want wasm", art.Kind)
	}
	if filepath.Base(art.Path) != "fft.so" {
		t.Errorf("artifact path = %s, want fft.so", art.Path)
	}
}

func TestBuildNative_FailureAttachesContext(t *testing.T) {
	root := t.TempDir()
	tools := t.TempDir()
	writeProgramDir(t, root, "adpcm", "adpcm.c")

	cfg := DefaultConfig(root)
	cfg.NativeCompiler = writeFakeTool(t, tools, "clang", "", 1)

	prog := catalog.Program{Name: "adpcm", CFlags: []string{"-Wno-implicit-int"}, LTO: true}
	_, err := NewBuilder(cfg, nil).BuildNative(context.Background(), prog)
	if err == nil {
		t.Fatal("BuildNative() = nil, want BuildError")
	}

	var buildErr *BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("BuildNative() = %T, want *BuildError", err)
	}
	if buildErr.Program != "adpcm" {
		t.Errorf("Program = %q, want adpcm", buildErr.Program)
	}
	if buildErr.Stage != StageNativeCompile {
		t.Errorf("Stage = %q, want %q", buildErr.Stage, StageNativeCompile)
	}
	if buildErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", buildErr.ExitCode)
	}
	if !strings.Contains(buildErr.Output, "fatal error: boom") {
		t.Errorf("Output = %q, want compiler diagnostics", buildErr.Output)
	}
	if len(buildErr.Args) == 0 || buildErr.Args[0] != "-Wno-implicit-int" {
		t.Errorf("Args = %v, want the build flags attached", buildErr.Args)
	}
}

func TestBuildSandboxed_TranslateFailure(t *testing.T) {
	root := t.TempDir()
	tools := t.TempDir()
	writeProgramDir(t, root, "fft", "fft.c")

	cfg := DefaultConfig(root)
	cfg.SandboxCompiler = writeFakeTool(t, tools, "wasm32-wasi-clang", filepath.Join(tools, "c.txt"), 0)
	cfg.SandboxTranslator = writeFakeTool(t, tools, "lucetc-wasi", "", 3)

	_, err := NewBuilder(cfg, nil).BuildSandboxed(context.Background(), catalog.Program{Name: "fft", LTO: true})

	var buildErr *BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("BuildSandboxed() = %v, want *BuildError", err)
	}
	if buildErr.Stage != StageSandboxTranslate {
		t.Errorf("Stage = %q, want %q", buildErr.Stage, StageSandboxTranslate)
	}
	if buildErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", buildErr.ExitCode)
	}
}

func TestBuildNative_NoSources(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0755); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig(root)
	_, err := NewBuilder(cfg, nil).BuildNative(context.Background(), catalog.Program{Name: "empty", LTO: true})
	if !errors.Is(err, ErrNoSources) {
		t.Errorf("BuildNative() = %v, want ErrNoSources", err)
	}
}

func TestCheckTools(t *testing.T) {
	tools := t.TempDir()
	real := writeFakeTool(t, tools, "clang", filepath.Join(tools, "argv.txt"), 0)

	ok := Config{
		NativeCompiler:    real,
		SandboxCompiler:   real,
		SandboxTranslator: real,
	}
	if err := CheckTools(ok, real); err != nil {
		t.Errorf("CheckTools() = %v, want nil", err)
	}

	broken := Config{
		NativeCompiler:    "definitely-not-a-compiler-7f3a",
		SandboxCompiler:   real,
		SandboxTranslator: "definitely-not-a-translator-7f3a",
	}
	err := CheckTools(broken)
	if !errors.Is(err, ErrToolMissing) {
		t.Fatalf("CheckTools() = %v, want ErrToolMissing", err)
	}
	if !strings.Contains(err.Error(), "definitely-not-a-compiler-7f3a") ||
		!strings.Contains(err.Error(), "definitely-not-a-translator-7f3a") {
		t.Errorf("CheckTools() error must name every missing tool, got %v", err)
	}
}

func TestArtifactKindString(t *testing.T) {
	if KindNative.String() != "native" {
		t.Errorf("KindNative = %q, want native", KindNative.String())
	}
	if KindSandboxed.String() != "wasm" {
		t.Errorf("KindSandboxed = %q, want wasm", KindSandboxed.String())
	}
}
