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
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/AleutianAI/sandbench/services/bench/catalog"
)

// maxToolOutput caps how much compiler output a BuildError carries.
const maxToolOutput = 64 * 1024

// =============================================================================
// BUILDER
// =============================================================================

// Builder compiles catalog programs into native and sandboxed artifacts.
//
// Thread Safety: Safe for concurrent use across different programs. Each
// build touches only its own program directory; the Config is never written
// after construction.
type Builder struct {
	cfg    Config
	logger *slog.Logger
}

// NewBuilder creates a builder for the given toolchain configuration.
func NewBuilder(cfg Config, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{cfg: cfg, logger: logger}
}

// BuildNative compiles a program's C sources into a native executable at
// <root>/<name>/bin/<name>.
//
// The command matches the suite's reference invocation: extra per-program
// flags first, then the math/pthread/dl libraries, -O3, optional -flto and
// -g, every C source in the program directory, and the output path. The
// program directory is the compiler's working directory.
//
// Outputs are overwritten unconditionally; artifacts are rebuilt every run.
func (b *Builder) BuildNative(ctx context.Context, prog catalog.Program) (Artifact, error) {
	dir, sources, err := b.prepare(prog)
	if err != nil {
		return Artifact{}, err
	}

	args := make([]string, 0, len(prog.CFlags)+len(sources)+8)
	args = append(args, prog.CFlags...)
	args = append(args, "-lm", "-lpthread", "-ldl", "-O3")
	if prog.LTO {
		args = append(args, "-flto")
	}
	if b.cfg.DebugSymbols {
		args = append(args, "-g")
	}
	args = append(args, sources...)
	args = append(args, "-o", filepath.Join("bin", prog.Name))

	if err := b.runTool(ctx, prog.Name, StageNativeCompile, dir, b.cfg.NativeCompiler, args); err != nil {
		return Artifact{}, err
	}

	return Artifact{
		Program: prog.Name,
		Kind:    KindNative,
		Path:    filepath.Join(dir, "bin", prog.Name),
	}, nil
}

// BuildSandboxed compiles a program to WASM and AOT-translates the module
// into a loadable object at <root>/<name>/bin/<name>.so.
//
// Stage one cross-compiles with the sandbox compiler; -flto is always on for
// the sandbox form. Stage two runs the translator with the configured heap
// reservation. prog.StackHint is not threaded through either stage; modules
// take the toolchain's default stack and the fixed reservation.
func (b *Builder) BuildSandboxed(ctx context.Context, prog catalog.Program) (Artifact, error) {
	dir, sources, err := b.prepare(prog)
	if err != nil {
		return Artifact{}, err
	}

	wasmOut := filepath.Join("bin", prog.Name+".wasm")
	objOut := filepath.Join("bin", prog.Name+".so")

	compileArgs := make([]string, 0, len(prog.CFlags)+len(sources)+6)
	compileArgs = append(compileArgs, prog.CFlags...)
	compileArgs = append(compileArgs, "-I.", "-O3", "-flto")
	compileArgs = append(compileArgs, sources...)
	compileArgs = append(compileArgs, "-o", wasmOut)

	if err := b.runTool(ctx, prog.Name, StageSandboxCompile, dir, b.cfg.SandboxCompiler, compileArgs); err != nil {
		return Artifact{}, err
	}

	translateArgs := []string{
		"--opt-level", "2",
		wasmOut,
		"--output", objOut,
		"--reserved-size", b.cfg.ReservedHeap,
	}

	if err := b.runTool(ctx, prog.Name, StageSandboxTranslate, dir, b.cfg.SandboxTranslator, translateArgs); err != nil {
		return Artifact{}, err
	}

	return Artifact{
		Program: prog.Name,
		Kind:    KindSandboxed,
		Path:    filepath.Join(dir, "bin", prog.Name+".so"),
	}, nil
}

// prepare resolves the program directory, creates its bin/ output
// directory, and globs the C sources to compile.
func (b *Builder) prepare(prog catalog.Program) (string, []string, error) {
	dir, err := filepath.Abs(filepath.Join(b.cfg.Root, prog.Name))
	if err != nil {
		return "", nil, fmt.Errorf("resolving program directory for %s: %w", prog.Name, err)
	}

	if err := os.MkdirAll(filepath.Join(dir, "bin"), 0755); err != nil {
		return "", nil, fmt.Errorf("creating bin directory for %s: %w", prog.Name, err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.c"))
	if err != nil {
		return "", nil, fmt.Errorf("globbing sources for %s: %w", prog.Name, err)
	}
	if len(matches) == 0 {
		return "", nil, fmt.Errorf("%w: %s", ErrNoSources, dir)
	}

	// Compile commands run inside dir, so sources go in as bare file names.
	// Glob output is sorted, which keeps the command stable across runs.
	sources := make([]string, len(matches))
	for i, m := range matches {
		sources[i] = filepath.Base(m)
	}

	return dir, sources, nil
}

// runTool executes one external build command with captured output.
func (b *Builder) runTool(ctx context.Context, program, stage, dir, command string, args []string) error {
	start := time.Now()

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir

	out := &boundedBuffer{limit: maxToolOutput}
	cmd.Stdout = out
	cmd.Stderr = out

	b.logger.Debug("Running build tool",
		slog.String("program", program),
		slog.String("stage", stage),
		slog.String("command", command),
		slog.Any("args", args),
	)

	err := cmd.Run()
	if err == nil {
		b.logger.Info("Build stage completed",
			slog.String("program", program),
			slog.String("stage", stage),
			slog.Duration("duration", time.Since(start)),
		)
		return nil
	}

	exitCode := -1
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	}

	b.logger.Error("Build stage failed",
		slog.String("program", program),
		slog.String("stage", stage),
		slog.String("command", command),
		slog.Int("exit_code", exitCode),
		slog.Int("output_bytes", out.buf.Len()),
	)

	return &BuildError{
		Program:  program,
		Stage:    stage,
		Command:  command,
		Args:     args,
		ExitCode: exitCode,
		Output:   out.String(),
		Err:      err,
	}
}

// CheckTools verifies every configured build tool, plus any extra commands
// the caller depends on, resolves on PATH. Returns a single error naming all
// missing tools so the operator fixes the environment once, not piecemeal.
func CheckTools(cfg Config, extra ...string) error {
	tools := []string{cfg.NativeCompiler, cfg.SandboxCompiler, cfg.SandboxTranslator}
	tools = append(tools, extra...)

	var missing []string
	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrToolMissing, strings.Join(missing, ", "))
	}
	return nil
}

// =============================================================================
// BOUNDED BUFFER
// =============================================================================

// boundedBuffer collects subprocess output up to a byte limit, then
// discards. Used as both stdout and stderr of one command; exec serializes
// writes when both point at the same writer.
type boundedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	if b.buf.Len() >= b.limit {
		b.truncated = true
		return len(p), nil
	}

	if remaining := b.limit - b.buf.Len(); len(p) > remaining {
		b.buf.Write(p[:remaining])
		b.truncated = true
		return len(p), nil
	}

	b.buf.Write(p)
	return len(p), nil
}

// String returns the captured output, with a marker when truncated.
func (b *boundedBuffer) String() string {
	if b.truncated {
		return b.buf.String() + "\n[output truncated]"
	}
	return b.buf.String()
}
