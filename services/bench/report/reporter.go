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

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/sandbench/pkg/ux"
	"github.com/AleutianAI/sandbench/services/bench/catalog"
	"github.com/AleutianAI/sandbench/services/bench/measure"
	"github.com/AleutianAI/sandbench/services/bench/stats"
	"github.com/AleutianAI/sandbench/services/bench/toolchain"
)

// ArtifactBuilder produces both execution forms of a program.
type ArtifactBuilder interface {
	BuildNative(ctx context.Context, prog catalog.Program) (toolchain.Artifact, error)
	BuildSandboxed(ctx context.Context, prog catalog.Program) (toolchain.Artifact, error)
}

var _ ArtifactBuilder = (*toolchain.Builder)(nil)

// DurationSampler measures repeated runs of one artifact.
type DurationSampler interface {
	Sample(ctx context.Context, inv measure.Invocation, repeat int) (measure.Sample, error)
}

var _ DurationSampler = (*measure.Sampler)(nil)

// =============================================================================
// REPORTER
// =============================================================================

// Reporter runs the benchmark batch end to end.
//
// # Description
//
// For every catalog program the Reporter builds the native and sandboxed
// artifacts, samples both, reduces the samples against the native mean of
// the same pass, and appends one row to the comparison table. The build
// phase completes for the whole catalog before any timing starts, so
// compiler activity never shares the machine with a timed run. Build
// failures and crashing benchmarks abort the batch; rows already flushed
// stay in the table.
//
// # Thread Safety
//
// A Reporter is single-use and not safe for concurrent Run calls. Within
// one Run, builds may be concurrent when the configuration allows it;
// sampling is always strictly sequential.
type Reporter struct {
	cfg     Config
	table   io.Writer
	builder ArtifactBuilder
	sampler DurationSampler
	console *ux.Console
	logger  *slog.Logger
}

// Option configures the Reporter.
type Option func(*Reporter)

// WithBuilder replaces the toolchain builder, mainly for tests.
func WithBuilder(b ArtifactBuilder) Option {
	return func(r *Reporter) {
		r.builder = b
	}
}

// WithSampler replaces the duration sampler, mainly for tests.
func WithSampler(s DurationSampler) Option {
	return func(r *Reporter) {
		r.sampler = s
	}
}

// WithConsole redirects progress output, which defaults to stdout.
func WithConsole(c *ux.Console) Option {
	return func(r *Reporter) {
		r.console = c
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reporter) {
		r.logger = l
	}
}

// NewReporter creates a reporter for one batch.
//
// cfg must carry a non-empty catalog and a repeat count of at least 1;
// table receives the CSV output. Collaborators not supplied through options
// are constructed from cfg.
func NewReporter(cfg Config, table io.Writer, opts ...Option) (*Reporter, error) {
	if len(cfg.Programs) == 0 {
		return nil, ErrNoPrograms
	}
	if cfg.Repeat < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRepeat, cfg.Repeat)
	}
	if table == nil {
		return nil, ErrNilTable
	}

	r := &Reporter{
		cfg:   cfg,
		table: table,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.builder == nil {
		r.builder = toolchain.NewBuilder(cfg.Toolchain, r.logger)
	}
	if r.sampler == nil {
		r.sampler = measure.NewSampler(measure.NewExecutor(cfg.Runtime, r.logger), r.logger)
	}
	if r.console == nil {
		r.console = ux.NewConsole(os.Stdout)
	}

	return r, nil
}

// Run executes the batch: build everything, then measure everything.
//
// The first failure terminates the run with the underlying *BuildError or
// *RunError; both identify the program and phase. The table header is
// written before the first measurement, and each completed row is flushed
// immediately.
func (r *Reporter) Run(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}

	r.logger.Info("Starting benchmark batch",
		slog.String("run_id", r.cfg.RunID),
		slog.Int("programs", len(r.cfg.Programs)),
		slog.Int("repeat", r.cfg.Repeat),
		slog.String("mode", r.cfg.Mode.String()),
		slog.Bool("parallel_builds", r.cfg.ParallelBuilds),
	)

	artifacts, err := r.buildAll(ctx)
	if err != nil {
		r.console.Errorf("build failed: %v", err)
		return err
	}

	return r.measureAll(ctx, artifacts)
}

// Build runs the compile phase on its own: every program is built in both
// forms, but nothing is executed and no table is written. It is the
// warm-the-cache counterpart to Run.
func (r *Reporter) Build(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}

	r.logger.Info("Starting build-only batch",
		slog.String("run_id", r.cfg.RunID),
		slog.Int("programs", len(r.cfg.Programs)),
		slog.Bool("parallel_builds", r.cfg.ParallelBuilds),
	)

	if _, err := r.buildAll(ctx); err != nil {
		r.console.Errorf("build failed: %v", err)
		return err
	}
	return nil
}

// artifactPair holds both execution forms of one built program.
type artifactPair struct {
	native    toolchain.Artifact
	sandboxed toolchain.Artifact
}

// buildAll compiles every program in both forms before any timing starts.
func (r *Reporter) buildAll(ctx context.Context) (map[string]artifactPair, error) {
	if r.cfg.ParallelBuilds {
		return r.buildAllParallel(ctx)
	}

	total := len(r.cfg.Programs)
	artifacts := make(map[string]artifactPair, total)

	for i, prog := range r.cfg.Programs {
		r.console.Sectionf("Compiling %s %d/%d", prog.Name, i+1, total)

		r.console.Printf("==> NATIVE")
		native, err := r.builder.BuildNative(ctx, prog)
		if err != nil {
			return nil, err
		}

		r.console.Printf("==> WASM")
		sandboxed, err := r.builder.BuildSandboxed(ctx, prog)
		if err != nil {
			return nil, err
		}

		artifacts[prog.Name] = artifactPair{native: native, sandboxed: sandboxed}
	}

	return artifacts, nil
}

// buildAllParallel compiles independent programs concurrently. The builder
// shares no cross-program state, so the only coordination is the result map.
func (r *Reporter) buildAllParallel(ctx context.Context) (map[string]artifactPair, error) {
	total := len(r.cfg.Programs)
	artifacts := make(map[string]artifactPair, total)

	var (
		mu   sync.Mutex
		done atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, prog := range r.cfg.Programs {
		prog := prog // per-iteration copy; required while the go directive predates 1.22
		g.Go(func() error {
			native, err := r.builder.BuildNative(gctx, prog)
			if err != nil {
				return err
			}
			sandboxed, err := r.builder.BuildSandboxed(gctx, prog)
			if err != nil {
				return err
			}

			mu.Lock()
			artifacts[prog.Name] = artifactPair{native: native, sandboxed: sandboxed}
			mu.Unlock()

			r.console.Sectionf("Compiled %s %d/%d", prog.Name, done.Add(1), total)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// measureAll samples every built program in catalog order and writes the
// table incrementally.
func (r *Reporter) measureAll(ctx context.Context, artifacts map[string]artifactPair) error {
	w := csv.NewWriter(r.table)

	if err := w.Write(r.header()); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}

	for _, prog := range r.cfg.Programs {
		pair := artifacts[prog.Name]
		dir, err := filepath.Abs(filepath.Join(r.cfg.Toolchain.Root, prog.Name))
		if err != nil {
			return fmt.Errorf("resolving directory for %s: %w", prog.Name, err)
		}

		r.console.Sectionf("Executing %s", prog.Name)

		r.console.Partialf("==> NATIVE")
		nativeSample, err := r.sampler.Sample(ctx, r.invocation(prog, pair.native, dir), r.cfg.Repeat)
		if err != nil {
			r.logFailure(prog.Name, "native", err)
			return err
		}
		nativeSum := stats.Reduce(nativeSample, stats.Mean(nativeSample))
		r.console.Finishf(" = %.4f", nativeSum.Mean)

		if nativeSum.Mean == 0 {
			r.logger.Warn("Baseline mean is zero; relative comparison undefined",
				slog.String("program", prog.Name))
		}

		r.console.Partialf("==> WASM")
		sandboxSample, err := r.sampler.Sample(ctx, r.invocation(prog, pair.sandboxed, dir), r.cfg.Repeat)
		if err != nil {
			r.logFailure(prog.Name, "wasm", err)
			return err
		}
		sandboxSum := stats.Reduce(sandboxSample, nativeSum.Mean)
		r.console.Finishf(" = %.4f %s", sandboxSum.Mean, r.console.Verdict(sandboxSum.Relative))

		row := Row{
			Program:    prog.Name,
			Iterations: r.cfg.Repeat,
			Native:     nativeSum,
			Sandboxed:  sandboxSum,
		}
		if err := w.Write(r.cells(row)); err != nil {
			return fmt.Errorf("writing row for %s: %w", prog.Name, err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("writing row for %s: %w", prog.Name, err)
		}

		r.logger.Info("Program measured",
			slog.String("run_id", r.cfg.RunID),
			slog.String("program", prog.Name),
			slog.Float64("native_mean", nativeSum.Mean),
			slog.Float64("wasm_mean", sandboxSum.Mean),
			slog.String("relative", sandboxSum.Relative),
		)
	}

	return nil
}

// invocation maps a built artifact back to a runnable invocation.
func (r *Reporter) invocation(prog catalog.Program, art toolchain.Artifact, dir string) measure.Invocation {
	return measure.Invocation{
		Program: prog.Name,
		Kind:    art.Kind,
		Path:    art.Path,
		Args:    prog.Args,
		Dir:     dir,
		Stdin:   prog.Stdin,
	}
}

// logFailure records which program and phase took the batch down.
func (r *Reporter) logFailure(program, form string, err error) {
	r.logger.Error("Benchmark run failed",
		slog.String("run_id", r.cfg.RunID),
		slog.String("program", program),
		slog.String("form", form),
		slog.String("error", err.Error()),
	)
}

// header returns the CSV header row for the configured mode.
func (r *Reporter) header() []string {
	if r.cfg.Mode == TableRatio {
		return []string{"Program", "native", "wasm"}
	}
	return []string{
		"Program", "Iterations",
		"native", "avg", "p99", "p95", "min", "max", "sd",
		"wasm", "avg", "p99", "p95", "min", "max", "sd",
	}
}

// cells renders one row for the configured mode.
func (r *Reporter) cells(row Row) []string {
	if r.cfg.Mode == TableRatio {
		return []string{
			row.Program,
			ratioCell(row.Native.Mean, row.Native.Mean),
			ratioCell(row.Sandboxed.Mean, row.Native.Mean),
		}
	}

	cells := make([]string, 0, 16)
	cells = append(cells, row.Program, strconv.Itoa(row.Iterations))
	cells = append(cells, summaryCells(row.Native)...)
	cells = append(cells, summaryCells(row.Sandboxed)...)
	return cells
}

// summaryCells renders one execution form's seven statistic columns.
func summaryCells(s stats.Summary) []string {
	return []string{
		s.Relative,
		f4(s.Mean),
		f4(s.P99),
		f4(s.P95),
		f4(s.Min),
		f4(s.Max),
		f4(s.StdDev),
	}
}

// ratioCell renders a self-relative ratio, or the undefined sentinel when
// the baseline mean is zero.
func ratioCell(mean, baseline float64) string {
	v := stats.Ratio(mean, baseline)
	if math.IsNaN(v) {
		return stats.RelativeUndefined
	}
	return f4(v)
}

// f4 formats a statistic with the table's fixed four decimal places.
func f4(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
