// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package measure

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Sample is the raw measurement of one artifact: elapsed seconds per
// repetition, in execution order. Length equals the configured repeat count
// and every element is non-negative. A sample is immutable once returned.
type Sample []float64

// =============================================================================
// SAMPLER
// =============================================================================

// Sampler repeatedly runs one artifact and records each run's wall-clock
// duration.
//
// Iterations are strictly sequential and back-to-back: no warm-up discard,
// no inter-iteration delay, nothing interleaved between timed runs. The
// first iteration's cold-start cost lands in the sample on purpose; the
// percentile, min, and max fields downstream exist to expose that skew
// rather than hide it.
type Sampler struct {
	runner Runner
	logger *slog.Logger
}

// NewSampler creates a sampler driving the given runner.
func NewSampler(runner Runner, logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sampler{runner: runner, logger: logger}
}

// Sample measures repeat back-to-back runs of the invocation.
//
// Each iteration wall-clocks exactly one Runner.Run call on the monotonic
// clock. repeat must be at least 1; 1 degrades to a single-shot timing whose
// standard deviation reduces to zero. The first failed run aborts sampling
// and returns the failure unretried; a partial sample is never returned.
func (s *Sampler) Sample(ctx context.Context, inv Invocation, repeat int) (Sample, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if repeat < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRepeat, repeat)
	}

	s.logger.Debug("Sampling artifact",
		slog.String("program", inv.Program),
		slog.String("kind", inv.Kind.String()),
		slog.Int("repeat", repeat),
	)

	sample := make(Sample, 0, repeat)
	for i := 0; i < repeat; i++ {
		start := time.Now()
		err := s.runner.Run(ctx, inv)
		elapsed := time.Since(start)

		if err != nil {
			return nil, err
		}
		sample = append(sample, elapsed.Seconds())
	}

	s.logger.Debug("Sampling completed",
		slog.String("program", inv.Program),
		slog.String("kind", inv.Kind.String()),
		slog.Int("iterations", len(sample)),
	)

	return sample, nil
}
