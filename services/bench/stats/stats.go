// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package stats reduces raw duration samples into the summary statistics
// reported by the benchmark comparison table.
//
// All functions are pure: they never mutate their inputs and produce the
// same output for the same input. Percentiles use the linear-interpolation
// method over the sorted sample; standard deviation is the population form
// (divide by N, not N-1), so a single-shot sample reports zero dispersion.
package stats

import (
	"fmt"
	"math"
	"sort"
)

// RelativeUndefined is reported when the baseline mean is zero and a relative
// comparison cannot be computed. It replaces a division error, never raises one.
const RelativeUndefined = "undefined"

// Summary holds the reduced statistics for one measured artifact.
//
// All duration fields are seconds rounded to four decimal places for
// reporting. Relative compares this summary's mean against the baseline mean
// supplied to Reduce, formatted as "X.XX% faster" or "X.XX% slower".
type Summary struct {
	Relative string
	Mean     float64
	P99      float64
	P95      float64
	Min      float64
	Max      float64
	StdDev   float64
}

// Reduce computes the summary statistics of a duration sample against a
// baseline mean.
//
// # Description
//
// Computes arithmetic mean, 99th and 95th percentile, minimum, maximum, and
// population standard deviation of the sample, each rounded to four decimal
// places. The relative label compares the rounded sample mean against the
// rounded baseline: "X.XX% faster" when the sample mean is lower, "X.XX%
// slower" when it is higher, and "0.00% faster" when they are equal. A zero
// baseline makes the comparison undefined and yields RelativeUndefined.
//
// # Inputs
//
//   - sample: Elapsed seconds per iteration. An empty sample reduces to a
//     zero Summary with an undefined label.
//   - baselineMean: Mean of the baseline sample, typically the native form's
//     mean from the same measurement pass. Pass the sample's own mean to get
//     the self-relative "0.00% faster" baseline row.
//
// # Outputs
//
//   - Summary: Reduced statistics. Never errors; degenerate inputs map to
//     defined sentinel values.
func Reduce(sample []float64, baselineMean float64) Summary {
	if len(sample) == 0 {
		return Summary{Relative: RelativeUndefined}
	}

	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)

	mean := Mean(sample)

	return Summary{
		Relative: RelativeLabel(mean, baselineMean),
		Mean:     round4(mean),
		P99:      round4(quantile(sorted, 99)),
		P95:      round4(quantile(sorted, 95)),
		Min:      round4(sorted[0]),
		Max:      round4(sorted[len(sorted)-1]),
		StdDev:   round4(StdDev(sample)),
	}
}

// Mean returns the arithmetic mean of the sample, 0 for an empty sample.
func Mean(sample []float64) float64 {
	if len(sample) == 0 {
		return 0
	}
	var sum float64
	for _, v := range sample {
		sum += v
	}
	return sum / float64(len(sample))
}

// StdDev returns the population standard deviation of the sample.
// A sample of length 0 or 1 has zero dispersion.
func StdDev(sample []float64) float64 {
	if len(sample) < 2 {
		return 0
	}
	mean := Mean(sample)
	var sumSq float64
	for _, v := range sample {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(sample)))
}

// Percentile returns the p-th percentile of the sample using linear
// interpolation between the two nearest ranks. The sample need not be sorted.
// p must be in [0, 100]; an empty sample yields 0.
func Percentile(sample []float64, p float64) float64 {
	if len(sample) == 0 {
		return 0
	}
	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)
	return quantile(sorted, p)
}

// quantile interpolates the p-th percentile over an already sorted sample.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}

	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// RelativeLabel formats the signed relative difference between a sample mean
// and a baseline mean, both rounded to four decimal places first so the label
// agrees with the reported statistics.
//
// A sample mean below the baseline reads "X.XX% faster", above reads
// "X.XX% slower". Equal means read "0.00% faster". A zero baseline returns
// RelativeUndefined instead of dividing.
func RelativeLabel(mean, baselineMean float64) string {
	m := round4(mean)
	b := round4(baselineMean)

	if b == 0 {
		return RelativeUndefined
	}

	if m > b {
		return fmt.Sprintf("%.2f%% slower", (m-b)/b*100)
	}
	return fmt.Sprintf("%.2f%% faster", (b-m)/b*100)
}

// Ratio returns mean/baselineMean over the four-decimal rounded values, the
// cell value of the ratio-only table. A zero baseline returns NaN; callers
// render that as RelativeUndefined.
func Ratio(mean, baselineMean float64) float64 {
	m := round4(mean)
	b := round4(baselineMean)
	if b == 0 {
		return math.NaN()
	}
	return m / b
}

// round4 rounds to four decimal places, half away from zero.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
