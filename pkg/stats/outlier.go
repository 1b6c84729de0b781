// Package stats provides outlier rejection and summary statistics for
// price samples.
package stats

import (
	"math"
	"sort"
)

// MinSampleSize is the smallest sample for which a quartile estimate is
// considered robust. Below it, outlier filtering is a no-op.
const MinSampleSize = 4

// DefaultMultiplier is the standard Tukey fence multiplier.
const DefaultMultiplier = 1.5

// Fence decides the acceptable value range for a price sample.
// ok is false when the sample is too small to fence.
type Fence interface {
	Bounds(prices []int64) (lo, hi float64, ok bool)
}

// TukeyFence is the classic IQR fence: values outside
// [Q1 - m*IQR, Q3 + m*IQR] are outliers.
type TukeyFence struct {
	// Multiplier defaults to DefaultMultiplier when <= 0.
	Multiplier float64
}

// Bounds computes the fence for prices. Quartiles use linear-interpolation
// percentile estimation over a sorted copy; the input is not modified.
func (f TukeyFence) Bounds(prices []int64) (float64, float64, bool) {
	if len(prices) < MinSampleSize {
		return 0, 0, false
	}

	sorted := make([]int64, len(prices))
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	q1 := percentile(sorted, 0.25)
	q3 := percentile(sorted, 0.75)
	iqr := q3 - q1

	m := f.Multiplier
	if m <= 0 {
		m = DefaultMultiplier
	}

	return q1 - m*iqr, q3 + m*iqr, true
}

// Filter returns the prices within the fence, preserving input order.
// When the fence declines (sample too small), the input is returned as is.
func Filter(prices []int64, fence Fence) []int64 {
	lo, hi, ok := fence.Bounds(prices)
	if !ok {
		return prices
	}

	kept := make([]int64, 0, len(prices))
	for _, p := range prices {
		if v := float64(p); v >= lo && v <= hi {
			kept = append(kept, p)
		}
	}
	return kept
}

// RemoveOutliers filters prices with the default Tukey fence.
func RemoveOutliers(prices []int64) []int64 {
	return Filter(prices, TukeyFence{})
}

// percentile returns the p-th percentile (0..1) of a sorted sample using
// linear interpolation between closest ranks.
func percentile(sorted []int64, p float64) float64 {
	if len(sorted) == 1 {
		return float64(sorted[0])
	}

	pos := p * float64(len(sorted)-1)
	i := int(math.Floor(pos))
	frac := pos - float64(i)

	if i+1 >= len(sorted) {
		return float64(sorted[len(sorted)-1])
	}
	return float64(sorted[i]) + frac*(float64(sorted[i+1])-float64(sorted[i]))
}
