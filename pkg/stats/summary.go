package stats

import "sort"

// Summary holds the headline statistics of a price sample.
type Summary struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	Min    int64   `json:"min" yaml:"min"`
	Max    int64   `json:"max" yaml:"max"`
}

// Summarize computes mean, median, min and max over prices.
// ok is false for an empty sample.
func Summarize(prices []int64) (Summary, bool) {
	if len(prices) == 0 {
		return Summary{}, false
	}

	s := Summary{
		Count: len(prices),
		Min:   prices[0],
		Max:   prices[0],
	}

	var total int64
	for _, p := range prices {
		total += p
		if p < s.Min {
			s.Min = p
		}
		if p > s.Max {
			s.Max = p
		}
	}
	s.Mean = float64(total) / float64(len(prices))
	s.Median = median(prices)

	return s, true
}

// median computes the sample median without reordering the input.
func median(prices []int64) float64 {
	sorted := make([]int64, len(prices))
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
}
