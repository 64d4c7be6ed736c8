package shannon

import "sort"

// Summary describes the distribution of a per-block entropy series.
//
// A file that is mostly plain data has a low P50 with a few high blocks
// pulling P99 up. A compressed or encrypted file sits near 8 everywhere,
// so P50 and P99 converge on Max.
type Summary[F Float] struct {
	Count int `json:"count"`
	Min   F   `json:"min"`
	Max   F   `json:"max"`
	Mean  F   `json:"mean"`
	P50   F   `json:"p50"`
	P99   F   `json:"p99"`
}

// Summarize computes the Summary of samples. An empty series yields the zero Summary.
func Summarize[F Float](samples []Sample[F]) Summary[F] {
	n := len(samples)
	if n == 0 {
		return Summary[F]{}
	}

	sorted := make([]F, n)
	var sum F
	for i, s := range samples {
		sorted[i] = s.Entropy
		sum += s.Entropy
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	return Summary[F]{
		Count: n,
		Min:   sorted[0],
		Max:   sorted[n-1],
		Mean:  sum / F(n),
		P50:   percentile(sorted, 0.50),
		P99:   percentile(sorted, 0.99),
	}
}

// percentile picks the p-th percentile (0 <= p <= 1) of an ascending slice.
func percentile[F Float](sorted []F, p float64) F {
	index := int(float64(len(sorted)-1) * p)
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
