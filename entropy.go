package shannon

import "math"

// MaxEntropy is the largest possible entropy of a byte window, in bits per byte.
// It is reached when all 256 byte values occur equally often.
const MaxEntropy = 8

// Float is the precision an entropy computation runs at.
type Float interface {
	~float32 | ~float64
}

// Histogram counts the occurrences of every byte value in a window.
type Histogram [256]uint64

// NewHistogram builds the histogram of data in one pass.
func NewHistogram(data []byte) Histogram {
	var h Histogram
	h.Add(data)
	return h
}

// Add accumulates the bytes of data into the histogram.
func (h *Histogram) Add(data []byte) {
	for _, b := range data {
		h[b]++
	}
}

// Len returns the number of bytes counted so far.
func (h *Histogram) Len() uint64 {
	var n uint64
	for _, c := range h {
		n += c
	}
	return n
}

// Entropy calculates the Shannon entropy of data in bits per byte.
//
// The result lies in [0, 8]: 0 for a window made of a single repeated value
// (or an empty window), 8 for a window where every byte value is equally
// likely. The precision is chosen by the caller:
//
//	e := shannon.Entropy[float64]([]byte("AABB")) // 1.0
func Entropy[F Float](data []byte) F {
	h := NewHistogram(data)
	return reduce[F](&h, F(len(data)))
}

// TotalEntropy returns the aggregate information content of data in bits,
// that is Entropy(data) * len(data).
func TotalEntropy[F Float](data []byte) F {
	return Entropy[F](data) * F(len(data))
}

// HistogramEntropy reduces an already accumulated histogram, giving the same
// value Entropy would for the concatenation of every window added to it.
func HistogramEntropy[F Float](h *Histogram) F {
	return reduce[F](h, F(h.Len()))
}

// Normalize scales an entropy in bits per byte into [0, 1].
func Normalize[F Float](bits F) F {
	return bits / MaxEntropy
}

// reduce computes -Σ p·log2(p) over the non-empty buckets of h.
// Empty buckets are skipped so log2(0) is never evaluated.
func reduce[F Float](h *Histogram, n F) F {
	var entropy F
	for _, count := range h {
		if count == 0 {
			continue
		}
		p := F(count) / n
		entropy -= p * log2(p)
	}
	return entropy
}

func log2[F Float](x F) F {
	return F(math.Log2(float64(x)))
}
