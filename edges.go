package shannon

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// EdgeType is the direction of a detected entropy transition.
type EdgeType string

const (
	EdgeRising  EdgeType = "rising"  // Normalized entropy reached the high threshold
	EdgeFalling EdgeType = "falling" // Normalized entropy reached the low threshold
)

// String returns the edge type name, "rising" or "falling".
func (t EdgeType) String() string {
	return string(t)
}

// Sample is the entropy of one block, in bits per byte.
//
// Index is the caller-assigned, non-negative block number (zero-based in
// read order for blocks.Scanner). The detector copies it into Edge.Index
// as-is and never checks it.
type Sample[F Float] struct {
	Index   int `json:"index"`
	Entropy F   `json:"entropy"`
}

// Edge is a confirmed transition. NormalizedEntropy is the sample's entropy
// divided by 8 at the moment the edge fired.
type Edge[F Float] struct {
	Index             int      `json:"index"`
	Type              EdgeType `json:"type"`
	NormalizedEntropy F        `json:"normalized_entropy"`
}

var (
	// ErrThresholdRange marks a threshold that is NaN or outside [0, 1].
	ErrThresholdRange = errors.New("threshold outside [0, 1]")
	// ErrThresholdOrder marks a band whose High is below its Low.
	ErrThresholdOrder = errors.New("high threshold below low threshold")
)

// Thresholds are the two normalized levels of the hysteresis band.
type Thresholds[F Float] struct {
	High F `json:"high" mapstructure:"high"`
	Low  F `json:"low" mapstructure:"low"`
}

// DefaultThresholds flags regions that are close to random (compressed or
// encrypted) against a band starting at 85% of the maximum.
func DefaultThresholds[F Float]() Thresholds[F] {
	return Thresholds[F]{
		High: 0.95,
		Low:  0.85,
	}
}

// Validate reports every violated precondition at once.
// The detector itself never validates; callers are expected to.
func (th Thresholds[F]) Validate() error {
	var result *multierror.Error

	if !(th.High >= 0 && th.High <= 1) {
		result = multierror.Append(result, fmt.Errorf("high=%v: %w", th.High, ErrThresholdRange))
	}
	if !(th.Low >= 0 && th.Low <= 1) {
		result = multierror.Append(result, fmt.Errorf("low=%v: %w", th.Low, ErrThresholdRange))
	}
	if th.High < th.Low {
		result = multierror.Append(result, fmt.Errorf("high=%v low=%v: %w", th.High, th.Low, ErrThresholdOrder))
	}

	return result.ErrorOrNil()
}

// EdgeDetector is a Schmitt trigger over a stream of entropy samples.
//
// Hysteresis:
//   - after a falling edge (or before any edge) it only re-arms once the
//     signal climbs above Low
//   - after a rising edge it only re-arms once the signal dips below High
//
// While armed, a sample at or above High fires a rising edge and a sample at
// or below Low fires a falling edge. Rising is tested first. Firing disarms.
//
// An EdgeDetector holds the state of one sequence and must not be shared
// between goroutines.
type EdgeDetector[F Float] struct {
	thresholds Thresholds[F]

	last  EdgeType // "" until the first edge fires
	armed bool
}

// NewEdgeDetector returns an armed detector with no edge history.
func NewEdgeDetector[F Float](th Thresholds[F]) *EdgeDetector[F] {
	d := &EdgeDetector[F]{thresholds: th}
	d.Reset()
	return d
}

// Reset returns the detector to its initial state.
func (d *EdgeDetector[F]) Reset() {
	d.last = ""
	d.armed = true
}

// Feed classifies the next sample and returns the edge it confirmed, if any.
func (d *EdgeDetector[F]) Feed(s Sample[F]) (Edge[F], bool) {
	normalized := Normalize(s.Entropy)

	switch d.last {
	case "", EdgeFalling:
		if normalized > d.thresholds.Low {
			d.armed = true
		}
	case EdgeRising:
		if normalized < d.thresholds.High {
			d.armed = true
		}
	}

	if !d.armed {
		return Edge[F]{}, false
	}

	var typ EdgeType
	switch {
	case normalized >= d.thresholds.High:
		typ = EdgeRising
	case normalized <= d.thresholds.Low:
		typ = EdgeFalling
	default:
		return Edge[F]{}, false
	}

	d.last = typ
	d.armed = false

	return Edge[F]{
		Index:             s.Index,
		Type:              typ,
		NormalizedEntropy: normalized,
	}, true
}

// DetectEdges runs a fresh detector over samples in order.
// Behaviour is only meaningful for high >= low; see Thresholds.Validate.
func DetectEdges[F Float](samples []Sample[F], high, low F) []Edge[F] {
	d := NewEdgeDetector(Thresholds[F]{High: high, Low: low})

	edges := make([]Edge[F], 0)
	for _, s := range samples {
		if e, ok := d.Feed(s); ok {
			edges = append(edges, e)
		}
	}

	return edges
}
