package shannon

import (
	"math"
	"testing"
)

// AssertEntropyBounds verifies Entropy(data) lies in [0, 8] at both precisions.
//
// Mathematical property:
//
//	0 ≤ H(X) ≤ log2(256) = 8
func AssertEntropyBounds(t *testing.T, data []byte) {
	t.Helper()

	e64 := Entropy[float64](data)
	if math.IsNaN(e64) || e64 < 0 || e64 > MaxEntropy {
		t.Errorf("float64 entropy out of range: H = %v (len=%d)", e64, len(data))
	}

	// Rounding can push a uniform window a hair past 8 at single precision.
	e32 := Entropy[float32](data)
	if math.IsNaN(float64(e32)) || e32 < 0 || e32 > MaxEntropy+1e-5 {
		t.Errorf("float32 entropy out of range: H = %v (len=%d)", e32, len(data))
	}

	t.Logf("✓ Entropy bounds: H64 = %.6f, H32 = %.6f (len=%d)", e64, e32, len(data))
}

// AssertHysteresis verifies a detector output is consistent with samples.
//
// Checked properties:
//   - every edge refers to a sample, in sample order
//   - a rising edge has normalized entropy ≥ High, a falling edge ≤ Low
//   - between two edges the detector re-armed: after a falling edge some
//     sample exceeded Low, after a rising edge some sample dipped below High
func AssertHysteresis[F Float](t *testing.T, samples []Sample[F], edges []Edge[F], th Thresholds[F]) {
	t.Helper()

	pos := -1
	var prev *Edge[F]

	for i := range edges {
		e := edges[i]

		start := pos + 1
		pos = -1
		for j := start; j < len(samples); j++ {
			if samples[j].Index == e.Index {
				pos = j
				break
			}
		}
		if pos < 0 {
			t.Fatalf("Edge %d (%s at block %d) has no matching sample after position %d",
				i, e.Type, e.Index, start-1)
		}

		normalized := Normalize(samples[pos].Entropy)
		if normalized != e.NormalizedEntropy {
			t.Errorf("Edge %d: normalized entropy %v, sample says %v", i, e.NormalizedEntropy, normalized)
		}

		switch e.Type {
		case EdgeRising:
			if normalized < th.High {
				t.Errorf("Rising edge at block %d below high threshold: %v < %v", e.Index, normalized, th.High)
			}
		case EdgeFalling:
			if normalized > th.Low {
				t.Errorf("Falling edge at block %d above low threshold: %v > %v", e.Index, normalized, th.Low)
			}
		default:
			t.Errorf("Edge %d has unknown type %q", i, e.Type)
		}

		if prev != nil && !rearmed(samples[start:pos+1], prev.Type, th) {
			t.Errorf("Edge %d (%s at block %d) fired without re-arming after %s edge at block %d",
				i, e.Type, e.Index, prev.Type, prev.Index)
		}

		prev = &edges[i]
	}

	t.Logf("✓ Hysteresis holds: %d edges over %d samples (high=%v, low=%v)",
		len(edges), len(samples), th.High, th.Low)
}

// rearmed reports whether any sample in window satisfies the re-arm rule
// that follows an edge of type last.
func rearmed[F Float](window []Sample[F], last EdgeType, th Thresholds[F]) bool {
	for _, s := range window {
		normalized := Normalize(s.Entropy)
		if last == EdgeFalling && normalized > th.Low {
			return true
		}
		if last == EdgeRising && normalized < th.High {
			return true
		}
	}
	return false
}
