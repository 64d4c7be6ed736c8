package shannon

import (
	"errors"
	"math"
	"testing"
)

func samplesOf[F Float](entropies ...F) []Sample[F] {
	out := make([]Sample[F], len(entropies))
	for i, e := range entropies {
		out[i] = Sample[F]{Index: i, Entropy: e}
	}
	return out
}

// TestDetectEdges_RisingThenFalling is the canonical encrypted-then-plain file.
func TestDetectEdges_RisingThenFalling(t *testing.T) {
	samples := samplesOf(7.8, 7.9, 2.0, 1.0)

	edges := DetectEdges(samples, 0.95, 0.85)

	if len(edges) != 2 {
		t.Fatalf("Expected 2 edges, got %d: %+v", len(edges), edges)
	}
	if edges[0].Type != EdgeRising || edges[0].Index != 0 {
		t.Errorf("Expected rising edge at 0, got %s at %d", edges[0].Type, edges[0].Index)
	}
	if edges[1].Type != EdgeFalling || edges[1].Index != 2 {
		t.Errorf("Expected falling edge at 2, got %s at %d", edges[1].Type, edges[1].Index)
	}
	if edges[0].NormalizedEntropy != 7.8/8 {
		t.Errorf("Expected normalized entropy %v, got %v", 7.8/8, edges[0].NormalizedEntropy)
	}
	if edges[1].NormalizedEntropy != 0.25 {
		t.Errorf("Expected normalized entropy 0.25, got %v", edges[1].NormalizedEntropy)
	}

	AssertHysteresis(t, samples, edges, Thresholds[float64]{High: 0.95, Low: 0.85})
}

// TestDetectEdges_Empty verifies no samples means no edges.
func TestDetectEdges_Empty(t *testing.T) {
	edges := DetectEdges[float32](nil, 0.95, 0.85)
	if edges == nil || len(edges) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", edges)
	}
}

// TestDetectEdges_SingleHigh verifies the initial state is armed.
func TestDetectEdges_SingleHigh(t *testing.T) {
	edges := DetectEdges(samplesOf[float32](8), 0.95, 0.85)

	if len(edges) != 1 || edges[0].Type != EdgeRising {
		t.Fatalf("Expected one rising edge, got %+v", edges)
	}
	if edges[0].NormalizedEntropy != 1 {
		t.Errorf("Expected normalized entropy 1, got %v", edges[0].NormalizedEntropy)
	}
}

// TestDetectEdges_SustainedHigh verifies a plateau fires exactly once.
func TestDetectEdges_SustainedHigh(t *testing.T) {
	for _, n := range []int{1, 2, 10, 1000} {
		entropies := make([]float64, n)
		for i := range entropies {
			entropies[i] = 7.9 + 0.1*float64(i%2)
		}

		edges := DetectEdges(samplesOf(entropies...), 0.95, 0.85)
		if len(edges) != 1 || edges[0].Type != EdgeRising || edges[0].Index != 0 {
			t.Errorf("n=%d: expected a single rising edge at 0, got %+v", n, edges)
		}
	}

	t.Logf("✓ Plateau above high threshold fires once regardless of length")
}

// TestDetectEdges_Hysteresis walks the detector through the band.
func TestDetectEdges_Hysteresis(t *testing.T) {
	th := Thresholds[float64]{High: 0.75, Low: 0.25}

	tests := []struct {
		name      string
		normalize []float64 // normalized values, scaled by 8 before detection
		want      []EdgeType
		wantIdx   []int
	}{
		{
			name:      "noise inside band never fires",
			normalize: []float64{0.5, 0.6, 0.4, 0.7, 0.3},
			want:      nil,
		},
		{
			name:      "low start fires falling immediately",
			normalize: []float64{0.1},
			want:      []EdgeType{EdgeFalling},
			wantIdx:   []int{0},
		},
		{
			name:      "falling stays quiet until low is exceeded",
			normalize: []float64{0.1, 0.2, 0.25, 0.1, 0.9},
			want:      []EdgeType{EdgeFalling, EdgeRising},
			wantIdx:   []int{0, 4},
		},
		{
			name:      "re-arm inside band allows repeated falling",
			normalize: []float64{0.1, 0.5, 0.1},
			want:      []EdgeType{EdgeFalling, EdgeFalling},
			wantIdx:   []int{0, 2},
		},
		{
			name:      "dip below high allows repeated rising",
			normalize: []float64{0.9, 0.7, 0.9},
			want:      []EdgeType{EdgeRising, EdgeRising},
			wantIdx:   []int{0, 2},
		},
		{
			name:      "touching high exactly after rising does not re-arm",
			normalize: []float64{0.9, 0.75, 0.9},
			want:      []EdgeType{EdgeRising},
			wantIdx:   []int{0},
		},
		{
			name:      "square wave alternates",
			normalize: []float64{1, 0, 1, 0},
			want:      []EdgeType{EdgeRising, EdgeFalling, EdgeRising, EdgeFalling},
			wantIdx:   []int{0, 1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entropies := make([]float64, len(tt.normalize))
			for i, v := range tt.normalize {
				entropies[i] = v * MaxEntropy
			}
			samples := samplesOf(entropies...)

			edges := DetectEdges(samples, th.High, th.Low)

			if len(edges) != len(tt.want) {
				t.Fatalf("Expected %d edges, got %d: %+v", len(tt.want), len(edges), edges)
			}
			for i, e := range edges {
				if e.Type != tt.want[i] || e.Index != tt.wantIdx[i] {
					t.Errorf("Edge %d: expected %s at %d, got %s at %d",
						i, tt.want[i], tt.wantIdx[i], e.Type, e.Index)
				}
			}

			AssertHysteresis(t, samples, edges, th)
		})
	}
}

// TestDetectEdges_FallingHoldsUntilRecovery checks nothing fires after a
// falling edge until some sample exceeds the low threshold.
func TestDetectEdges_FallingHoldsUntilRecovery(t *testing.T) {
	samples := samplesOf(1.0, 0.5, 6.8, 6.8, 0.5, 7.9)

	edges := DetectEdges(samples, 0.95, 0.85)

	// 6.8/8 = 0.85 is not above low, so the second dip stays silent.
	if len(edges) != 2 {
		t.Fatalf("Expected 2 edges, got %+v", edges)
	}
	if edges[0].Type != EdgeFalling || edges[0].Index != 0 {
		t.Errorf("Expected falling at 0, got %s at %d", edges[0].Type, edges[0].Index)
	}
	if edges[1].Type != EdgeRising || edges[1].Index != 5 {
		t.Errorf("Expected rising at 5, got %s at %d", edges[1].Type, edges[1].Index)
	}
}

// TestDetectEdges_InvertedThresholds documents that rising wins when both match.
func TestDetectEdges_InvertedThresholds(t *testing.T) {
	edges := DetectEdges(samplesOf[float64](4), 0.4, 0.6)

	if len(edges) != 1 || edges[0].Type != EdgeRising {
		t.Errorf("Expected rising edge to take precedence, got %+v", edges)
	}
}

// TestDetectEdges_PreservesIndices verifies caller indices are reported verbatim.
func TestDetectEdges_PreservesIndices(t *testing.T) {
	samples := []Sample[float32]{
		{Index: 10, Entropy: 8},
		{Index: 20, Entropy: 0},
	}

	edges := DetectEdges(samples, 0.95, 0.85)
	if len(edges) != 2 || edges[0].Index != 10 || edges[1].Index != 20 {
		t.Errorf("Expected edges at 10 and 20, got %+v", edges)
	}
}

// TestEdgeDetector_MatchesBatch verifies streaming and batch forms agree.
func TestEdgeDetector_MatchesBatch(t *testing.T) {
	samples := samplesOf(7.9, 7.0, 7.7, 1.0, 3.0, 0.5, 7.99, 8.0, 2.0)
	th := DefaultThresholds[float64]()

	batch := DetectEdges(samples, th.High, th.Low)

	d := NewEdgeDetector(th)
	var stream []Edge[float64]
	for _, s := range samples {
		if e, ok := d.Feed(s); ok {
			stream = append(stream, e)
		}
	}

	if len(stream) != len(batch) {
		t.Fatalf("Streaming produced %d edges, batch %d", len(stream), len(batch))
	}
	for i := range batch {
		if stream[i] != batch[i] {
			t.Errorf("Edge %d differs: stream %+v, batch %+v", i, stream[i], batch[i])
		}
	}

	AssertHysteresis(t, samples, batch, th)
}

// TestEdgeDetector_Reset verifies Reset restores the armed initial state.
func TestEdgeDetector_Reset(t *testing.T) {
	d := NewEdgeDetector(DefaultThresholds[float32]())

	if _, ok := d.Feed(Sample[float32]{Index: 0, Entropy: 8}); !ok {
		t.Fatal("Expected first high sample to fire")
	}
	if _, ok := d.Feed(Sample[float32]{Index: 1, Entropy: 8}); ok {
		t.Fatal("Expected detector to be disarmed after rising edge")
	}

	d.Reset()

	e, ok := d.Feed(Sample[float32]{Index: 2, Entropy: 8})
	if !ok || e.Type != EdgeRising {
		t.Errorf("Expected rising edge after reset, got %+v (fired=%v)", e, ok)
	}
}

// TestThresholds_Validate verifies all violations are reported together.
func TestThresholds_Validate(t *testing.T) {
	tests := []struct {
		name      string
		th        Thresholds[float64]
		wantRange bool
		wantOrder bool
	}{
		{"default", DefaultThresholds[float64](), false, false},
		{"equal", Thresholds[float64]{High: 0.5, Low: 0.5}, false, false},
		{"bounds", Thresholds[float64]{High: 1, Low: 0}, false, false},
		{"inverted", Thresholds[float64]{High: 0.4, Low: 0.6}, false, true},
		{"high above one", Thresholds[float64]{High: 1.2, Low: 0.5}, true, false},
		{"negative low", Thresholds[float64]{High: 0.5, Low: -0.1}, true, false},
		{"nan", Thresholds[float64]{High: math.NaN(), Low: 0.5}, true, false},
		{"everything wrong", Thresholds[float64]{High: -1, Low: 2}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.th.Validate()

			if got := errors.Is(err, ErrThresholdRange); got != tt.wantRange {
				t.Errorf("ErrThresholdRange: got %v, expected %v (err=%v)", got, tt.wantRange, err)
			}
			if got := errors.Is(err, ErrThresholdOrder); got != tt.wantOrder {
				t.Errorf("ErrThresholdOrder: got %v, expected %v (err=%v)", got, tt.wantOrder, err)
			}
			if !tt.wantRange && !tt.wantOrder && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
