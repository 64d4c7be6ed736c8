// Package shannon measures the Shannon entropy of byte windows and finds the
// boundaries between low and high entropy regions of a block-segmented file.
//
// # Overview
//
// Plain data (text, code, tables) uses few byte values unevenly and has low
// entropy. Compressed or encrypted data uses all 256 values almost evenly and
// sits close to the maximum of 8 bits per byte. Measuring entropy block by
// block and looking for transitions locates embedded archives, packed
// sections or ciphertext inside a larger file.
//
// The package components:
//
//   - Entropy / TotalEntropy - bits per byte of a window, and bits in total
//   - Histogram              - byte counts accumulated over several windows
//   - EdgeDetector           - hysteresis classifier over an entropy series
//   - Summarize              - distribution of a series (min, mean, P50, P99, max)
//   - Assert*                - test helpers for entropy properties
//
// # Entropy
//
//	H(X) = -Σ p(x) · log2 p(x)
//
// over the 256 byte values, where p(x) is the share of the window equal to x.
// Values that never occur are skipped. The computation is generic over the
// precision:
//
//	h32 := shannon.Entropy[float32](block)
//	h64 := shannon.Entropy[float64](block)
//
// Properties:
//   - 0 ≤ H ≤ 8, H(empty) = 0
//   - only the multiset of counts matters (relabeling bytes keeps H)
//   - more skewed counts over the same support give lower H
//
// # Edge detection
//
// A single threshold flags every wobble around it. The detector uses two,
// on entropy normalized to [0, 1] (bits / 8):
//
//	normalized ≥ High  →  rising edge
//	normalized ≤ Low   →  falling edge
//
// Once an edge fires the detector disarms. After a rising edge it re-arms
// when the signal drops below High; after a falling edge (or before any edge)
// when it climbs above Low. A plateau above High therefore reports exactly
// one rising edge:
//
//	samples := []shannon.Sample[float64]{{0, 7.8}, {1, 7.9}, {2, 2.0}, {3, 1.0}}
//	edges := shannon.DetectEdges(samples, 0.95, 0.85)
//	// rising at 0, falling at 2
//
// For streams, feed one sample at a time:
//
//	d := shannon.NewEdgeDetector(shannon.DefaultThresholds[float32]())
//	if e, ok := d.Feed(sample); ok {
//	    log.Printf("%s edge at block %d", e.Type, e.Index)
//	}
//
// The detector requires High ≥ Low and does not check it. Validate thresholds
// from untrusted input with Thresholds.Validate first.
//
// # Concurrency
//
// Entropy and Summarize are pure and safe to call from any goroutine.
// An EdgeDetector carries the state of one series and must not be shared.
package shannon
