// Package report renders an entropy scan as text or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alexshd/shannon"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want text or json)", s)
	}
}

// Report is everything known about one scanned input.
// Samples and Edges are omitted from the output when nil; a non-nil empty
// slice is written as [].
type Report struct {
	File       string
	Digest     string
	Bytes      int64
	BlockSize  int
	Thresholds *shannon.Thresholds[float32]
	Summary    shannon.Summary[float32]
	Samples    []shannon.Sample[float32]
	Edges      []shannon.Edge[float32]
}

// jsonReport is the wire form of Report. The slices sit behind pointers so
// omitempty only drops them when they were never set.
type jsonReport struct {
	File       string                       `json:"file"`
	Digest     string                       `json:"sha3_256"`
	Bytes      int64                        `json:"bytes"`
	BlockSize  int                          `json:"block_size"`
	Thresholds *shannon.Thresholds[float32] `json:"thresholds,omitempty"`
	Summary    shannon.Summary[float32]     `json:"summary"`
	Samples    *[]shannon.Sample[float32]   `json:"samples,omitempty"`
	Edges      *[]shannon.Edge[float32]     `json:"edges,omitempty"`
}

// MarshalJSON encodes the report, keeping empty but requested series as [].
func (r Report) MarshalJSON() ([]byte, error) {
	out := jsonReport{
		File:       r.File,
		Digest:     r.Digest,
		Bytes:      r.Bytes,
		BlockSize:  r.BlockSize,
		Thresholds: r.Thresholds,
		Summary:    r.Summary,
	}
	if r.Samples != nil {
		out.Samples = &r.Samples
	}
	if r.Edges != nil {
		out.Edges = &r.Edges
	}
	return json.Marshal(out)
}

// Write renders rep to w in the given format.
func Write(w io.Writer, format Format, rep Report) error {
	switch format {
	case FormatText:
		return WriteText(w, rep)
	case FormatJSON:
		return WriteJSON(w, rep)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WriteJSON writes rep as indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteText writes a human-readable report.
func WriteText(w io.Writer, rep Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "File:\t%s\n", rep.File)
	fmt.Fprintf(tw, "SHA3-256:\t%s\n", rep.Digest)
	fmt.Fprintf(tw, "Size:\t%d bytes in %d blocks of %d\n", rep.Bytes, rep.Summary.Count, rep.BlockSize)
	s := rep.Summary
	fmt.Fprintf(tw, "Entropy:\tmin %.4f  mean %.4f  p50 %.4f  p99 %.4f  max %.4f\n",
		s.Min, s.Mean, s.P50, s.P99, s.Max)
	if rep.Thresholds != nil {
		fmt.Fprintf(tw, "Thresholds:\thigh %.4f  low %.4f\n", rep.Thresholds.High, rep.Thresholds.Low)
	}

	if rep.Samples != nil {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "BLOCK\tOFFSET\tENTROPY")
		for _, sample := range rep.Samples {
			fmt.Fprintf(tw, "%d\t0x%08x\t%.6f\n", sample.Index, int64(sample.Index)*int64(rep.BlockSize), sample.Entropy)
		}
	}

	if rep.Edges != nil {
		fmt.Fprintln(tw)
		if len(rep.Edges) == 0 {
			fmt.Fprintln(tw, "No edges detected.")
		} else {
			fmt.Fprintln(tw, "BLOCK\tOFFSET\tEDGE\tNORMALIZED")
			for _, e := range rep.Edges {
				fmt.Fprintf(tw, "%d\t0x%08x\t%s\t%.4f\n", e.Index, int64(e.Index)*int64(rep.BlockSize), e.Type, e.NormalizedEntropy)
			}
		}
	}

	return tw.Flush()
}
