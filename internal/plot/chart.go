// Package plot draws an entropy series as a terminal bar chart.
package plot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/alexshd/shannon"
)

// MinSize is the smallest width or height a chart can be drawn at.
const MinSize = 32

// ErrChartTooSmall is returned for a chart narrower or shorter than MinSize.
var ErrChartTooSmall = fmt.Errorf("width and height must be at least %d", MinSize)

var errNoSamples = errors.New("no blocks to plot")

// Chart is a bar chart with one column per group of blocks.
type Chart struct {
	Width  int
	Height int
	YMax   float32 // <= 0 scales to the series maximum
}

// Validate checks the chart dimensions.
func (c Chart) Validate() error {
	if c.Width < MinSize || c.Height < MinSize {
		return fmt.Errorf("%w: got %dx%d", ErrChartTooSmall, c.Width, c.Height)
	}
	return nil
}

// Render writes the chart of samples to w. When there are more blocks than
// columns, each column shows the highest entropy among the blocks it covers.
func (c Chart) Render(w io.Writer, samples []shannon.Sample[float32]) error {
	if err := c.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if len(samples) == 0 {
		fmt.Fprintln(bw, errNoSamples.Error())
		return bw.Flush()
	}

	yMax := c.YMax
	if yMax <= 0 {
		yMax = shannon.Summarize(samples).Max
	}
	if yMax <= 0 {
		yMax = shannon.MaxEntropy
	}

	heights := c.columns(samples, yMax)

	var row strings.Builder
	for level := c.Height; level >= 1; level-- {
		row.Reset()
		switch level {
		case c.Height:
			fmt.Fprintf(&row, "%6.2f ┤", yMax)
		case 1:
			fmt.Fprintf(&row, "%6.2f ┤", 0.0)
		default:
			row.WriteString("       │")
		}
		for _, h := range heights {
			if h >= level {
				row.WriteRune('█')
			} else {
				row.WriteByte(' ')
			}
		}
		fmt.Fprintln(bw, strings.TrimRight(row.String(), " "))
	}

	fmt.Fprintf(bw, "       └%s\n", strings.Repeat("─", len(heights)))
	last := fmt.Sprintf("%d", len(samples))
	pad := len(heights) - len(last)
	if pad < 1 {
		pad = 1
	}
	fmt.Fprintf(bw, "        0%s%s\n", strings.Repeat(" ", pad-1), last)

	return bw.Flush()
}

// columns buckets samples into at most Width columns and scales each to a bar height.
func (c Chart) columns(samples []shannon.Sample[float32], yMax float32) []int {
	n := len(samples)
	cols := c.Width
	if n < cols {
		cols = n
	}

	heights := make([]int, cols)
	for col := range heights {
		lo := col * n / cols
		hi := (col + 1) * n / cols
		if hi <= lo {
			hi = lo + 1
		}

		var peak float32
		for _, s := range samples[lo:hi] {
			if s.Entropy > peak {
				peak = s.Entropy
			}
		}

		h := int(math.Round(float64(peak / yMax * float32(c.Height))))
		if h > c.Height {
			h = c.Height
		}
		if h < 0 {
			h = 0
		}
		heights[col] = h
	}
	return heights
}
