package ui

import "strings"

// SparklineChars are the block characters used for bars, lowest to highest.
var SparklineChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as one block character each, scaled to the
// largest value. Zero renders as the lowest block.
func Sparkline(values []int64) string {
	var peak int64
	for _, v := range values {
		peak = max(peak, v)
	}

	var sb strings.Builder
	sb.Grow(len(values) * 3)
	for _, v := range values {
		idx := 0
		if peak > 0 && v > 0 {
			idx = int(float64(v) / float64(peak) * float64(len(SparklineChars)-1))
			idx = min(max(idx, 1), len(SparklineChars)-1)
		}
		sb.WriteRune(SparklineChars[idx])
	}
	return sb.String()
}

// Bar renders a horizontal bar of at most width cells for value out of peak.
func Bar(value, peak int64, width int) string {
	if width <= 0 || peak <= 0 || value <= 0 {
		return ""
	}
	cells := int(float64(value) / float64(peak) * float64(width))
	return strings.Repeat("█", max(cells, 1))
}
