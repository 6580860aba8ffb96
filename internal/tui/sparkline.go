package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkBlocks is the 8-level block character set for sparklines.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline converts values into a block sparkline of exactly width
// cells, scaled from zero (or the most negative value) to the largest value.
//
// Rules:
//   - Empty values → width spaces
//   - All zeros → all '▁'
//   - More values than width → the last width values
//   - Fewer values than width → left-padded with spaces
func RenderSparkline(values []float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat(" ", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := min(slices.Min(values), 0), slices.Max(values)
	span := hi - lo

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", width-len(values)))
	for _, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * 7)
		}
		sb.WriteRune(sparkBlocks[min(max(idx, 0), 7)])
	}

	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}
