package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// severity represents the alert level of a displayed value.
type severity int

const (
	severityNormal   severity = iota
	severityWarning           // yellow
	severityCritical          // red
)

// cacheAgeSeverity grades how close the snapshot is to going stale: Warning
// past 75% of maxAge, Critical once it is stale.
func cacheAgeSeverity(age, maxAge time.Duration) severity {
	if maxAge <= 0 {
		return severityNormal
	}
	switch {
	case age >= maxAge:
		return severityCritical
	case age*4 >= maxAge*3:
		return severityWarning
	default:
		return severityNormal
	}
}

// emptyDatasetsSeverity returns Warning for one or two empty datasets and
// Critical beyond that.
func emptyDatasetsSeverity(n int) severity {
	switch {
	case n > 2:
		return severityCritical
	case n > 0:
		return severityWarning
	default:
		return severityNormal
	}
}

// severityToStyle maps a severity level to a foreground style.
func severityToStyle(s severity) lipgloss.Style {
	switch s {
	case severityWarning:
		return StyleYellow
	case severityCritical:
		return StyleRed
	default:
		return StyleGreen
	}
}

func severityFg(s severity) lipgloss.Color {
	switch s {
	case severityWarning:
		return colorYellow
	case severityCritical:
		return colorRed
	default:
		return colorGreen
	}
}
