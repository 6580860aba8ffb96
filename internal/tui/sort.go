package tui

import (
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dm/painel/internal/model"
)

// Dataset table columns.
const (
	colLabel = iota
	colValue
	colPercent
)

// sortSummaryRows returns a sorted copy of rows. col -1 keeps the incoming
// order. Ties are broken by label ascending.
func sortSummaryRows(rows []model.SummaryRow, col int, desc bool) []model.SummaryRow {
	out := make([]model.SummaryRow, len(rows))
	copy(out, rows)
	if col < 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var less bool
		switch col {
		case colValue:
			if a.Value == b.Value {
				return strings.ToLower(a.Label) < strings.ToLower(b.Label)
			}
			less = a.Value < b.Value
		case colPercent:
			if a.Percent == b.Percent {
				return strings.ToLower(a.Label) < strings.ToLower(b.Label)
			}
			less = a.Percent < b.Percent
		default:
			less = strings.ToLower(a.Label) < strings.ToLower(b.Label)
		}
		if desc {
			return !less
		}
		return less
	})
	return out
}

// filterSummaryRows returns rows whose label contains search, ignoring case.
func filterSummaryRows(rows []model.SummaryRow, search string) []model.SummaryRow {
	if search == "" {
		return rows
	}
	lower := strings.ToLower(search)
	out := rows[:0:0]
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Label), lower) {
			out = append(out, r)
		}
	}
	return out
}

// truncateName shortens s to at most maxWidth terminal cells, ending in
// "..." when there is room for it.
func truncateName(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
