package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/painel/internal/format"
	"github.com/dm/painel/internal/model"
)

// renderOverview renders the headline cards.
// Wide terminals (>= 80 cols): all cards in a single row.
// Narrow terminals: rows of 2.
// Returns empty string if no snapshot is available yet.
func renderOverview(app *App) string {
	if app.current == nil {
		return ""
	}

	width := app.width
	if width <= 0 {
		width = 80
	}
	const cards = 5
	narrowMode := width < 80

	var cardWidth int
	if narrowMode {
		cardWidth = max((width-4)/2, 10)
	} else {
		cardWidth = max((width-2*cards)/cards, 8)
	}
	barWidth := max(cardWidth-4, 4)

	ov := app.overview
	total := len(model.Catalog)
	loaded := total - ov.EmptyDatasets

	card1 := StyleOverviewCard.
		Foreground(colorBlue).
		Width(cardWidth).
		Render(format.FormatLargeNumber(ov.TotalInternacoes) + "\nInternações")

	card2 := StyleOverviewCard.
		Foreground(colorPurple).
		Width(cardWidth).
		Render(format.FormatLargeNumber(ov.TotalObitos) + "\nÓbitos")

	lethality := 0.0
	if ov.TotalInternacoes > 0 {
		lethality = ov.TotalObitos / ov.TotalInternacoes * 100
	}
	card3 := StyleOverviewCard.
		Foreground(colorCyan).
		Width(cardWidth).
		Render(format.FormatPercent(lethality) + "\nÓbitos/Internações")

	card4 := StyleOverviewCard.
		Foreground(colorWhite).
		Width(cardWidth).
		Render(fmt.Sprintf("%d", ov.Months) + "\nMeses na série")

	sev := emptyDatasetsSeverity(ov.EmptyDatasets)
	pct := 0.0
	if total > 0 {
		pct = float64(loaded) / float64(total) * 100
	}
	card5 := StyleOverviewCard.
		Foreground(severityFg(sev)).
		Width(cardWidth).
		Render(fmt.Sprintf("%d/%d", loaded, total) + "\n" + renderMiniBar(pct, barWidth) + "\nConjuntos carregados")

	if narrowMode {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, card1, card2)
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, card3, card4)
		return lipgloss.JoinVertical(lipgloss.Left, row1, row2, card5)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, card1, card2, card3, card4, card5)
}

// renderMiniBar renders a progress bar of width cells using "█" for the
// filled part and "░" for the rest.
func renderMiniBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	percent = min(max(percent, 0), 100)
	filled := min(int(percent/100.0*float64(width)), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
