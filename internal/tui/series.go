package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/painel/internal/format"
	"github.com/dm/painel/internal/model"
)

// renderMetricCard renders a single card with title, value and sparkline.
//
//	╭──────────────────╮
//	│ Title            │
//	│ 12.345 /mês      │
//	│ ▁▂▃▅▇█▇▅▃▂       │
//	╰──────────────────╯
func renderMetricCard(title, value, unit string, sparkValues []float64, cardWidth int, color lipgloss.Color) string {
	const minCardWidth = 8
	cardWidth = max(cardWidth, minCardWidth)

	// border (2) + padding (2) + lipgloss Width counting padding (2)
	innerWidth := max(cardWidth-6, 1)

	valueLine := value
	if unit != "" {
		valueLine += " " + unit
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGray).
		Padding(0, 1).
		Width(cardWidth - 4)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		StyleDim.Render(truncateName(title, innerWidth)),
		lipgloss.NewStyle().Bold(true).Foreground(color).Render(valueLine),
		RenderSparkline(sparkValues, innerWidth, color),
	))
}

// seriesValues splits the monthly series into its two columns.
func seriesValues(points []model.SeriesPoint) (internacoes, obitos []float64) {
	internacoes = make([]float64, len(points))
	obitos = make([]float64, len(points))
	for i, p := range points {
		internacoes[i] = p.Internacoes
		obitos[i] = p.Obitos
	}
	return internacoes, obitos
}

// renderSeriesRow renders the monthly admissions and deaths sparklines next
// to the duration of recent synchronisations.
// Wide terminals (>= 80 cols): 1x3 row. Narrow terminals: stacked.
// Returns empty string when no data is available.
func renderSeriesRow(app *App) string {
	if app.current == nil {
		return ""
	}

	lastLabel := "sem série"
	lastInt, lastObt := "-", "-"
	if n := len(app.series); n > 0 {
		last := app.series[n-1]
		lastLabel = format.FormatYearMonth(last.YearMonth)
		lastInt = format.FormatNumber(last.Internacoes)
		lastObt = format.FormatNumber(last.Obitos)
	}
	internacoes, obitos := seriesValues(app.series)

	syncValue := "-"
	if p, ok := app.history.Last(); ok {
		syncValue = fmt.Sprintf("%.1fs", p.Duration.Seconds())
	}
	durations := app.history.Values("duration")

	width := app.width
	if width <= 0 {
		width = 80
	}

	if width < 80 {
		cardWidth := width + 2
		if cardWidth < 12 {
			return ""
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			StyleDim.MaxWidth(width).Render("Série mensal ("+lastLabel+")"),
			renderMetricCard("Internações/mês", lastInt, "", internacoes, cardWidth, colorBlue),
			renderMetricCard("Óbitos/mês", lastObt, "", obitos, cardWidth, colorPurple),
		)
	}

	// Each card renders at cardWidth-2 cells; three fill the row.
	cardWidth := max((width+6)/3, 20)
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		renderMetricCard("Internações/mês", lastInt, "", internacoes, cardWidth, colorBlue),
		renderMetricCard("Óbitos/mês", lastObt, "", obitos, cardWidth, colorPurple),
		renderMetricCard("Duração da sincronização", syncValue, "", durations, cardWidth, colorCyan),
	)
	return lipgloss.JoinVertical(lipgloss.Left, StyleDim.Render("Série mensal ("+lastLabel+")"), row)
}
