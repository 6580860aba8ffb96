package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/painel/internal/client"
	"github.com/dm/painel/internal/format"
	"github.com/dm/painel/internal/model"
)

const maxHeaderError = 40

// renderHeader renders the top header bar.
//
// Layout:
//
//	left:   API base URL
//	center: data period ("Jan/2020 - Dez/2023")
//	right:  refresh state, last error or snapshot age
func renderHeader(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	left := "painel"
	if app.baseURL != "" {
		left += "  " + app.baseURL
	}

	var center string
	if app.current != nil {
		center = StyleTitle.Render(format.FormatPeriod(app.current.Period))
	}

	var right string
	switch {
	case app.fetching:
		right = StyleBlue.Render(app.spinner.View() + "Atualizando...")
	case app.lastError != nil:
		right = StyleError.Render("● ERRO  " + classifyError(app.lastError))
	case app.current != nil:
		age := max(app.now().Sub(app.current.Timestamp), 0)
		style := severityToStyle(cacheAgeSeverity(age, app.maxAge))
		text := "Atualizado há " + format.FormatAge(age)
		if age < time.Minute {
			text = "Atualizado agora"
		}
		right = style.Render("● ") + StyleDim.Render(text)
	default:
		right = StyleDim.Render("Sem dados")
	}

	// StyleHeader has Padding(0, 1) so inner content width = total width - 2.
	innerWidth := width - 2
	spacing := max(innerWidth-lipgloss.Width(left)-lipgloss.Width(center)-lipgloss.Width(right), 0)
	leftSpacing := spacing / 2
	rightSpacing := spacing - leftSpacing

	row := left +
		strings.Repeat(" ", leftSpacing) +
		center +
		strings.Repeat(" ", rightSpacing) +
		right

	return StyleHeader.Width(width).Render(row)
}

// classifyError turns a synchronisation error into a short header message.
func classifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, client.ErrUnauthorized):
		return "Não autorizado (401)"
	case errors.Is(err, context.DeadlineExceeded):
		return "Tempo esgotado"
	case errors.Is(err, context.Canceled):
		return "Cancelado"
	case errors.Is(err, model.ErrAssemblyFailed):
		return "Falha ao salvar os dados"
	}
	return truncateName(err.Error(), maxHeaderError)
}
