package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/painel/internal/model"
)

// progressEntry is one settled fetch shown in the overlay.
type progressEntry struct {
	Label  string
	Status model.FetchStatus
}

// renderSyncOverlay renders the blocking first-run dialog centered in the
// area between the header and footer.
func renderSyncOverlay(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	height := app.height
	if height <= 0 {
		height = 24
	}

	var lines []string
	switch app.syncStatus {
	case model.SyncSuccess:
		lines = []string{
			StyleGreen.Bold(true).Render("✓ Sincronização concluída!"),
			"",
			"Os dados foram carregados com sucesso",
			"",
			StyleDim.Render("[enter: continuar]"),
		}
	case model.SyncError:
		lines = []string{
			StyleRed.Bold(true).Render("✗ Erro na sincronização"),
			"",
			"Ocorreu um erro ao carregar os dados. Tente novamente.",
		}
		if app.lastError != nil {
			lines = append(lines, StyleDim.Render(classifyError(app.lastError)))
		}
		lines = append(lines, "", StyleDim.Render("[enter: fechar  r: tentar novamente]"))
	default:
		lines = []string{
			StyleBlue.Render(app.spinner.View()) + StyleTitle.Render("Sincronizando dados..."),
			"",
			"Aguarde enquanto carregamos os dados do servidor",
			"",
		}
		lines = append(lines, renderProgress(app.progress, app.progressTotal)...)
	}

	box := StyleOverlay.MaxWidth(width).Render(strings.Join(lines, "\n"))

	availH := max(height-lipgloss.Height(renderHeader(app))-lipgloss.Height(renderFooter(app)), 1)
	return lipgloss.Place(width, availH, lipgloss.Center, lipgloss.Center, box)
}

// renderProgress lists the fetches settled so far, followed by a counter.
func renderProgress(entries []progressEntry, total int) []string {
	out := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		mark := StyleGreen.Render("✓")
		if e.Status == model.FetchFailed {
			mark = StyleRed.Render("✗")
		}
		out = append(out, mark+" "+e.Label)
	}
	out = append(out, StyleDim.Render(fmt.Sprintf("%d/%d concluídos", len(entries), total)))
	return out
}
