package tui

// renderFooter renders the key binding help footer at full terminal width.
func renderFooter(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	text := "? para ajuda"
	if app.showHelp {
		text = helpText
	}
	return StyleDim.Width(width).Render(text)
}
