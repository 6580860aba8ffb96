package commands

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/dm/painel/internal/tui"
)

// runDashboard starts the interactive dashboard. Logs go to the configured
// file because the dashboard owns the terminal.
func (c *CLI) runDashboard(cmd *cobra.Command) error {
	rt, err := c.openRuntime(cmd, nil)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	notices := tui.NewNoticeQueue()
	orch, err := newOrchestrator(rt, notices)
	if err != nil {
		return err
	}

	app := tui.NewApp(orch, notices, tui.Options{
		BaseURL: rt.cfg.API.BaseURL,
		MaxAge:  rt.cfg.Cache.MaxAge,
	})
	rt.logger.Info("dashboard started", "api", rt.cfg.API.BaseURL)
	return c.program(cmd.Context(), app)
}

func runProgram(ctx context.Context, m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return zerr.Wrap(err, "dashboard failed")
	}
	return nil
}
