package commands

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dm/painel/internal/engine"
	"github.com/dm/painel/internal/format"
	"github.com/dm/painel/internal/model"
)

func (c *CLI) newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronise every dataset once and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ifStale, _ := cmd.Flags().GetBool("if-stale")
			quiet, _ := cmd.Flags().GetBool("quiet")
			return c.runSync(cmd, !ifStale, quiet)
		},
	}
	cmd.Flags().Bool("if-stale", false, "Reuse the cached snapshot when it is still fresh")
	cmd.Flags().BoolP("quiet", "q", false, "Do not print progress or notices")
	return cmd
}

// progressLog records the outcome reported for each label.
type progressLog struct {
	mu     sync.Mutex
	status map[string]model.FetchStatus
}

func (p *progressLog) record(label string, status model.FetchStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status[label] = status
}

func (p *progressLog) get(label string) (model.FetchStatus, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.status[label]
	return s, ok
}

func (c *CLI) runSync(cmd *cobra.Command, force, quiet bool) error {
	rt, err := c.openRuntime(cmd, c.errOut)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	var notifier engine.Notifier
	if !quiet {
		notifier = engine.NotifierFunc(func(n engine.Notice) {
			mark := "✓"
			if n.Level == engine.NoticeError {
				mark = "✗"
			}
			_, _ = fmt.Fprintf(c.errOut, "%s %s\n", mark, n.Message)
		})
	}
	orch, err := newOrchestrator(rt, notifier)
	if err != nil {
		return err
	}

	progress := &progressLog{status: make(map[string]model.FetchStatus)}
	start := time.Now()
	snap, err := orch.Run(cmd.Context(), engine.RunOptions{
		ForceRefresh: force,
		Notify:       !quiet,
		OnProgress:   progress.record,
	})
	if err != nil {
		return err
	}

	printSyncSummary(c.out, snap, progress, time.Since(start))
	return nil
}

// printSyncSummary writes the period, one line per dataset and a totals line.
// Datasets without a progress entry came from the cache.
func printSyncSummary(w io.Writer, snap *model.Snapshot, progress *progressLog, elapsed time.Duration) {
	t := plainTable("CONJUNTO", "REGISTROS", "STATUS")
	loaded := 0
	for _, spec := range model.Catalog {
		n := len(snap.Records(spec.Name))
		if n > 0 {
			loaded++
		}
		status := "cache"
		if s, ok := progress.get(spec.Label); ok {
			status = s.String()
		}
		t.Row(spec.Label, format.FormatNumber(float64(n)), status)
	}

	_, _ = fmt.Fprintf(w, "Período: %s\n", format.FormatPeriod(snap.Period))
	_, _ = fmt.Fprintln(w, t.String())
	_, _ = fmt.Fprintf(w, "%d/%d conjuntos carregados em %s\n", loaded, len(model.Catalog), elapsed.Round(time.Millisecond))
}

// plainTable returns a borderless table for command output.
func plainTable(headers ...string) *ltable.Table {
	return ltable.New().
		Headers(headers...).
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == 0 {
				return lipgloss.NewStyle().PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2).Align(lipgloss.Right)
		})
}
