package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/painel/internal/engine"
)

const (
	toastTTL      = 5 * time.Second
	maxToasts     = 5
	noticeBacklog = 32
)

// NoticeQueue carries orchestrator notices into the TUI. It implements
// engine.Notifier.
type NoticeQueue chan engine.Notice

// NewNoticeQueue returns a buffered queue.
func NewNoticeQueue() NoticeQueue {
	return make(NoticeQueue, noticeBacklog)
}

// Notify enqueues n, dropping it when the queue is full.
func (q NoticeQueue) Notify(n engine.Notice) {
	select {
	case q <- n:
	default:
	}
}

// waitForNotice blocks until the next notice arrives.
func waitForNotice(q NoticeQueue) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-q
		if !ok {
			return nil
		}
		return NoticeMsg{Notice: n}
	}
}

func expireToastCmd(id int) tea.Cmd {
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{ID: id}
	})
}

type toast struct {
	ID     int
	Notice engine.Notice
}

// pushToast adds a toast and returns the command that expires it. The stack
// keeps the newest maxToasts entries.
func (app *App) pushToast(n engine.Notice) tea.Cmd {
	app.nextToastID++
	id := app.nextToastID
	app.toasts = append(app.toasts, toast{ID: id, Notice: n})
	if len(app.toasts) > maxToasts {
		app.toasts = app.toasts[len(app.toasts)-maxToasts:]
	}
	return expireToastCmd(id)
}

func (app *App) dropToast(id int) {
	for i, t := range app.toasts {
		if t.ID == id {
			app.toasts = append(app.toasts[:i], app.toasts[i+1:]...)
			return
		}
	}
}

// renderToasts renders the notification stack, newest last, right-aligned.
func renderToasts(app *App) string {
	if len(app.toasts) == 0 {
		return ""
	}
	width := app.width
	if width <= 0 {
		width = 80
	}
	maxText := max(width-4, 10)

	lines := make([]string, 0, len(app.toasts))
	for _, t := range app.toasts {
		style := StyleToastSuccess
		prefix := "✓ "
		if t.Notice.Level == engine.NoticeError {
			style = StyleToastError
			prefix = "✗ "
		}
		line := style.Render(truncateName(prefix+t.Notice.Message, maxText))
		lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Right, line))
	}
	return strings.Join(lines, "\n")
}
