package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dm/painel/internal/cache"
	"github.com/dm/painel/internal/engine"
	"github.com/dm/painel/internal/model"
)

const (
	ageRefreshInterval = 30 * time.Second
	progressBacklog    = 32
)

// Syncer is the part of engine.Orchestrator the dashboard drives.
type Syncer interface {
	ReadCache(ctx context.Context) (*model.Snapshot, bool)
	HasSyncedBefore(ctx context.Context) bool
	Run(ctx context.Context, opts engine.RunOptions) (*model.Snapshot, error)
}

// Options configures the dashboard.
type Options struct {
	BaseURL string
	// MaxAge colours the snapshot age in the header. Zero means cache.DefaultMaxAge.
	MaxAge time.Duration
	// TopN limits each dataset table. Zero keeps every category.
	TopN int
	Now  func() time.Time
}

// App is the root Bubble Tea model for painel.
type App struct {
	syncer   Syncer
	notices  NoticeQueue
	progCh   chan ProgressMsg
	ctx      context.Context
	cancel   context.CancelFunc
	baseURL  string
	maxAge   time.Duration
	topN     int
	now      func() time.Time
	quitting bool

	// Sync state
	loading   bool // no snapshot yet and one is being obtained
	fetching  bool // a synchronisation is in flight
	seq       int  // id of the latest synchronisation
	firstRun  bool
	lastError error

	current   *model.Snapshot
	summaries []model.DatasetSummary
	series    []model.SeriesPoint
	overview  model.Overview
	history   *model.SyncHistory
	activeTab int
	table     DatasetTableModel
	spinner   spinner.Model

	// First-run overlay
	overlay       bool
	syncStatus    model.SyncStatus
	progress      []progressEntry
	progressTotal int

	toasts      []toast
	nextToastID int

	// Layout
	width, height int
	showHelp      bool
}

// NewApp creates the dashboard. notices may be nil when the orchestrator was
// built without a NoticeQueue.
func NewApp(s Syncer, notices NoticeQueue, opts Options) *App {
	ctx, cancel := context.WithCancel(context.Background())
	if opts.MaxAge <= 0 {
		opts.MaxAge = cache.DefaultMaxAge
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &App{
		syncer:        s,
		notices:       notices,
		progCh:        make(chan ProgressMsg, progressBacklog),
		ctx:           ctx,
		cancel:        cancel,
		baseURL:       opts.BaseURL,
		maxAge:        opts.MaxAge,
		topN:          opts.TopN,
		now:           opts.Now,
		loading:       true, // Init() always reads the cache first
		history:       model.NewSyncHistory(0),
		table:         NewDatasetTable(),
		spinner:       spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		progressTotal: len(model.Catalog) + 1, // datasets plus the period
	}
}

// Init implements tea.Model. Reads the cache on launch; a miss triggers a
// synchronisation once the result arrives.
func (app *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		loadCacheCmd(app.ctx, app.syncer),
		waitForProgress(app.progCh),
		app.spinner.Tick,
		tickCmd(),
	}
	if app.notices != nil {
		cmds = append(cmds, waitForNotice(app.notices))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height

	case CacheLoadedMsg:
		app.firstRun = !msg.SyncedBefore
		if msg.Snapshot != nil {
			app.loading = false
			app.applySnapshot(msg.Snapshot)
			return app, nil
		}
		return app, app.startSync(false, false)

	case SyncResultMsg:
		if msg.Seq != app.seq {
			return app, nil
		}
		app.fetching = false
		app.loading = false
		app.lastError = nil
		app.firstRun = false
		app.applySnapshot(msg.Snapshot)
		app.history.Push(model.SyncPoint{
			Timestamp: msg.Snapshot.Timestamp,
			Duration:  msg.Elapsed,
			Failed:    app.overview.EmptyDatasets,
			Records:   snapshotRecords(msg.Snapshot),
		})
		if msg.Overlay {
			app.syncStatus = model.SyncSuccess
		}

	case SyncErrorMsg:
		if msg.Seq != app.seq {
			return app, nil
		}
		app.fetching = false
		app.loading = false
		if app.quitting && errors.Is(msg.Err, context.Canceled) {
			return app, nil
		}
		app.lastError = msg.Err
		if msg.Overlay {
			app.syncStatus = model.SyncError
		}

	case ProgressMsg:
		if msg.Seq == app.seq {
			app.progress = append(app.progress, progressEntry{Label: msg.Label, Status: msg.Status})
		}
		return app, waitForProgress(app.progCh)

	case NoticeMsg:
		cmd := app.pushToast(msg.Notice)
		if app.notices != nil {
			cmd = tea.Batch(cmd, waitForNotice(app.notices))
		}
		return app, cmd

	case toastExpiredMsg:
		app.dropToast(msg.ID)

	case TickMsg:
		return app, tickCmd()

	case spinner.TickMsg:
		if !app.fetching && !app.loading {
			return app, nil
		}
		var cmd tea.Cmd
		app.spinner, cmd = app.spinner.Update(msg)
		return app, cmd

	case tea.KeyMsg:
		return app.handleKey(msg)
	}

	return app, nil
}

func (app *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" || (!app.table.searching && key.Matches(msg, keys.Quit)) {
		app.quitting = true
		app.cancel()
		return app, tea.Quit
	}

	// The overlay blocks the dashboard until it is dismissed.
	if app.overlay {
		switch app.syncStatus {
		case model.SyncSuccess, model.SyncError:
			switch {
			case key.Matches(msg, keys.Enter):
				app.overlay = false
				app.syncStatus = model.SyncIdle
			case app.syncStatus == model.SyncError && key.Matches(msg, keys.Refresh):
				return app, app.startSync(true, true)
			}
		}
		return app, nil
	}

	if app.table.searching {
		var cmd tea.Cmd
		app.table, cmd = app.table.Update(msg)
		return app, cmd
	}

	switch {
	case key.Matches(msg, keys.Refresh):
		return app, app.startSync(true, true)
	case key.Matches(msg, keys.Tab):
		app.selectTab(app.activeTab + 1)
	case key.Matches(msg, keys.ShiftTab):
		app.selectTab(app.activeTab - 1)
	case key.Matches(msg, keys.Help):
		app.showHelp = !app.showHelp
	default:
		var cmd tea.Cmd
		app.table, cmd = app.table.Update(msg)
		return app, cmd
	}
	return app, nil
}

// startSync launches a synchronisation unless one is already in flight.
// Before the first completed synchronisation the blocking overlay reports
// the outcome; dataset notices still follow notify.
func (app *App) startSync(force, notify bool) tea.Cmd {
	if app.fetching {
		return nil
	}
	app.fetching = true
	app.seq++

	overlay := app.firstRun
	if overlay {
		app.overlay = true
		app.syncStatus = model.SyncLoading
		app.progress = nil
	}

	opts := engine.RunOptions{
		ForceRefresh: force,
		Notify:       notify,
		SkipOutcome:  overlay,
		OnProgress:   progressFunc(app.progCh, app.seq),
	}
	return tea.Batch(
		syncCmd(app.ctx, app.syncer, app.seq, opts, overlay, app.now),
		app.spinner.Tick,
	)
}

func (app *App) applySnapshot(snap *model.Snapshot) {
	app.current = snap
	app.summaries = engine.CalcSummaries(snap, app.topN)
	app.series = engine.CalcSeries(snap)
	app.overview = engine.CalcOverview(snap)
	app.selectTab(app.activeTab)
}

// selectTab switches the dataset table, wrapping around at both ends.
func (app *App) selectTab(i int) {
	n := len(app.summaries)
	if n == 0 {
		app.activeTab = 0
		return
	}
	app.activeTab = (i%n + n) % n
	app.table.SetData(app.summaries[app.activeTab])
}

// View implements tea.Model.
func (app *App) View() string {
	parts := []string{renderHeader(app)}

	switch {
	case app.overlay:
		parts = append(parts, renderSyncOverlay(app))
	case app.current == nil:
		parts = append(parts, renderEmptyState(app))
	default:
		parts = append(parts, renderOverview(app))
		if s := renderSeriesRow(app); s != "" {
			parts = append(parts, s)
		}
		parts = append(parts, renderTabs(app), app.table.renderTable(app.width))
	}

	if t := renderToasts(app); t != "" {
		parts = append(parts, t)
	}
	parts = append(parts, renderFooter(app))
	return strings.Join(parts, "\n")
}

// renderEmptyState covers the time before any snapshot is available.
func renderEmptyState(app *App) string {
	if app.loading || app.fetching {
		return StyleBlue.Render(app.spinner.View()) + "Carregando dados..."
	}
	return StyleDim.Render("Nenhum dado disponível. Pressione r para sincronizar.")
}

// renderTabs renders the dataset selector line.
func renderTabs(app *App) string {
	names := make([]string, len(app.summaries))
	for i, s := range app.summaries {
		if i == app.activeTab {
			names[i] = StyleBlue.Bold(true).Render("[" + s.Label + "]")
			continue
		}
		names[i] = StyleDim.Render(s.Label)
	}
	line := strings.Join(names, "  ")
	if app.width > 0 {
		return StyleDim.MaxWidth(app.width).Render(line)
	}
	return line
}

func snapshotRecords(snap *model.Snapshot) int {
	n := 0
	for _, recs := range snap.Datasets {
		n += len(recs)
	}
	return n
}

func tickCmd() tea.Cmd {
	return tea.Tick(ageRefreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// loadCacheCmd reads the cached snapshot and the first-run flag.
func loadCacheCmd(ctx context.Context, s Syncer) tea.Cmd {
	return func() tea.Msg {
		snap, ok := s.ReadCache(ctx)
		if !ok {
			snap = nil
		}
		return CacheLoadedMsg{Snapshot: snap, SyncedBefore: s.HasSyncedBefore(ctx)}
	}
}

// syncCmd runs one synchronisation and reports its outcome.
func syncCmd(ctx context.Context, s Syncer, seq int, opts engine.RunOptions, overlay bool, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		start := now()
		snap, err := s.Run(ctx, opts)
		if err != nil {
			return SyncErrorMsg{Seq: seq, Err: err, Overlay: overlay}
		}
		return SyncResultMsg{Seq: seq, Snapshot: snap, Elapsed: now().Sub(start), Overlay: overlay}
	}
}

// progressFunc forwards progress callbacks for run seq onto ch without
// blocking the fetch goroutines.
func progressFunc(ch chan<- ProgressMsg, seq int) func(string, model.FetchStatus) {
	return func(label string, status model.FetchStatus) {
		select {
		case ch <- ProgressMsg{Seq: seq, Label: label, Status: status}:
		default:
		}
	}
}

func waitForProgress(ch <-chan ProgressMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}
