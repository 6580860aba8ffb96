package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/dm/painel/internal/cache"
	"github.com/dm/painel/internal/client"
	"github.com/dm/painel/internal/model"
)

const (
	DefaultConcurrency = 4
	DefaultRetryStep   = 3 * time.Second

	periodLabel = "Período dos Dados"
)

// RunOptions controls a single synchronisation.
type RunOptions struct {
	// ForceRefresh skips the cache and always fetches.
	ForceRefresh bool
	// Notify emits user-facing notices for failed datasets and the outcome.
	Notify bool
	// SkipOutcome drops the final success or failure notice when the caller
	// reports the outcome itself. Dataset notices are unaffected.
	SkipOutcome bool
	// OnProgress is called once per dataset (and once for the period) as it
	// settles. It may be called from several goroutines at once.
	OnProgress func(label string, status model.FetchStatus)
}

// Orchestrator fetches every configured dataset concurrently, assembles a
// snapshot and persists it.
type Orchestrator struct {
	client   client.StatsClient
	cache    *cache.SnapshotCache
	requests []model.DatasetRequest

	concurrency   int
	retryStep     time.Duration
	periodTimeout time.Duration

	logger   *slog.Logger
	notifier Notifier
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error

	runs    singleflight.Group
	writeMu sync.Mutex
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRequests replaces the default dataset list.
func WithRequests(reqs []model.DatasetRequest) Option {
	return func(o *Orchestrator) { o.requests = reqs }
}

// WithConcurrency bounds the number of fetches in flight. 0 means unbounded.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) { o.concurrency = n }
}

// WithRetryStep sets the linear backoff unit: attempt n waits n*step.
func WithRetryStep(step time.Duration) Option {
	return func(o *Orchestrator) { o.retryStep = step }
}

// WithPeriodTimeout sets the deadline of the period request.
func WithPeriodTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.periodTimeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) { o.notifier = n }
}

// WithClock overrides the clock used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithSleep overrides the backoff sleep. The function must return early with
// ctx.Err() when ctx is done.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(o *Orchestrator) { o.sleep = sleep }
}

// New creates an Orchestrator over c and sc.
func New(c client.StatsClient, sc *cache.SnapshotCache, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:        c,
		cache:         sc,
		requests:      model.DefaultRequests(model.RequestOptions{MaxRetries: model.DefaultMaxRetries}),
		concurrency:   DefaultConcurrency,
		retryStep:     DefaultRetryStep,
		periodTimeout: model.DefaultPeriodTimeout,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		notifier:      discardNotifier{},
		now:           time.Now,
		sleep:         sleepContext,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReadCache returns the cached snapshot if it is present and fresh.
func (o *Orchestrator) ReadCache(ctx context.Context) (*model.Snapshot, bool) {
	snap, err := o.cache.Load(ctx)
	if err != nil {
		if !errors.Is(err, model.ErrCacheMiss) {
			o.logger.Warn("cached snapshot unusable", "error", err)
		}
		return nil, false
	}
	return snap, true
}

// HasSyncedBefore reports whether any synchronisation ever completed.
func (o *Orchestrator) HasSyncedBefore(ctx context.Context) bool {
	ok, err := o.cache.HasSynced(ctx)
	if err != nil {
		o.logger.Warn("failed to read first-run flag", "error", err)
		return false
	}
	return ok
}

// Run returns a fresh cached snapshot when one exists and ForceRefresh is
// unset; otherwise it synchronises. Calls that overlap an in-flight
// synchronisation share its result and options.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*model.Snapshot, error) {
	if !opts.ForceRefresh {
		if snap, ok := o.ReadCache(ctx); ok {
			return snap, nil
		}
	}

	v, err, shared := o.runs.Do(cache.KeySnapshot, func() (any, error) {
		return o.sync(ctx, opts)
	})
	if shared {
		o.logger.Debug("joined in-flight synchronisation")
	}
	if err != nil {
		return nil, err
	}
	return v.(*model.Snapshot), nil
}

func (o *Orchestrator) sync(ctx context.Context, opts RunOptions) (*model.Snapshot, error) {
	log := o.logger.With("run_id", uuid.NewString())
	start := o.now()
	log.Info("synchronisation started", "datasets", len(o.requests), "force", opts.ForceRefresh)

	results := make([]model.DatasetResult, len(o.requests))

	// Plain group: a failed dataset must not cancel its siblings.
	var g errgroup.Group
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for i, req := range o.requests {
		g.Go(func() error {
			results[i] = o.fetchDataset(ctx, log, req)
			if opts.OnProgress != nil {
				opts.OnProgress(req.Label, fetchStatus(results[i].Succeeded))
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		log.Warn("synchronisation cancelled", "error", err)
		return nil, zerr.Wrap(err, "synchronisation cancelled")
	}

	period, ok := o.fetchPeriod(ctx, log)
	if opts.OnProgress != nil {
		opts.OnProgress(periodLabel, fetchStatus(ok))
	}
	if err := ctx.Err(); err != nil {
		log.Warn("synchronisation cancelled", "error", err)
		return nil, zerr.Wrap(err, "synchronisation cancelled")
	}

	snap := &model.Snapshot{
		Timestamp: o.now(),
		Datasets:  make(map[model.DatasetName][]json.RawMessage, len(results)),
		Period:    period,
	}
	failed, records := 0, 0
	for _, r := range results {
		snap.Datasets[r.Name] = r.Payload
		records += len(r.Payload)
		if !r.Succeeded {
			failed++
			if opts.Notify && r.Exhausted {
				o.notifier.Notify(Notice{Level: NoticeError, Message: datasetFailedMessage(r.Label)})
			}
		}
	}

	if err := o.persist(ctx, log, snap); err != nil {
		zerr.Log(ctx, log, err)
		if opts.Notify && !opts.SkipOutcome {
			o.notifier.Notify(Notice{Level: NoticeError, Message: msgSyncFailed})
		}
		return nil, err
	}

	if opts.Notify && !opts.SkipOutcome {
		o.notifier.Notify(Notice{Level: NoticeSuccess, Message: msgSyncSucceeded})
	}
	log.Info("synchronisation finished",
		"duration", o.now().Sub(start),
		"failed", failed,
		"records", records,
	)
	return snap, nil
}

// persist writes the snapshot and then the first-run flag. A snapshot write
// failure leaves the previous entry in place; a flag write failure is only
// logged.
func (o *Orchestrator) persist(ctx context.Context, log *slog.Logger, snap *model.Snapshot) error {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	if err := o.cache.Save(ctx, snap); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", model.ErrAssemblyFailed, err), "key", cache.KeySnapshot)
	}
	if err := o.cache.MarkSynced(ctx); err != nil {
		log.Warn("failed to set first-run flag", "error", err)
	}
	return nil
}

// fetchDataset performs up to 1+MaxRetries attempts. Only transient errors
// are retried; attempt n waits n*retryStep first.
func (o *Orchestrator) fetchDataset(ctx context.Context, log *slog.Logger, req model.DatasetRequest) model.DatasetResult {
	res := model.DatasetResult{
		Name:    req.Name,
		Label:   req.Label,
		Payload: []json.RawMessage{},
	}

	maxRetries := max(req.MaxRetries, 0)
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := o.sleep(ctx, time.Duration(attempt)*o.retryStep); err != nil {
				break
			}
		}
		res.Attempts++

		payload, err := o.attempt(ctx, req)
		if err == nil {
			if payload == nil {
				payload = []json.RawMessage{}
			}
			res.Payload = payload
			res.Succeeded = true
			res.Err = nil
			return res
		}

		res.Err = zerr.With(zerr.With(zerr.Wrap(err, "dataset fetch failed"),
			"dataset", string(req.Name)), "attempt", res.Attempts)
		if attempt == maxRetries {
			res.Exhausted = true
		}

		if ctx.Err() != nil || !client.IsTransient(err) {
			break
		}
		if attempt < maxRetries {
			log.Warn("dataset fetch failed, retrying",
				"dataset", req.Name,
				"attempt", res.Attempts,
				"backoff", time.Duration(attempt+1)*o.retryStep,
				"error", err,
			)
		}
	}

	zerr.Log(ctx, log, res.Err)
	return res
}

func (o *Orchestrator) attempt(ctx context.Context, req model.DatasetRequest) ([]json.RawMessage, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}
	return o.client.GetDataset(ctx, req.Endpoint)
}

// fetchPeriod never fails the run: any error yields an all-nil Period.
func (o *Orchestrator) fetchPeriod(ctx context.Context, log *slog.Logger) (client.Period, bool) {
	if o.periodTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.periodTimeout)
		defer cancel()
	}
	p, err := o.client.GetPeriod(ctx)
	if err != nil {
		log.Warn("period fetch failed", "error", err)
		return client.Period{}, false
	}
	if p == nil {
		return client.Period{}, true
	}
	return *p, true
}

func fetchStatus(ok bool) model.FetchStatus {
	if ok {
		return model.FetchSucceeded
	}
	return model.FetchFailed
}
