package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/dm/painel/internal/cache"
	"github.com/dm/painel/internal/client"
	"github.com/dm/painel/internal/config"
	"github.com/dm/painel/internal/engine"
	"github.com/dm/painel/internal/logger"
)

// runtime bundles what every command needs once configuration is resolved.
type runtime struct {
	cfg     config.Config
	logger  *slog.Logger
	cache   *cache.SnapshotCache
	closers []io.Closer
}

// Close releases the store and log file, newest first.
func (r *runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// loadConfig layers the config file, the environment and explicit flags.
func (c *CLI) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(c.flags.configPath)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(c.getenv)

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.API.BaseURL = c.flags.apiURL
	}
	if flags.Changed("insecure") {
		cfg.API.Insecure = c.flags.insecure
	}
	if flags.Changed("backend") {
		cfg.Cache.Backend = c.flags.backend
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = c.flags.logLevel
	}

	if err := cfg.Normalize(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openRuntime resolves configuration and opens the logger and cache store.
// logSink overrides the configured log file when non-nil.
func (c *CLI) openRuntime(cmd *cobra.Command, logSink io.Writer) (*runtime, error) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, logCloser, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Writer: logSink,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: log, closers: []io.Closer{logCloser}}

	store, storeCloser, err := openStore(cmd.Context(), cfg)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	if storeCloser != nil {
		rt.closers = append(rt.closers, storeCloser)
	}
	rt.cache = cache.NewSnapshotCache(store, cfg.Cache.MaxAge)

	log.Debug("runtime ready", "backend", cfg.Cache.Backend, "api", cfg.API.BaseURL)
	return rt, nil
}

// openStore builds the configured cache backend. The Redis backend is pinged
// so a bad address fails fast.
func openStore(ctx context.Context, cfg config.Config) (cache.Store, io.Closer, error) {
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		rs := cache.NewRedisStore(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			UseTLS:   cfg.Cache.Redis.TLS,
		})
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, nil, err
		}
		return rs, rs, nil
	default:
		fs, err := cache.NewFileStore(cfg.Cache.Dir)
		if err != nil {
			return nil, nil, err
		}
		return fs, nil, nil
	}
}

// newOrchestrator builds the synchroniser for rt.
func newOrchestrator(rt *runtime, notifier engine.Notifier) (*engine.Orchestrator, error) {
	cl, err := client.NewDefaultClient(rt.cfg.ClientConfig())
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create API client")
	}
	opts := []engine.Option{
		engine.WithRequests(rt.cfg.Requests()),
		engine.WithConcurrency(rt.cfg.Sync.Concurrency),
		engine.WithRetryStep(rt.cfg.Sync.RetryStep),
		engine.WithPeriodTimeout(rt.cfg.Sync.PeriodTimeout),
		engine.WithLogger(rt.logger),
	}
	if notifier != nil {
		opts = append(opts, engine.WithNotifier(notifier))
	}
	return engine.New(cl, rt.cache, opts...), nil
}
