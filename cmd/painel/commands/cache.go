package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dm/painel/internal/cache"
	"github.com/dm/painel/internal/config"
	"github.com/dm/painel/internal/format"
	"github.com/dm/painel/internal/model"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local snapshot cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the age, freshness and contents of the cached snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runCacheStatus(cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the cached snapshot and the first-run flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runCacheClear(cmd)
		},
	})
	return cmd
}

func (c *CLI) runCacheStatus(cmd *cobra.Command) error {
	rt, err := c.openRuntime(cmd, c.errOut)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	info, err := rt.cache.Inspect(cmd.Context())
	if err != nil {
		return err
	}
	printCacheInfo(c.out, rt.cfg, info)
	return nil
}

func (c *CLI) runCacheClear(cmd *cobra.Command) error {
	rt, err := c.openRuntime(cmd, c.errOut)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	if err := rt.cache.Clear(cmd.Context()); err != nil {
		return err
	}
	rt.logger.Info("cache cleared", "backend", rt.cfg.Cache.Backend)
	_, _ = fmt.Fprintln(c.out, "Cache removido.")
	return nil
}

func yesNo(b bool) string {
	if b {
		return "sim"
	}
	return "não"
}

func backendLabel(cfg config.Config) string {
	if cfg.Cache.Backend == config.BackendRedis {
		return "redis (" + cfg.Cache.Redis.Addr + ")"
	}
	return "file (" + cfg.Cache.Dir + ")"
}

func printCacheInfo(w io.Writer, cfg config.Config, info cache.Info) {
	_, _ = fmt.Fprintf(w, "Backend:       %s\n", backendLabel(cfg))
	_, _ = fmt.Fprintf(w, "Sincronizado:  %s\n", yesNo(info.Synced))

	switch {
	case !info.Present:
		_, _ = fmt.Fprintln(w, "Entrada:       ausente")
		return
	case info.Corrupt:
		_, _ = fmt.Fprintln(w, "Entrada:       corrompida")
		return
	}

	state := "válida"
	if !info.Fresh {
		state = "expirada"
	}
	_, _ = fmt.Fprintf(w, "Entrada:       %s\n", state)
	_, _ = fmt.Fprintf(w, "Salva em:      %s\n", info.SavedAt.Local().Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(w, "Idade:         %s (máximo %s)\n", format.FormatAge(info.Age), format.FormatAge(cfg.Cache.MaxAge))
	if info.Snapshot == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "Período:       %s\n", format.FormatPeriod(info.Snapshot.Period))

	t := plainTable("CONJUNTO", "REGISTROS", "TAMANHO")
	for _, spec := range model.Catalog {
		var size int64
		for _, rec := range info.Snapshot.Records(spec.Name) {
			size += int64(len(rec))
		}
		t.Row(spec.Label, format.FormatNumber(float64(info.Counts[spec.Name])), format.FormatBytes(size))
	}
	_, _ = fmt.Fprintln(w, t.String())
}
