//go:build integration

package engine_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/painel/internal/cache"
	"github.com/dm/painel/internal/client"
	"github.com/dm/painel/internal/engine"
	"github.com/dm/painel/internal/model"
)

// apiClient creates a DefaultClient from $PAINEL_API_URL or skips the test if unset.
func apiClient(t *testing.T, insecure bool) client.StatsClient {
	t.Helper()
	uri := os.Getenv("PAINEL_API_URL")
	if uri == "" {
		t.Skip("PAINEL_API_URL not set; skipping integration test")
	}
	c, err := client.NewDefaultClient(client.ClientConfig{
		BaseURL:            uri,
		Token:              os.Getenv("PAINEL_TOKEN"),
		InsecureSkipVerify: insecure,
		RequestTimeout:     60 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func newOrchestrator(c client.StatsClient) *engine.Orchestrator {
	sc := cache.NewSnapshotCache(cache.NewFileStoreFS(memfs.New()), time.Hour)
	return engine.New(c, sc)
}

// TestLiveAPI_Run synchronises every dataset against a running API and
// verifies the snapshot is complete and cached.
func TestLiveAPI_Run(t *testing.T) {
	c := apiClient(t, false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	require.NoError(t, c.Ping(ctx))

	o := newOrchestrator(c)
	snap, err := o.Run(ctx, engine.RunOptions{ForceRefresh: true})
	require.NoError(t, err)
	require.NotNil(t, snap)

	for _, spec := range model.Catalog {
		assert.NotNil(t, snap.Datasets[spec.Name], "dataset %s should never be nil", spec.Name)
	}
	assert.False(t, snap.Timestamp.IsZero(), "snapshot timestamp should be set")

	cached, ok := o.ReadCache(ctx)
	require.True(t, ok, "a completed run should be readable from cache")
	assert.Equal(t, len(snap.Datasets), len(cached.Datasets))
	assert.True(t, o.HasSyncedBefore(ctx))

	ov := engine.CalcOverview(snap)
	assert.GreaterOrEqual(t, ov.TotalInternacoes, 0.0)
	assert.GreaterOrEqual(t, ov.TotalObitos, 0.0)
}

// TestLiveAPI_HTTPSWithInsecure skips unless PAINEL_API_URL is https://.
func TestLiveAPI_HTTPSWithInsecure(t *testing.T) {
	if !strings.HasPrefix(os.Getenv("PAINEL_API_URL"), "https://") {
		t.Skip("PAINEL_API_URL is not https://; skipping TLS insecure test")
	}
	c := apiClient(t, true)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	p, err := c.GetPeriod(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
}
