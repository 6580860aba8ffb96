package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/dm/painel/internal/client"
)

// MockStatsClient implements client.StatsClient for testing. DatasetFn
// receives the endpoint path with any query string stripped.
type MockStatsClient struct {
	DatasetFn func(ctx context.Context, path string) ([]json.RawMessage, error)
	PeriodFn  func(ctx context.Context) (*client.Period, error)

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockStatsClient) GetDataset(ctx context.Context, path string) ([]json.RawMessage, error) {
	base, _, _ := strings.Cut(path, "?")
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[base]++
	m.mu.Unlock()

	if m.DatasetFn != nil {
		return m.DatasetFn(ctx, base)
	}
	return []json.RawMessage{json.RawMessage(`{"endpoint":"` + base + `"}`)}, nil
}

func (m *MockStatsClient) GetPeriod(ctx context.Context) (*client.Period, error) {
	if m.PeriodFn != nil {
		return m.PeriodFn(ctx)
	}
	ini, fim, mi, mf := 2020, 2023, 1, 12
	return &client.Period{AnoInicio: &ini, AnoFim: &fim, MesInicio: &mi, MesFim: &mf}, nil
}

func (m *MockStatsClient) Ping(ctx context.Context) error {
	return nil
}

func (m *MockStatsClient) BaseURL() string {
	return "http://mock:8000"
}

// Calls returns how many times path was requested.
func (m *MockStatsClient) Calls(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[path]
}

// failing returns a DatasetFn that fails path with err and serves defaults
// for every other endpoint.
func failing(path string, err error) func(ctx context.Context, p string) ([]json.RawMessage, error) {
	return func(_ context.Context, p string) ([]json.RawMessage, error) {
		if p == path {
			return nil, err
		}
		return []json.RawMessage{json.RawMessage(`{"ok":true}`)}, nil
	}
}

var errMockFailure = errors.New("mock failure")
