package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RecordsNeverNil(t *testing.T) {
	var nilSnap *Snapshot
	assert.NotNil(t, nilSnap.Records(ObitosLocal))

	snap := &Snapshot{Datasets: map[DatasetName][]json.RawMessage{ObitosLocal: nil}}
	assert.NotNil(t, snap.Records(ObitosLocal))
	assert.NotNil(t, snap.Records(ObitosRaca))
}

func TestSnapshot_JSONShape(t *testing.T) {
	snap := Snapshot{
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Datasets: map[DatasetName][]json.RawMessage{
			ObitosRaca: {json.RawMessage(`{"raca_desc":"Parda","total_obitos":10}`)},
		},
	}
	b, err := json.Marshal(snap)
	require.NoError(t, err)
	s := string(b)
	assert.True(t, strings.Contains(s, `"obitosRaca":[{"raca_desc":"Parda","total_obitos":10}]`), s)
	assert.Contains(t, s, `"periodoDados":{"ano_inicio":null,"ano_fim":null,"mes_inicio":null,"mes_fim":null}`)
}

func TestDefaultRequests(t *testing.T) {
	reqs := DefaultRequests(RequestOptions{MaxRetries: 1})
	require.Len(t, reqs, len(Catalog))

	seen := map[DatasetName]bool{}
	for _, r := range reqs {
		seen[r.Name] = true
		assert.Equal(t, DefaultDatasetTimeout, r.Timeout)
		assert.Equal(t, 1, r.MaxRetries)
		assert.NotEmpty(t, r.Label)
		if r.Name == SeriesMensal {
			assert.Equal(t, "/api/series/mensal?limit=5000", r.Endpoint)
		}
		if r.Name == ObitosLocal {
			assert.Equal(t, "Óbitos por Local", r.Label)
			assert.Equal(t, "/api/obitos/local", r.Endpoint)
		}
	}
	assert.Len(t, seen, 8)
}

func TestDefaultRequests_NegativeRetriesClamped(t *testing.T) {
	for _, r := range DefaultRequests(RequestOptions{MaxRetries: -3, SeriesLimit: 12}) {
		assert.Equal(t, 0, r.MaxRetries)
		if r.Name == SeriesMensal {
			assert.Equal(t, "/api/series/mensal?limit=12", r.Endpoint)
		}
	}
}

func TestSpecFor(t *testing.T) {
	s, ok := SpecFor(InternacoesFaixa)
	require.True(t, ok)
	assert.Equal(t, "faixa_desc", s.LabelField)

	_, ok = SpecFor("nope")
	assert.False(t, ok)
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "ok", FetchSucceeded.String())
	assert.Equal(t, "failed", FetchFailed.String())
	assert.Equal(t, "idle", SyncIdle.String())
	assert.Equal(t, "loading", SyncLoading.String())
	assert.Equal(t, "success", SyncSuccess.String())
	assert.Equal(t, "error", SyncError.String())
}
