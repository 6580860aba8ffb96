package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncHistory_PushAndLen(t *testing.T) {
	h := NewSyncHistory(5)
	assert.Equal(t, 0, h.Len())

	h.Push(SyncPoint{Timestamp: time.Now(), Duration: time.Second})
	assert.Equal(t, 1, h.Len())

	h.Push(SyncPoint{Timestamp: time.Now(), Duration: 2 * time.Second})
	h.Push(SyncPoint{Timestamp: time.Now(), Duration: 3 * time.Second})
	assert.Equal(t, 3, h.Len())
}

func TestSyncHistory_OverwritesOldest(t *testing.T) {
	h := NewSyncHistory(3)

	h.Push(SyncPoint{Records: 10})
	h.Push(SyncPoint{Records: 20})
	h.Push(SyncPoint{Records: 30})
	require.Equal(t, 3, h.Len())

	// Push beyond capacity: oldest (10) should be overwritten
	h.Push(SyncPoint{Records: 40})
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []float64{20, 30, 40}, h.Values("records"))
}

func TestSyncHistory_Values_AllFields(t *testing.T) {
	h := NewSyncHistory(2)
	h.Push(SyncPoint{Duration: 1500 * time.Millisecond, Failed: 2, Records: 321})

	assert.Equal(t, []float64{1.5}, h.Values("duration"))
	assert.Equal(t, []float64{2}, h.Values("failed"))
	assert.Equal(t, []float64{321}, h.Values("records"))
	// Unknown field should return zeros
	assert.Equal(t, []float64{0}, h.Values("bogusField"))
}

func TestSyncHistory_Last(t *testing.T) {
	h := NewSyncHistory(2)
	_, ok := h.Last()
	assert.False(t, ok)

	for i := 1; i <= 5; i++ {
		h.Push(SyncPoint{Records: i})
	}
	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, 5, last.Records)
}

func TestSyncHistory_DefaultCapacity(t *testing.T) {
	h := NewSyncHistory(0)
	for i := 0; i < 35; i++ {
		h.Push(SyncPoint{Records: i})
	}
	assert.Equal(t, 30, h.Len())
	vals := h.Values("records")
	// Oldest kept entry is index 5 (entries 0-4 were overwritten)
	assert.Equal(t, float64(5), vals[0])
	assert.Equal(t, float64(34), vals[29])
}
