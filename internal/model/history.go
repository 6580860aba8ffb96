package model

import "time"

const defaultSyncHistoryCap = 30

// SyncPoint is a single completed synchronisation stored in the ring buffer.
type SyncPoint struct {
	Timestamp time.Time
	Duration  time.Duration
	Failed    int // datasets that exhausted their retries
	Records   int // records across every dataset
}

// SyncHistory is a fixed-size ring buffer of SyncPoints for the current
// session. When the buffer is full, new pushes overwrite the oldest entry.
type SyncHistory struct {
	buf  []SyncPoint
	head int // index of the next write position
	size int // number of valid entries
}

// NewSyncHistory creates a SyncHistory with the given capacity.
// If capacity <= 0, defaultSyncHistoryCap (30) is used.
func NewSyncHistory(capacity int) *SyncHistory {
	if capacity <= 0 {
		capacity = defaultSyncHistoryCap
	}
	return &SyncHistory{
		buf: make([]SyncPoint, capacity),
	}
}

// Push appends a new point to the history, overwriting the oldest if full.
func (h *SyncHistory) Push(p SyncPoint) {
	h.buf[h.head] = p
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// Len returns the number of valid entries in the history.
func (h *SyncHistory) Len() int {
	return h.size
}

// Last returns the most recent point.
func (h *SyncHistory) Last() (SyncPoint, bool) {
	if h.size == 0 {
		return SyncPoint{}, false
	}
	return h.buf[(h.head-1+len(h.buf))%len(h.buf)], true
}

// Values returns a slice of float64 for the named field in chronological
// order (oldest first). Valid field names: "duration" (seconds), "failed",
// "records".
func (h *SyncHistory) Values(field string) []float64 {
	out := make([]float64, h.size)
	// oldest entry sits at (head - size + cap) % cap
	start := (h.head - h.size + len(h.buf)) % len(h.buf)
	for i := 0; i < h.size; i++ {
		p := h.buf[(start+i)%len(h.buf)]
		switch field {
		case "duration":
			out[i] = p.Duration.Seconds()
		case "failed":
			out[i] = float64(p.Failed)
		case "records":
			out[i] = float64(p.Records)
		}
	}
	return out
}
