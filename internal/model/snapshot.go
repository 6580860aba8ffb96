package model

import (
	"encoding/json"
	"time"

	"github.com/dm/painel/internal/client"
)

// DatasetName is the key a dataset is stored under in a Snapshot.
type DatasetName string

const (
	InternacoesCid    DatasetName = "internacoesCid"
	ObitosCid         DatasetName = "obitosCid"
	ObitosLocal       DatasetName = "obitosLocal"
	SeriesMensal      DatasetName = "seriesMensal"
	InternacoesSexo   DatasetName = "internacoesSexo"
	ObitosRaca        DatasetName = "obitosRaca"
	InternacoesFaixa  DatasetName = "internacoesFaixa"
	ObitosEstadoCivil DatasetName = "obitosEstadoCivil"
)

// DatasetRequest describes one independent remote fetch.
type DatasetRequest struct {
	Name       DatasetName
	Endpoint   string
	Label      string
	Timeout    time.Duration // per attempt
	MaxRetries int           // attempts after the first failure
}

// DatasetResult is the settled outcome of one DatasetRequest.
type DatasetResult struct {
	Name      DatasetName
	Label     string
	Payload   []json.RawMessage
	Succeeded bool
	// Exhausted is set when the final allowed attempt failed. A
	// non-transient error on an earlier attempt abandons the dataset
	// without exhausting it.
	Exhausted bool
	Attempts  int
	Err       error
}

// Snapshot holds the results of a single synchronisation across every
// configured dataset plus the data period summary.
//
// Datasets always carries one entry per configured dataset; failed fetches
// are stored as empty, non-nil slices.
type Snapshot struct {
	Timestamp time.Time                         `json:"timestamp"`
	Datasets  map[DatasetName][]json.RawMessage `json:"datasets"`
	Period    client.Period                     `json:"periodoDados"`
}

// Records returns the records of a dataset, never nil.
func (s *Snapshot) Records(name DatasetName) []json.RawMessage {
	if s == nil {
		return []json.RawMessage{}
	}
	if r, ok := s.Datasets[name]; ok && r != nil {
		return r
	}
	return []json.RawMessage{}
}

// CacheEntry is the persisted envelope around a Snapshot.
type CacheEntry struct {
	Timestamp int64           `json:"timestamp"` // unix milliseconds
	Data      json.RawMessage `json:"data"`
	Checksum  string          `json:"checksum,omitempty"`
}

// FetchStatus is reported through progress callbacks as each fetch settles.
type FetchStatus int

const (
	FetchSucceeded FetchStatus = iota
	FetchFailed
)

func (s FetchStatus) String() string {
	if s == FetchSucceeded {
		return "ok"
	}
	return "failed"
}

// SyncStatus drives the blocking first-run overlay.
type SyncStatus int

const (
	SyncIdle SyncStatus = iota
	SyncLoading
	SyncSuccess
	SyncError
)

func (s SyncStatus) String() string {
	switch s {
	case SyncLoading:
		return "loading"
	case SyncSuccess:
		return "success"
	case SyncError:
		return "error"
	default:
		return "idle"
	}
}
