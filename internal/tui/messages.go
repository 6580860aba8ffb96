package tui

import (
	"time"

	"github.com/dm/painel/internal/engine"
	"github.com/dm/painel/internal/model"
)

// CacheLoadedMsg carries the result of the startup cache read.
type CacheLoadedMsg struct {
	Snapshot     *model.Snapshot // nil on a miss
	SyncedBefore bool
}

// SyncResultMsg delivers a completed synchronisation.
type SyncResultMsg struct {
	Seq      int
	Snapshot *model.Snapshot
	Elapsed  time.Duration
	Overlay  bool // the run was driven by the first-run overlay
}

// SyncErrorMsg signals an orchestrator-level failure.
type SyncErrorMsg struct {
	Seq     int
	Err     error
	Overlay bool
}

// ProgressMsg reports one dataset settling during run Seq.
type ProgressMsg struct {
	Seq    int
	Label  string
	Status model.FetchStatus
}

// NoticeMsg delivers a notice emitted by the orchestrator.
type NoticeMsg struct{ Notice engine.Notice }

// toastExpiredMsg removes the toast with the given id.
type toastExpiredMsg struct{ ID int }

// TickMsg refreshes the relative "updated ago" label.
type TickMsg time.Time
