package tui

import (
	"time"

	"github.com/agbru/rangesum/internal/orchestration"
)

// Messages produced by a run carry the Generation of the run that sent
// them; Update discards those from a run that was restarted.

// ProgressMsg carries one aggregated worker progress update.
type ProgressMsg struct {
	WorkerIndex     int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
	Generation      uint64
}

// ProgressDoneMsg signals that the progress channel was closed.
type ProgressDoneMsg struct {
	Generation uint64
}

// ComparisonResultsMsg carries every algorithm outcome of the run.
type ComparisonResultsMsg struct {
	Outcomes   []orchestration.ReductionOutcome
	Generation uint64
}

// FinalResultMsg carries the outcome selected for display.
type FinalResultMsg struct {
	Outcome    orchestration.ReductionOutcome
	Options    orchestration.PresentationOptions
	Generation uint64
}

// ErrorMsg reports a failed run.
type ErrorMsg struct {
	Err        error
	Duration   time.Duration
	Generation uint64
}

// TickMsg drives the periodic refresh.
type TickMsg time.Time

// SysStatsMsg carries a system-wide resource sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// ReductionCompleteMsg is sent when orchestration returns.
type ReductionCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg is sent when the run context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
