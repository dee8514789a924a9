package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/rangesum/internal/progress"
	"github.com/agbru/rangesum/internal/reducer"
)

// ReductionRequest is the range and worker count shared by every
// algorithm of a run.
type ReductionRequest struct {
	Start   int64
	End     int64
	Workers int
}

// ReductionOutcome is the result of one algorithm over the request. It is
// the shared domain type between orchestration and presentation.
type ReductionOutcome struct {
	// Key is the short name the summer is registered under.
	Key string
	// Name is the display name of the summer.
	Name string
	// Result is meaningful only when Err is nil.
	Result   reducer.ReductionResult
	Duration time.Duration
	Err      error
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Verbose bool
	Details bool
	Quiet   bool
}

// ProgressReporter displays worker progress.
type ProgressReporter interface {
	// DisplayProgress consumes progressChan until it is closed, then calls
	// wg.Done. numWorkers is the number of progress slots.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numWorkers int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numWorkers int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numWorkers int, out io.Writer) {
	f(wg, progressChan, numWorkers, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. Used in quiet mode and tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler handles reduction errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}

// ResultPresenter presents the outcomes of a run.
type ResultPresenter interface {
	ErrorHandler

	// PresentComparisonTable displays one row per algorithm.
	PresentComparisonTable(outcomes []ReductionOutcome, out io.Writer)

	// PresentResult displays the final result.
	PresentResult(outcome ReductionOutcome, opts PresentationOptions, out io.Writer)
}
