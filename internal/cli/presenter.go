package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	apperrors "github.com/agbru/rangesum/internal/errors"
	"github.com/agbru/rangesum/internal/format"
	"github.com/agbru/rangesum/internal/metrics"
	"github.com/agbru/rangesum/internal/orchestration"
	"github.com/agbru/rangesum/internal/progress"
	"github.com/agbru/rangesum/internal/sysmon"
	"github.com/agbru/rangesum/internal/ui"
)

// CLIColorProvider supplies theme colors to apperrors.
type CLIColorProvider struct{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and a progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for ongoing reductions.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numWorkers int, out io.Writer) {
	DisplayProgress(wg, progressChan, numWorkers, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter for terminal
// output.
type CLIResultPresenter struct {
	// CPUBaseline is the process CPU time at the start of the run; the
	// details section reports the difference.
	CPUBaseline metrics.CPUTime
}

var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
)

// PresentComparisonTable displays algorithm names, durations and status.
// Uses manual padding to correctly handle ANSI color codes.
func (CLIResultPresenter) PresentComparisonTable(outcomes []orchestration.ReductionOutcome, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	maxNameLen := len("Algorithm")
	maxDurationLen := len("Duration")
	for _, oc := range outcomes {
		maxNameLen = max(maxNameLen, len(oc.Name))
		maxDurationLen = max(maxDurationLen, len(displayDuration(oc.Duration)))
	}

	fmt.Fprintf(out, "%sAlgorithm%s%s   %sDuration%s%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNameLen-9),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDurationLen-8),
		ui.ColorUnderline(), ui.ColorReset())

	for _, oc := range outcomes {
		var status string
		if oc.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), oc.Err, ui.ColorReset())
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
		}
		duration := displayDuration(oc.Duration)
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s\n",
			ui.ColorBlue(), oc.Name, ui.ColorReset(), padRight("", maxNameLen-len(oc.Name)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", maxDurationLen-len(duration)),
			status)
	}
}

func displayDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentResult displays the final result. With details it also shows the
// memory, CPU time and system load of the run.
func (p CLIResultPresenter) PresentResult(outcome orchestration.ReductionOutcome, opts orchestration.PresentationOptions, out io.Writer) {
	if opts.Quiet {
		DisplayQuietResult(out, outcome.Result.Sum)
		return
	}
	DisplayResult(outcome.Result, opts.Verbose, opts.Details, out)
	if opts.Details {
		p.displayRunDetails(out)
	}
}

func (p CLIResultPresenter) displayRunDetails(out io.Writer) {
	DisplayMemoryStats(metrics.NewMemoryCollector().Snapshot(), out)
	if now, ok := metrics.ProcessCPUTime(); ok {
		used := now.Sub(p.CPUBaseline)
		fmt.Fprintf(out, "  CPU time:        %s user, %s system\n",
			format.FormatExecutionDuration(used.User), format.FormatExecutionDuration(used.System))
	}
	DisplaySystemStats(sysmon.Sample(context.Background()), out)
}

// FormatDuration formats a duration with the CLI's standard formatting.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError handles reduction errors and returns an appropriate exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleReductionError(err, duration, out, CLIColorProvider{})
}

// DisplayMemoryStats shows memory statistics after a reduction.
func DisplayMemoryStats(snap metrics.MemorySnapshot, out io.Writer) {
	fmt.Fprintf(out, "\nRun Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(snap.HeapAlloc))
	fmt.Fprintf(out, "  Obtained:        %s\n", format.FormatBytes(snap.Sys))
	fmt.Fprintf(out, "  GC cycles:       %d\n", snap.NumGC)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(snap.PauseTotalNs)/1e6)
	fmt.Fprintf(out, "  Goroutines:      %d\n", snap.Goroutines)
}

// DisplaySystemStats shows the system-wide load.
func DisplaySystemStats(stats sysmon.Stats, out io.Writer) {
	fmt.Fprintf(out, "  System CPU:      %.1f%% of %d logical CPUs\n", stats.CPUPercent, stats.LogicalCPU)
	fmt.Fprintf(out, "  System memory:   %.1f%%\n", stats.MemPercent)
	if stats.Load1 > 0 {
		fmt.Fprintf(out, "  Load average:    %.2f\n", stats.Load1)
	}
}
