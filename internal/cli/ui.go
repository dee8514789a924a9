//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/rangesum/internal/format"
	"github.com/agbru/rangesum/internal/orchestration"
	"github.com/agbru/rangesum/internal/progress"
	"github.com/agbru/rangesum/internal/reducer"
	"github.com/agbru/rangesum/internal/ui"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts a terminal spinner so that DisplayProgress can be
// tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

// UpdateSuffix takes the spinner lock since the animation goroutine reads
// the suffix concurrently.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with an aggregated progress bar and ETA
// until progressChan is closed. It calls wg.Done when it returns.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numWorkers int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numWorkers)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(" " + format.FormatProgressBarWithETA(0, 0, ProgressBarWidth))
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.UpdateSuffix(" " + format.FormatProgressBarWithETA(1, 0, ProgressBarWidth))
				s.Stop()
				fmt.Fprintln(out)
				return
			}
			agg.Update(update)
		case <-ticker.C:
			s.UpdateSuffix(" " + format.FormatProgressBarWithETA(agg.CalculateAverage(), agg.GetETA(), ProgressBarWidth))
		}
	}
}

// DisplayResult prints the sum of a reduction. verbose adds the throughput,
// details adds the per-worker partial sums.
func DisplayResult(res reducer.ReductionResult, verbose, details bool, out io.Writer) {
	fmt.Fprintf(out, "\n--- Result ---\n")
	fmt.Fprintf(out, "Sum of %s%s%s = %s%s%s\n",
		ui.ColorMagenta(), res.Interval, ui.ColorReset(),
		ui.ColorBold(), format.FormatInt64(res.Sum), ui.ColorReset())
	fmt.Fprintf(out, "Reduction time: %s%s%s with %d workers (%s).\n",
		ui.ColorYellow(), format.FormatExecutionDuration(res.Duration), ui.ColorReset(),
		res.WorkerCount, res.Algorithm)

	if verbose {
		fmt.Fprintf(out, "Raw sum: %d\n", res.Sum)
		fmt.Fprintf(out, "Duration: %d ns\n", res.Duration.Nanoseconds())
		if secs := res.Duration.Seconds(); secs > 0 {
			fmt.Fprintf(out, "Throughput: %s integers/s\n",
				format.FormatNumberString(fmt.Sprintf("%.0f", float64(res.Interval.Len())/secs)))
		}
	}

	if details {
		DisplayPartials(res.Partials, out)
	}
}

// DisplayPartials prints one row per worker.
func DisplayPartials(partials []reducer.PartialResult, out io.Writer) {
	fmt.Fprintf(out, "\nDetailed result analysis:\n")
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Worker\tInterval\tLength\tPartial sum\tState\t\n")
	for _, p := range partials {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
			p.Index, p.Interval,
			format.FormatNumberString(fmt.Sprint(p.Interval.Len())),
			format.FormatInt64(p.Sum), p.State)
	}
	tw.Flush()
}

// DisplayQuietResult prints only the sum, for scripting.
func DisplayQuietResult(out io.Writer, sum int64) {
	fmt.Fprintln(out, sum)
}
