package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/rangesum/internal/errors"
	"github.com/agbru/rangesum/internal/logging"
	"github.com/agbru/rangesum/internal/metrics"
	"github.com/agbru/rangesum/internal/progress"
	"github.com/agbru/rangesum/internal/reducer"
)

// ProgressBufferMultiplier sizes the progress channel relative to the
// number of progress slots. Updates are dropped rather than blocking a
// worker when the buffer is full.
const ProgressBufferMultiplier = 5

// ExecuteOption configures ExecuteReductions.
type ExecuteOption func(*executeOptions)

type executeOptions struct {
	metrics *metrics.ReductionMetrics
	logger  logging.Logger
}

// WithMetrics records every outcome in m.
func WithMetrics(m *metrics.ReductionMetrics) ExecuteOption {
	return func(o *executeOptions) { o.metrics = m }
}

// WithLogger passes l to every reducer.
func WithLogger(l logging.Logger) ExecuteOption {
	return func(o *executeOptions) { o.logger = l }
}

// ProgressSlots returns the number of progress slots a run of the given
// candidates occupies.
func ProgressSlots(candidates []Candidate, workers int) int {
	return len(candidates) * workers
}

// ExecuteReductions runs one reduction per candidate concurrently over the
// same request and collects the outcomes in candidate order.
//
// Candidate i publishes its worker progress on slots
// [i*req.Workers, (i+1)*req.Workers). One failing algorithm does not cancel
// the others: each outcome carries its own error.
func ExecuteReductions(ctx context.Context, candidates []Candidate, req ReductionRequest, progressReporter ProgressReporter, out io.Writer, opts ...ExecuteOption) []ReductionOutcome {
	var o executeOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNopLogger()
	}

	var g errgroup.Group
	outcomes := make([]ReductionOutcome, len(candidates))
	slots := ProgressSlots(candidates, req.Workers)
	progressChan := make(chan progress.ProgressUpdate, max(slots, 1)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, slots, out)

	for i, c := range candidates {
		g.Go(func() error {
			r := reducer.New(
				reducer.WithSummer(c.Summer),
				reducer.WithLogger(o.logger),
				reducer.WithProgress(progressChan),
				reducer.WithProgressOffset(i*req.Workers),
			)
			startTime := time.Now()
			res, err := r.Reduce(ctx, req.Start, req.End, req.Workers)
			outcomes[i] = ReductionOutcome{
				Key:      c.Key,
				Name:     c.Summer.Name(),
				Result:   res,
				Duration: time.Since(startTime),
				Err:      err,
			}
			record(o.metrics, outcomes[i])
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return outcomes
}

func record(m *metrics.ReductionMetrics, oc ReductionOutcome) {
	if m == nil {
		return
	}
	switch {
	case oc.Err == nil:
		m.ObserveSuccess(oc.Key, oc.Result.WorkerCount, oc.Result.Interval.Len(), oc.Result.Duration)
	case errors.Is(oc.Err, context.DeadlineExceeded):
		m.ObserveFailure(oc.Key, metrics.StatusTimeout)
	default:
		m.ObserveFailure(oc.Key, metrics.StatusFailure)
	}
}

// AnalyzeComparisonResults sorts the outcomes (successes first, then by
// duration), checks that every successful algorithm produced the same sum,
// presents the comparison and returns the exit code.
func AnalyzeComparisonResults(outcomes []ReductionOutcome, opts PresentationOptions, presenter ResultPresenter, out io.Writer) int {
	sort.SliceStable(outcomes, func(i, j int) bool {
		if (outcomes[i].Err == nil) != (outcomes[j].Err == nil) {
			return outcomes[i].Err == nil
		}
		return outcomes[i].Duration < outcomes[j].Duration
	})

	var firstValid *ReductionOutcome
	var firstError error
	for i := range outcomes {
		if outcomes[i].Err != nil {
			if firstError == nil {
				firstError = outcomes[i].Err
			}
			continue
		}
		if firstValid == nil {
			firstValid = &outcomes[i]
		}
	}

	presenter.PresentComparisonTable(outcomes, out)

	if firstValid == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the reduction.\n")
		return presenter.HandleError(firstError, 0, out)
	}

	for _, oc := range outcomes {
		if oc.Err == nil && oc.Result.Sum != firstValid.Result.Sum {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %s and %s disagree on the sum.\n", firstValid.Name, oc.Name)
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	presenter.PresentResult(*firstValid, opts, out)
	return apperrors.ExitSuccess
}
