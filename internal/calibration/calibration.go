// Package calibration measures the fastest worker count for this machine
// and caches it in a profile that later runs pick up automatically.
package calibration

import (
	"context"
	"fmt"
	"io"
	"time"

	apperrors "github.com/agbru/rangesum/internal/errors"
	"github.com/agbru/rangesum/internal/reducer"
	"github.com/agbru/rangesum/internal/ui"
)

const (
	// CalibrationStart and CalibrationEnd bound the benchmark range.
	CalibrationStart int64 = 0
	CalibrationEnd   int64 = 1 << 27

	// CalibrationRuns is the number of timings per worker count; the best
	// one is kept.
	CalibrationRuns = 3
)

type calibrationResult struct {
	Workers  int
	Duration time.Duration
	Err      error
}

// Options configures RunCalibration.
type Options struct {
	// Start and End override the benchmark range; both zero selects the
	// default range.
	Start, End int64
	// WorkerCounts overrides GenerateWorkerCounts.
	WorkerCounts []int
	// ProfilePath is where the profile is saved; empty skips saving.
	ProfilePath string
}

// RunCalibration benchmarks summer with every candidate worker count,
// prints the results table and saves the fastest count to the profile.
func RunCalibration(ctx context.Context, out io.Writer, summer reducer.Summer, opts Options, colors apperrors.ColorProvider) int {
	start, end := opts.Start, opts.End
	if start == 0 && end == 0 {
		start, end = CalibrationStart, CalibrationEnd
	}
	counts := opts.WorkerCounts
	if len(counts) == 0 {
		counts = GenerateWorkerCounts()
	}

	fmt.Fprintf(out, "--- Calibration Mode ---\n")
	fmt.Fprintf(out, "Benchmarking %s%s%s over %s%s%s with %d worker counts...\n",
		ui.ColorGreen(), summer.Name(), ui.ColorReset(),
		ui.ColorMagenta(), reducer.Interval{Start: start, End: end}, ui.ColorReset(), len(counts))

	began := time.Now()
	r := reducer.New(reducer.WithSummer(summer))
	results := make([]calibrationResult, 0, len(counts))
	for _, w := range counts {
		res := measure(ctx, r, start, end, w)
		if apperrors.IsContextError(res.Err) {
			return apperrors.HandleReductionError(res.Err, time.Since(began), out, colors)
		}
		results = append(results, res)
	}

	best, ok := fastest(results)
	printCalibrationResults(out, results, best.Workers)
	if !ok {
		fmt.Fprintf(out, "%sCalibration failed: no worker count completed.%s\n", colors.Red(), colors.Reset())
		return apperrors.ExitErrorGeneric
	}

	fmt.Fprintf(out, "\n%sOptimal worker count%s: %s%d%s\n",
		ui.ColorGreen(), ui.ColorReset(), ui.ColorYellow(), best.Workers, ui.ColorReset())

	if opts.ProfilePath != "" {
		profile := NewProfile()
		profile.OptimalWorkers = best.Workers
		profile.CalibrationStart = start
		profile.CalibrationEnd = end
		profile.CalibrationTime = time.Since(began).Round(time.Millisecond).String()
		if err := profile.SaveProfile(opts.ProfilePath); err != nil {
			fmt.Fprintf(out, "%sWarning: %v%s\n", colors.Yellow(), err, colors.Reset())
		} else {
			fmt.Fprintf(out, "Profile saved to %s%s%s\n", ui.ColorCyan(), opts.ProfilePath, ui.ColorReset())
		}
	}
	return apperrors.ExitSuccess
}

// measure keeps the best of CalibrationRuns timings.
func measure(ctx context.Context, r *reducer.Reducer, start, end int64, workers int) calibrationResult {
	res := calibrationResult{Workers: workers}
	for range CalibrationRuns {
		rr, err := r.Reduce(ctx, start, end, workers)
		if err != nil {
			res.Err = err
			return res
		}
		if res.Duration == 0 || rr.Duration < res.Duration {
			res.Duration = rr.Duration
		}
	}
	return res
}

// fastest returns the successful result with the lowest duration; ties go
// to the smaller worker count.
func fastest(results []calibrationResult) (calibrationResult, bool) {
	var best calibrationResult
	found := false
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if !found || res.Duration < best.Duration {
			best, found = res, true
		}
	}
	return best, found
}
