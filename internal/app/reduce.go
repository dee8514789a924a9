package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/rangesum/internal/cli"
	apperrors "github.com/agbru/rangesum/internal/errors"
	"github.com/agbru/rangesum/internal/logging"
	"github.com/agbru/rangesum/internal/metrics"
	"github.com/agbru/rangesum/internal/orchestration"
)

// runReduce orchestrates the CLI reduction command.
func (a *Application) runReduce(ctx context.Context, out io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	candidates := orchestration.GetSummersToRun(a.Config.Algo, a.Factory)
	if len(candidates) == 0 {
		fmt.Fprintf(a.ErrWriter, "unknown algorithm %q\n", a.Config.Algo)
		return apperrors.ExitErrorConfig
	}

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(candidates, out)
	}

	var progressReporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		progressReporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	execOpts := []orchestration.ExecuteOption{orchestration.WithLogger(a.Logger)}
	var m *metrics.ReductionMetrics
	if a.Config.MetricsFile != "" {
		m = metrics.NewReductionMetrics()
		execOpts = append(execOpts, orchestration.WithMetrics(m))
	}

	cpuBaseline, _ := metrics.ProcessCPUTime()
	req := orchestration.ReductionRequest{Start: a.Config.Start, End: a.Config.End, Workers: a.Config.Workers}
	outcomes := orchestration.ExecuteReductions(ctx, candidates, req, progressReporter, progressOut, execOpts...)

	exitCode := a.analyzeOutcomes(outcomes, cli.CLIResultPresenter{CPUBaseline: cpuBaseline}, out)

	if m != nil {
		if err := m.WriteToFile(a.Config.MetricsFile); err != nil {
			a.Logger.Error("writing metrics file", err, logging.String("path", a.Config.MetricsFile))
			if exitCode == apperrors.ExitSuccess {
				exitCode = apperrors.ExitErrorGeneric
			}
		}
	}
	return exitCode
}

// analyzeOutcomes presents the outcomes and saves the report of the fastest
// successful algorithm.
func (a *Application) analyzeOutcomes(outcomes []orchestration.ReductionOutcome, presenter orchestration.ResultPresenter, out io.Writer) int {
	best := findBestOutcome(outcomes)

	var exitCode int
	switch {
	case a.Config.Quiet && best != nil:
		if !consistent(outcomes, best.Result.Sum) {
			fmt.Fprintf(a.ErrWriter, "results differ between algorithms\n")
			return apperrors.ExitErrorMismatch
		}
		cli.DisplayQuietResult(out, best.Result.Sum)
		exitCode = apperrors.ExitSuccess
	case a.Config.Quiet:
		return presenter.HandleError(firstError(outcomes), 0, a.ErrWriter)
	default:
		presOpts := orchestration.PresentationOptions{
			Verbose: a.Config.Verbose,
			Details: a.Config.Details,
		}
		exitCode = orchestration.AnalyzeComparisonResults(outcomes, presOpts, presenter, out)
	}

	if best == nil || exitCode != apperrors.ExitSuccess {
		return exitCode
	}
	report := cli.NewReport(best.Result, best.Key)
	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Format:     a.Config.Format,
		Quiet:      a.Config.Quiet,
	}
	if err := cli.SaveReport(out, report, outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving report: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return exitCode
}

// findBestOutcome returns a copy of the fastest successful outcome, or nil.
func findBestOutcome(outcomes []orchestration.ReductionOutcome) *orchestration.ReductionOutcome {
	var best *orchestration.ReductionOutcome
	for i := range outcomes {
		if outcomes[i].Err == nil && (best == nil || outcomes[i].Duration < best.Duration) {
			best = &outcomes[i]
		}
	}
	if best == nil {
		return nil
	}
	oc := *best
	return &oc
}

func consistent(outcomes []orchestration.ReductionOutcome, sum int64) bool {
	for _, oc := range outcomes {
		if oc.Err == nil && oc.Result.Sum != sum {
			return false
		}
	}
	return true
}

func firstError(outcomes []orchestration.ReductionOutcome) error {
	for _, oc := range outcomes {
		if oc.Err != nil {
			return oc.Err
		}
	}
	return nil
}
