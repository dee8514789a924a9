package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/rangesum/internal/config"
	"github.com/agbru/rangesum/internal/format"
	"github.com/agbru/rangesum/internal/orchestration"
	"github.com/agbru/rangesum/internal/reducer"
	"github.com/agbru/rangesum/internal/ui"
)

// PrintExecutionConfig displays the range, the worker count, the timeout
// and the environment of the run.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	iv := reducer.Interval{Start: cfg.Start, End: cfg.End}
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Summing %s%s%s (%s integers) with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), iv, ui.ColorReset(),
		format.FormatNumberString(fmt.Sprint(iv.Len())),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	fmt.Fprintf(out, "Workers: %s%d%s.\n", ui.ColorCyan(), cfg.Workers, ui.ColorReset())
}

// PrintExecutionMode displays the execution mode (single algorithm vs comparison).
func PrintExecutionMode(candidates []orchestration.Candidate, out io.Writer) {
	var modeDesc string
	if len(candidates) > 1 {
		modeDesc = "Parallel comparison of all algorithms"
	} else {
		modeDesc = fmt.Sprintf("Single reduction with the %s%s%s algorithm",
			ui.ColorGreen(), candidates[0].Summer.Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
