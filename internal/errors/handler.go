package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/agbru/rangesum/internal/reducer"
)

// ColorProvider supplies the ANSI sequences used when printing errors.
// A nil provider prints without color.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// IsInputError reports whether err stems from invalid reduction input
// rather than from a failure during execution.
func IsInputError(err error) bool {
	var (
		rangeErr    reducer.InvalidRangeError
		countErr    reducer.InvalidWorkerCountError
		overflowErr reducer.OverflowError
		configErr   ConfigError
		validErr    ValidationError
	)
	return errors.As(err, &rangeErr) || errors.As(err, &countErr) ||
		errors.As(err, &overflowErr) || errors.As(err, &configErr) ||
		errors.As(err, &validErr)
}

// HandleReductionError prints a one-line description of err and returns
// the matching exit code. A nil err yields ExitSuccess and prints nothing.
//
// Parameters:
//   - err: The error returned by a reduction.
//   - duration: How long the reduction ran before failing (0 if unknown).
//   - out: The writer for the message.
//   - colors: Optional color provider.
//
// Returns:
//   - int: The exit code for the process.
func HandleReductionError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	red, yellow, reset := "", "", ""
	if colors != nil {
		red, yellow, reset = colors.Red(), colors.Yellow(), colors.Reset()
	}

	elapsed := ""
	if duration > 0 {
		elapsed = fmt.Sprintf(" after %s%s%s", yellow, duration, reset)
	}

	var timeoutErr TimeoutError
	switch {
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "%sStatus: Timeout.%s The reduction exceeded its time limit%s.\n", red, reset, elapsed)
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled.%s The reduction was interrupted%s.\n", yellow, reset, elapsed)
		return ExitErrorCanceled
	case IsInputError(err):
		fmt.Fprintf(out, "%sStatus: Invalid input.%s %v\n", red, reset, err)
		return ExitErrorConfig
	default:
		fmt.Fprintf(out, "%sStatus: Failure.%s %v%s\n", red, reset, err, elapsed)
		return ExitErrorGeneric
	}
}
