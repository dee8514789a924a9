package reducer

import "fmt"

// InvalidRangeError is returned when a reduction is requested over an
// interval whose start lies after its end.
type InvalidRangeError struct {
	Start int64
	End   int64
}

func (e InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: start %d is greater than end %d", e.Start, e.End)
}

// InvalidWorkerCountError is returned when fewer than one worker is requested.
type InvalidWorkerCountError struct {
	Count int
}

func (e InvalidWorkerCountError) Error() string {
	return fmt.Sprintf("invalid worker count %d: at least one worker is required", e.Count)
}

// OverflowError is returned when the sum of the interval cannot be
// represented as an int64.
type OverflowError struct {
	Interval Interval
}

func (e OverflowError) Error() string {
	return fmt.Sprintf("sum of %s overflows int64", e.Interval)
}

// WorkerError reports the first worker failure of a reduction. The other
// workers are canceled as soon as it occurs.
type WorkerError struct {
	Index    int
	Interval Interval
	Cause    error
}

func (e WorkerError) Error() string {
	return fmt.Sprintf("worker %d on %s: %v", e.Index, e.Interval, e.Cause)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e WorkerError) Unwrap() error { return e.Cause }
