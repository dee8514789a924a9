package reducer

import "time"

// WorkerState is the lifecycle stage of a single reduction worker.
type WorkerState int

const (
	StateCreated WorkerState = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s WorkerState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// PartialResult is the slot owned by one worker. Only that worker writes it,
// and only until it finishes; the coordinator reads it after the barrier.
type PartialResult struct {
	Index    int
	Interval Interval
	Sum      int64
	State    WorkerState
}

// ReductionResult is the combined outcome of a reduction.
type ReductionResult struct {
	Interval    Interval
	WorkerCount int
	// Algorithm is the Name of the Summer that computed the partial sums.
	Algorithm string
	Sum       int64
	// Duration spans from just before the workers are launched to just
	// after the partial sums are combined.
	Duration time.Duration
	Partials []PartialResult
}
