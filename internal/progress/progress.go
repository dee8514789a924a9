// Package progress defines the progress types shared by the reducer workers
// and the presentation layers (CLI spinner, TUI dashboard).
package progress

// ProgressUpdate is a single progress report from one reducer worker.
type ProgressUpdate struct {
	// WorkerIndex identifies the worker that sent the update.
	WorkerIndex int
	// Value is the completed fraction of the worker's interval (0.0 to 1.0).
	Value float64
}

// ProgressCallback receives the completed fraction of a unit of work.
type ProgressCallback func(progress float64)

// NoOp is a ProgressCallback that discards every report.
func NoOp(float64) {}

// ChannelCallback returns a ProgressCallback that forwards reports to ch,
// tagged with the given worker index. Intermediate reports never block:
// when the channel is full they are dropped, since a later one supersedes
// them. The completion report (v >= 1) is always delivered, so the consumer
// must drain ch until it is closed. A nil channel yields NoOp.
func ChannelCallback(ch chan<- ProgressUpdate, workerIndex int) ProgressCallback {
	if ch == nil {
		return NoOp
	}
	return func(v float64) {
		update := ProgressUpdate{WorkerIndex: workerIndex, Value: clamp(v)}
		if update.Value >= 1 {
			ch <- update
			return
		}
		select {
		case ch <- update:
		default:
		}
	}
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
