package orchestration

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/agbru/rangesum/internal/progress"
	"github.com/agbru/rangesum/internal/reducer"
)

// behaviorSummer simulates summer behaviors for deadlock testing.
type behaviorSummer struct {
	behavior string // "instant", "slow", "error", "progress_flood"
	delay    time.Duration
}

func (b *behaviorSummer) Name() string { return b.behavior }

func (b *behaviorSummer) Sum(ctx context.Context, iv reducer.Interval, report progress.ProgressCallback) (int64, error) {
	switch b.behavior {
	case "slow":
		for i := range 100 {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			default:
			}
			report(float64(i) / 100)
			time.Sleep(b.delay)
		}
	case "error":
		return 0, fmt.Errorf("simulated error")
	case "progress_flood":
		for i := range 10000 {
			report(float64(i) / 10000)
		}
	}
	return (&reducer.LoopSummer{}).Sum(ctx, iv, report)
}

func candidatesFor(behaviors ...*behaviorSummer) []Candidate {
	out := make([]Candidate, len(behaviors))
	for i, b := range behaviors {
		out[i] = Candidate{Key: fmt.Sprintf("%s-%d", b.behavior, i), Summer: b}
	}
	return out
}

// slowReporter drains the progress channel with a delay per update, so the
// channel fills up and workers have to drop updates.
type slowReporter struct{}

func (slowReporter) DisplayProgress(wg *sync.WaitGroup, ch <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range ch {
		time.Sleep(10 * time.Microsecond)
	}
}

// TestOrchestrationNoDeadlock_MixedBehaviors verifies that ExecuteReductions
// completes under various summer behavior combinations.
func TestOrchestrationNoDeadlock_MixedBehaviors(t *testing.T) {
	testCases := []struct {
		name       string
		candidates []Candidate
	}{
		{"all_instant", candidatesFor(&behaviorSummer{behavior: "instant"}, &behaviorSummer{behavior: "instant"}, &behaviorSummer{behavior: "instant"})},
		{"mixed_instant_and_slow", candidatesFor(&behaviorSummer{behavior: "instant"}, &behaviorSummer{behavior: "slow", delay: time.Millisecond})},
		{"mixed_with_errors", candidatesFor(&behaviorSummer{behavior: "instant"}, &behaviorSummer{behavior: "error"})},
		{"progress_flood", candidatesFor(&behaviorSummer{behavior: "progress_flood"}, &behaviorSummer{behavior: "progress_flood"})},
		{"single_summer", candidatesFor(&behaviorSummer{behavior: "instant"})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			done := make(chan struct{})
			go func() {
				defer close(done)
				ExecuteReductions(ctx, tc.candidates, ReductionRequest{Start: 0, End: 1000, Workers: 4}, slowReporter{}, io.Discard)
			}()

			select {
			case <-done:
			case <-time.After(10 * time.Second):
				t.Fatal("DEADLOCK: ExecuteReductions did not complete within timeout")
			}
		})
	}
}

// TestOrchestrationNoDeadlock_ContextCancellation verifies that cancelling
// the context during execution does not cause a deadlock.
func TestOrchestrationNoDeadlock_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	candidates := candidatesFor(
		&behaviorSummer{behavior: "slow", delay: 100 * time.Millisecond},
		&behaviorSummer{behavior: "slow", delay: 100 * time.Millisecond},
	)

	done := make(chan []ReductionOutcome)
	go func() {
		done <- ExecuteReductions(ctx, candidates, ReductionRequest{Start: 0, End: 100, Workers: 2}, NullProgressReporter{}, io.Discard)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case outcomes := <-done:
		for _, oc := range outcomes {
			if oc.Err == nil {
				t.Errorf("%s should have been canceled", oc.Key)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("DEADLOCK after context cancellation")
	}
}
