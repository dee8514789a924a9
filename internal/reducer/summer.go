package reducer

import (
	"context"

	"github.com/agbru/rangesum/internal/progress"
)

// DefaultChunkSize is the number of loop iterations a LoopSummer performs
// between two cancellation checks and progress reports.
const DefaultChunkSize = 1 << 20

// Summer computes the sum of the integers of one interval. Implementations
// must be safe for concurrent use by multiple workers.
type Summer interface {
	// Name returns a human-readable description of the strategy.
	Name() string
	// Sum returns the sum of every integer in iv, modulo 2^64 (the caller
	// guarantees that the total fits). report receives the completed
	// fraction of iv and is never nil.
	Sum(ctx context.Context, iv Interval, report progress.ProgressCallback) (int64, error)
}

// LoopSummer adds the integers of the interval one by one.
type LoopSummer struct {
	// ChunkSize overrides DefaultChunkSize when positive.
	ChunkSize uint64
}

// Name implements Summer.
func (*LoopSummer) Name() string { return "Accumulating Loop" }

// Sum implements Summer.
func (s *LoopSummer) Sum(ctx context.Context, iv Interval, report progress.ProgressCallback) (int64, error) {
	chunk := s.ChunkSize
	if chunk == 0 {
		chunk = DefaultChunkSize
	}

	total := iv.Len()
	var sum int64
	var done uint64
	v := iv.Start
	for done < total {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n := min(chunk, total-done)
		// Count iterations instead of comparing v to End so that End may be
		// math.MaxInt64; v wraps only after the last addition.
		for k := uint64(0); k < n; k++ {
			sum += v
			v++
		}
		done += n
		report(float64(done) / float64(total))
	}
	if iv.IsEmpty() {
		report(1)
	}
	return sum, nil
}

// FormulaSummer evaluates the arithmetic series n*start + n(n-1)/2 in
// wrapping uint64 arithmetic, which yields the same bits as LoopSummer.
type FormulaSummer struct{}

// Name implements Summer.
func (FormulaSummer) Name() string { return "Closed Form" }

// Sum implements Summer.
func (FormulaSummer) Sum(ctx context.Context, iv Interval, report progress.ProgressCallback) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	sum := seriesSum(iv)
	report(1)
	return sum, nil
}

func seriesSum(iv Interval) int64 {
	if iv.IsEmpty() {
		return 0
	}
	n := iv.Len()
	// Halve whichever of n, n-1 is even before multiplying.
	a, b := n, n-1
	if a%2 == 0 {
		a /= 2
	} else {
		b /= 2
	}
	return int64(n*uint64(iv.Start) + a*b)
}
