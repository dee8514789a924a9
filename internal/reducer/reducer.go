package reducer

import (
	"context"
	"math"
	"math/big"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/rangesum/internal/logging"
	"github.com/agbru/rangesum/internal/progress"
)

const tracerName = "github.com/agbru/rangesum/internal/reducer"

// Reducer runs fork-join reductions with a configurable summation strategy.
// A Reducer holds no per-reduction state and may be shared.
type Reducer struct {
	summer   Summer
	logger   logging.Logger
	progress chan<- progress.ProgressUpdate
	offset   int
	tracer   trace.Tracer
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithSummer selects the per-interval summation strategy. The default is
// a LoopSummer.
func WithSummer(s Summer) Option {
	return func(r *Reducer) { r.summer = s }
}

// WithLogger attaches a logger for worker lifecycle events.
func WithLogger(l logging.Logger) Option {
	return func(r *Reducer) { r.logger = l }
}

// WithProgress makes every worker publish its progress on ch. Sends are
// non-blocking; the channel is never closed by the Reducer.
func WithProgress(ch chan<- progress.ProgressUpdate) Option {
	return func(r *Reducer) { r.progress = ch }
}

// WithProgressOffset shifts the worker indices published by WithProgress,
// so that several reductions can share one channel.
func WithProgressOffset(offset int) Option {
	return func(r *Reducer) { r.offset = offset }
}

// New builds a Reducer.
func New(opts ...Option) *Reducer {
	r := &Reducer{}
	for _, opt := range opts {
		opt(r)
	}
	if r.summer == nil {
		r.summer = &LoopSummer{}
	}
	if r.logger == nil {
		r.logger = logging.NewNopLogger()
	}
	r.tracer = otel.Tracer(tracerName)
	return r
}

// Summer returns the strategy used by r.
func (r *Reducer) Summer() Summer { return r.summer }

// Reduce sums [start, end) with workerCount workers using a default
// Reducer and a background context.
func Reduce(start, end int64, workerCount int) (ReductionResult, error) {
	return New().Reduce(context.Background(), start, end, workerCount)
}

// Reduce sums the integers of [start, end) using workerCount concurrent
// workers.
//
// Invalid input is rejected before any goroutine starts. If a worker fails
// (in practice only through cancellation of ctx) its siblings are canceled
// and the first failure is returned as a WorkerError.
func (r *Reducer) Reduce(ctx context.Context, start, end int64, workerCount int) (ReductionResult, error) {
	iv, err := NewInterval(start, end)
	if err != nil {
		return ReductionResult{}, err
	}
	parts, err := Partition(iv, workerCount)
	if err != nil {
		return ReductionResult{}, err
	}
	if !sumFitsInt64(iv) {
		return ReductionResult{}, OverflowError{Interval: iv}
	}

	ctx, span := r.tracer.Start(ctx, "reducer.Reduce", trace.WithAttributes(
		attribute.Int64("interval.start", iv.Start),
		attribute.Int64("interval.end", iv.End),
		attribute.Int("workers", workerCount),
		attribute.String("algorithm", r.summer.Name()),
	))
	defer span.End()

	partials := make([]PartialResult, workerCount)
	for i, p := range parts {
		partials[i] = PartialResult{Index: i, Interval: p, State: StateCreated}
	}

	r.logger.Debug("reduction starting",
		logging.String("interval", iv.String()),
		logging.Int("workers", workerCount),
		logging.String("algorithm", r.summer.Name()))

	startTime := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i := range partials {
		slot := &partials[i]
		g.Go(func() error {
			return r.runWorker(gctx, slot)
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("reduction failed", err, logging.String("interval", iv.String()))
		return ReductionResult{}, err
	}

	var total int64
	for _, p := range partials {
		total += p.Sum
	}
	duration := time.Since(startTime)

	span.SetAttributes(attribute.Int64("sum", total))
	r.logger.Debug("reduction complete",
		logging.Int64("sum", total),
		logging.Duration("duration", duration))

	return ReductionResult{
		Interval:    iv,
		WorkerCount: workerCount,
		Algorithm:   r.summer.Name(),
		Sum:         total,
		Duration:    duration,
		Partials:    partials,
	}, nil
}

// runWorker computes one partial sum. slot is exclusively owned by this
// goroutine until it returns.
func (r *Reducer) runWorker(ctx context.Context, slot *PartialResult) error {
	slot.State = StateRunning
	sum, err := r.summer.Sum(ctx, slot.Interval, progress.ChannelCallback(r.progress, r.offset+slot.Index))
	if err != nil {
		slot.State = StateFailed
		return WorkerError{Index: slot.Index, Interval: slot.Interval, Cause: err}
	}
	slot.Sum = sum
	slot.State = StateCompleted
	r.logger.Debug("worker completed",
		logging.Int("worker", slot.Index),
		logging.String("interval", slot.Interval.String()),
		logging.Int64("partial", sum))
	return nil
}

var (
	minInt64 = big.NewInt(math.MinInt64)
	maxInt64 = big.NewInt(math.MaxInt64)
)

// sumFitsInt64 reports whether the exact sum of iv is representable as an
// int64. Signed addition wraps in Go, so partial sums that overflow on their
// own still combine to the exact total whenever this holds.
func sumFitsInt64(iv Interval) bool {
	total := ExactSum(iv)
	return total.Cmp(minInt64) >= 0 && total.Cmp(maxInt64) <= 0
}

// ExactSum returns the sum of iv as an arbitrary-precision integer.
func ExactSum(iv Interval) *big.Int {
	n := new(big.Int).SetUint64(iv.Len())
	if n.Sign() == 0 {
		return new(big.Int)
	}
	// n * (start + end - 1) / 2; the product is always even.
	s := new(big.Int).Add(big.NewInt(iv.Start), big.NewInt(iv.End))
	s.Sub(s, big.NewInt(1))
	s.Mul(s, n)
	return s.Rsh(s, 1)
}
