// Package reducer implements a fork-join range reduction: a half-open
// integer interval is split into contiguous sub-intervals, each summed by its
// own goroutine, and the partial sums are combined once every worker has
// finished.
//
// The result of a parallel reduction is always identical to a sequential
// loop over the same interval, independently of the number of workers and of
// the order in which they complete.
package reducer
