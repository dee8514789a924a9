package reducer

import "fmt"

// Interval is the half-open integer range [Start, End).
type Interval struct {
	Start int64
	End   int64
}

// NewInterval returns the interval [start, end), or an InvalidRangeError
// when start > end.
func NewInterval(start, end int64) (Interval, error) {
	if start > end {
		return Interval{}, InvalidRangeError{Start: start, End: end}
	}
	return Interval{Start: start, End: end}, nil
}

// Len returns the number of integers in the interval. The difference is
// taken in uint64 so that intervals spanning most of the int64 domain do not
// overflow.
func (iv Interval) Len() uint64 {
	return uint64(iv.End) - uint64(iv.Start)
}

// IsEmpty reports whether the interval contains no integers.
func (iv Interval) IsEmpty() bool { return iv.Start == iv.End }

// Contains reports whether v lies in [Start, End).
func (iv Interval) Contains(v int64) bool { return v >= iv.Start && v < iv.End }

func (iv Interval) String() string {
	return fmt.Sprintf("[%d, %d)", iv.Start, iv.End)
}

// Partition splits iv into exactly workerCount contiguous sub-intervals whose
// sizes differ by at most one. The first Len()%workerCount parts receive the
// extra element. When workerCount exceeds Len(), the trailing parts are
// empty. Concatenated in order, the parts reconstruct iv exactly.
func Partition(iv Interval, workerCount int) ([]Interval, error) {
	if workerCount < 1 {
		return nil, InvalidWorkerCountError{Count: workerCount}
	}
	if iv.Start > iv.End {
		return nil, InvalidRangeError{Start: iv.Start, End: iv.End}
	}

	quo, rem := divide(iv.Len(), uint64(workerCount))
	parts := make([]Interval, workerCount)
	offset := iv.Start
	for i := range parts {
		size := quo
		if uint64(i) < rem {
			size++
		}
		// Wrapping addition in uint64 keeps offsets exact near the int64 bounds.
		next := int64(uint64(offset) + size)
		parts[i] = Interval{Start: offset, End: next}
		offset = next
	}
	return parts, nil
}

func divide(a, b uint64) (uint64, uint64) {
	q := a / b
	return q, a - b*q
}
