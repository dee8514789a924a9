package reducer

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// sequentialSum is the trusted reference: a plain loop over [start, end).
func sequentialSum(start, end int64) int64 {
	var sum int64
	for i := start; i < end; i++ {
		sum += i
	}
	return sum
}
