// This file generates the candidate worker counts for calibration from the
// hardware characteristics.

package calibration

import (
	"runtime"
	"slices"
)

// GenerateWorkerCounts returns the worker counts to benchmark: every power
// of two up to twice the number of logical CPUs, plus the CPU count itself.
// A single-core machine still tries 2 workers since the loop is so cheap
// that scheduling noise can favor it.
func GenerateWorkerCounts() []int {
	return workerCountsFor(runtime.NumCPU())
}

func workerCountsFor(numCPU int) []int {
	numCPU = max(numCPU, 1)
	counts := []int{numCPU}
	for w := 1; w <= 2*numCPU; w *= 2 {
		counts = append(counts, w)
	}
	slices.Sort(counts)
	return slices.Compact(counts)
}
