package config

import "runtime"

// Worker count resolution chain (highest priority first):
//   1. CLI flag (--workers)
//   2. Environment variable (RANGESUM_WORKERS) or config file
//   3. Cached calibration profile (~/.rangesum_calibration.json)
//   4. Hardware estimation (this file)

// MaxAutoWorkers caps the automatic estimate. Beyond this point scheduling
// overhead dominates for a CPU-bound loop.
const MaxAutoWorkers = 64

// ApplyAdaptiveWorkers replaces an automatic (zero) worker count with the
// hardware estimate. Explicit values are preserved.
func ApplyAdaptiveWorkers(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateOptimalWorkerCount()
	}
	return cfg
}

// EstimateOptimalWorkerCount returns one worker per logical CPU, capped at
// MaxAutoWorkers.
func EstimateOptimalWorkerCount() int {
	return clampWorkers(runtime.NumCPU())
}

func clampWorkers(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxAutoWorkers:
		return MaxAutoWorkers
	default:
		return n
	}
}
