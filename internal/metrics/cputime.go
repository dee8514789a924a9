package metrics

import "time"

// CPUTime is the CPU time consumed by the current process.
type CPUTime struct {
	User   time.Duration
	System time.Duration
}

// Total returns user plus system time.
func (c CPUTime) Total() time.Duration {
	return c.User + c.System
}

// Sub returns the CPU time elapsed between two readings.
func (c CPUTime) Sub(earlier CPUTime) CPUTime {
	return CPUTime{User: c.User - earlier.User, System: c.System - earlier.System}
}
