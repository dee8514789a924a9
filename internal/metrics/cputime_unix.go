//go:build unix

package metrics

import (
	"time"

	"golang.org/x/sys/unix"
)

// ProcessCPUTime reads the process rusage. ok is false when the platform
// refuses the call.
func ProcessCPUTime() (CPUTime, bool) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return CPUTime{}, false
	}
	return CPUTime{
		User:   time.Duration(ru.Utime.Nano()),
		System: time.Duration(ru.Stime.Nano()),
	}, true
}
