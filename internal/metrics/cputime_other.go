//go:build !unix

package metrics

// ProcessCPUTime is unavailable on this platform.
func ProcessCPUTime() (CPUTime, bool) {
	return CPUTime{}, false
}
