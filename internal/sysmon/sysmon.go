// Package sysmon provides system-wide CPU and memory usage sampling.
package sysmon

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	Load1      float64 // 1-minute load average, 0 when unsupported
	LogicalCPU int
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample(ctx context.Context) Stats {
	s := Stats{LogicalCPU: runtime.NumCPU()}
	cpuPcts, err := cpu.PercentWithContext(ctx, 0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemoryWithContext(ctx)
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	avg, err := load.AvgWithContext(ctx)
	if err == nil && avg != nil {
		s.Load1 = avg.Load1
	}
	return s
}

// CPUModel returns the model name of the first CPU, or "unknown".
// Calibration profiles are keyed on it.
func CPUModel(ctx context.Context) string {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil || len(infos) == 0 || infos[0].ModelName == "" {
		return "unknown"
	}
	return infos[0].ModelName
}
