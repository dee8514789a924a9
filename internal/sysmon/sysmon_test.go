package sysmon

import (
	"context"
	"runtime"
	"testing"
)

func TestSample_ReturnsValidRanges(t *testing.T) {
	s := Sample(context.Background())
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
	if s.Load1 < 0 {
		t.Errorf("Load1 should not be negative: %f", s.Load1)
	}
	if s.LogicalCPU != runtime.NumCPU() {
		t.Errorf("LogicalCPU = %d, want %d", s.LogicalCPU, runtime.NumCPU())
	}
}

func TestSample_MemPercentNonZero(t *testing.T) {
	s := Sample(context.Background())
	if s.MemPercent == 0 {
		t.Error("expected non-zero MemPercent on a running system")
	}
}

func TestCPUModel_NotEmpty(t *testing.T) {
	if CPUModel(context.Background()) == "" {
		t.Error("CPUModel should never return an empty string")
	}
}
