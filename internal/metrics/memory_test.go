package metrics

import "testing"

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	snap := mc.Snapshot()

	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
	if snap.Goroutines < 1 {
		t.Error("at least the test goroutine should be counted")
	}
}

func TestCPUTime_Arithmetic(t *testing.T) {
	t.Parallel()

	before := CPUTime{User: 10, System: 5}
	after := CPUTime{User: 25, System: 9}
	delta := after.Sub(before)
	if delta.User != 15 || delta.System != 4 || delta.Total() != 19 {
		t.Errorf("unexpected delta %+v", delta)
	}
}
