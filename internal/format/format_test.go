package format

import (
	"strings"
	"testing"
	"time"
)

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{500 * time.Nanosecond, "0µs"},
		{10 * time.Microsecond, "10µs"},
		{10 * time.Millisecond, "10ms"},
		{2 * time.Second, "2s"},
	}
	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.d); got != tt.expected {
			t.Errorf("FormatExecutionDuration(%v) = %s; want %s", tt.d, got, tt.expected)
		}
	}
}

func TestFormatETA(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		eta      time.Duration
		expected string
	}{
		{"Zero duration", 0, "calculating..."},
		{"Negative duration", -time.Second, "calculating..."},
		{"Less than a second", 500 * time.Millisecond, "< 1s"},
		{"Multiple seconds", 45 * time.Second, "45s"},
		{"One minute", time.Minute, "1m"},
		{"Minutes and seconds", 2*time.Minute + 30*time.Second, "2m30s"},
		{"Hours and minutes", time.Hour + 15*time.Minute, "1h15m"},
		{"Hours only", 2 * time.Hour, "2h"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatETA(tc.eta); got != tc.expected {
				t.Errorf("FormatETA(%v) = %q, want %q", tc.eta, got, tc.expected)
			}
		})
	}
}

func TestFormatNumberString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"1", "1"},
		{"123", "123"},
		{"1234", "1,234"},
		{"123456", "123,456"},
		{"576460751766552576", "576,460,751,766,552,576"},
		{"-1234", "-1,234"},
		{"-123456", "-123,456"},
	}
	for _, tt := range tests {
		if got := FormatNumberString(tt.input); got != tt.expected {
			t.Errorf("FormatNumberString(%q) = %q; want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInt64(t *testing.T) {
	t.Parallel()
	if got := FormatInt64(-9223372036854775808); got != "-9,223,372,036,854,775,808" {
		t.Errorf("FormatInt64(MinInt64) = %q", got)
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProgressState(t *testing.T) {
	t.Parallel()
	ps := NewProgressState(2)
	if avg := ps.CalculateAverage(); avg != 0 {
		t.Errorf("initial average = %f, want 0", avg)
	}
	ps.Update(0, 0.5)
	ps.Update(1, 1.0)
	if avg := ps.CalculateAverage(); avg != 0.75 {
		t.Errorf("average = %f, want 0.75", avg)
	}

	ps.Update(0, 1.5)
	ps.Update(1, -0.5)
	if ps.Progress(0) != 1 || ps.Progress(1) != 0 {
		t.Errorf("values should be clamped, got %f and %f", ps.Progress(0), ps.Progress(1))
	}

	ps.Update(7, 0.5) // ignored
	if NewProgressState(0).CalculateAverage() != 0 {
		t.Error("zero workers should average to 0")
	}
}

func TestProgressWithETA(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(2)
	if p.GetETA() != 0 {
		t.Errorf("initial ETA = %v, want 0", p.GetETA())
	}

	progress, eta := p.UpdateWithETA(0, 0.25)
	if progress != 0.125 {
		t.Errorf("progress = %f, want 0.125", progress)
	}
	if eta < 0 {
		t.Errorf("ETA should not be negative, got %v", eta)
	}

	p.Update(1, 0.25)
	p.progressRate = 0.1
	// 75% remaining at 10%/s.
	if got := p.GetETA(); got < 7*time.Second || got > 8*time.Second {
		t.Errorf("ETA = %v, want about 7.5s", got)
	}

	p.progressRate = 1e-9
	if got := p.GetETA(); got > maxETA {
		t.Errorf("ETA = %v, should be capped at %v", got, maxETA)
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		progress float64
		expected string
	}{
		{0.0, "░░░░░░░░░░"},
		{0.5, "█████░░░░░"},
		{1.2, "██████████"},
		{-0.1, "░░░░░░░░░░"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.progress, 10); got != tt.expected {
			t.Errorf("ProgressBar(%f, 10) = %s; want %s", tt.progress, got, tt.expected)
		}
	}
}

func TestFormatProgressBarWithETA(t *testing.T) {
	t.Parallel()
	got := FormatProgressBarWithETA(0.5, 30*time.Second, 20)
	for _, want := range []string{"[", "]", "50.00%", "ETA: 30s"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatProgressBarWithETA() = %q, should contain %q", got, want)
		}
	}
}
