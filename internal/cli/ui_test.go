package cli

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"
	"github.com/golang/mock/gomock"

	"github.com/agbru/rangesum/internal/cli/mocks"
	"github.com/agbru/rangesum/internal/progress"
	"github.com/agbru/rangesum/internal/reducer"
	"github.com/agbru/rangesum/internal/ui"
)

func sampleResult(t *testing.T) reducer.ReductionResult {
	t.Helper()
	res, err := reducer.Reduce(1, 101, 4)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	return res
}

func TestDisplayResult(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	defer ui.SetCurrentTheme(ui.DarkTheme)
	res := sampleResult(t)
	res.Duration = 2 * time.Millisecond

	tests := []struct {
		name     string
		verbose  bool
		details  bool
		contains []string
		excludes []string
	}{
		{
			name:     "Default",
			contains: []string{"Sum of [1, 101) = 5,050", "Reduction time: 2ms with 4 workers"},
			excludes: []string{"Detailed result analysis", "Raw sum"},
		},
		{
			name:     "Verbose",
			verbose:  true,
			contains: []string{"Raw sum: 5050", "Duration: 2000000 ns", "Throughput: 50,000 integers/s"},
		},
		{
			name:     "Details",
			details:  true,
			contains: []string{"Detailed result analysis", "[76, 101)", "2,200", "completed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			DisplayResult(res, tt.verbose, tt.details, &buf)
			output := buf.String()
			for _, s := range tt.contains {
				if !strings.Contains(output, s) {
					t.Errorf("Expected output to contain %q, but got:\n%s", s, output)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(output, s) {
					t.Errorf("Expected output not to contain %q, but got:\n%s", s, output)
				}
			}
		})
	}
}

func TestDisplayQuietResult(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayQuietResult(&buf, -42)
	if buf.String() != "-42\n" {
		t.Errorf("quiet output = %q, want %q", buf.String(), "-42\n")
	}
}

func TestRealSpinner(t *testing.T) {
	t.Parallel()
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(io.Discard))
	rs := &realSpinner{s}

	// Just verify these methods don't panic
	rs.Start()
	rs.UpdateSuffix(" test")
	rs.Stop()
}

func TestDisplayProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockS := mocks.NewMockSpinner(ctrl)
	mockS.EXPECT().Start().Times(1)
	mockS.EXPECT().UpdateSuffix(gomock.Any()).MinTimes(2)
	mockS.EXPECT().Stop().Times(1)

	originalNewSpinner := newSpinner
	defer func() { newSpinner = originalNewSpinner }()
	newSpinner = func(...spinner.Option) Spinner { return mockS }

	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan progress.ProgressUpdate)

	go func() {
		progressChan <- progress.ProgressUpdate{WorkerIndex: 0, Value: 0.5}
		time.Sleep(10 * time.Millisecond)
		close(progressChan)
	}()

	DisplayProgress(&wg, progressChan, 1, io.Discard)
	wg.Wait()
}

func TestDisplayProgress_ZeroWorkers(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan progress.ProgressUpdate)
	close(progressChan)

	DisplayProgress(&wg, progressChan, 0, io.Discard)
	wg.Wait()
}
