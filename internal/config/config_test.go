package config

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	apperrors "github.com/agbru/rangesum/internal/errors"
)

var testAlgos = []string{"formula", "loop"}

func parse(t *testing.T, args ...string) (AppConfig, error) {
	t.Helper()
	var stderr bytes.Buffer
	return ParseConfig("rangesum", args, &stderr, testAlgos)
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parse(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Start != DefaultStart || cfg.End != DefaultEnd {
		t.Errorf("range = [%d, %d), want [%d, %d)", cfg.Start, cfg.End, DefaultStart, DefaultEnd)
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, want 0 (auto)", cfg.Workers)
	}
	if cfg.Algo != DefaultAlgo || cfg.Format != FormatText || cfg.Timeout != DefaultTimeout {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestParseConfig_Flags(t *testing.T) {
	cfg, err := parse(t, "--start", "-10", "--end", "10", "-w", "3", "--algo", "all", "--format", "json", "-d", "-o", "out.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Start != -10 || cfg.End != 10 || cfg.Workers != 3 {
		t.Errorf("got start=%d end=%d workers=%d", cfg.Start, cfg.End, cfg.Workers)
	}
	if cfg.Algo != "all" || cfg.Format != FormatJSON || !cfg.Details || cfg.OutputFile != "out.json" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestParseConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"start after end", []string{"--start", "5", "--end", "3"}},
		{"negative workers", []string{"--workers", "-1"}},
		{"unknown algorithm", []string{"--algo", "magic"}},
		{"unknown format", []string{"--format", "yaml"}},
		{"zero timeout", []string{"--timeout", "0s"}},
		{"quiet with tui", []string{"--quiet", "--tui"}},
		{"positional arguments", []string{"extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.args...)
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
		})
	}
}

func TestParseConfig_Help(t *testing.T) {
	_, err := parse(t, "--help")
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RANGESUM_START", "100")
	t.Setenv("RANGESUM_END", "200")
	t.Setenv("RANGESUM_WORKERS", "4")
	t.Setenv("RANGESUM_TIMEOUT", "30s")
	t.Setenv("RANGESUM_DETAILS", "yes")

	cfg, err := parse(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Start != 100 || cfg.End != 200 || cfg.Workers != 4 || cfg.Timeout != 30*time.Second || !cfg.Details {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestParseConfig_FlagsBeatEnv(t *testing.T) {
	t.Setenv("RANGESUM_WORKERS", "4")
	t.Setenv("RANGESUM_ALGO", "formula")

	cfg, err := parse(t, "-w", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, the short flag should win over the environment", cfg.Workers)
	}
	if cfg.Algo != "formula" {
		t.Errorf("Algo = %q, want formula from the environment", cfg.Algo)
	}
}

func TestParseConfig_InvalidEnv(t *testing.T) {
	t.Setenv("RANGESUM_WORKERS", "many")

	_, err := parse(t)
	var cfgErr apperrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestParseConfig_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rangesum.yaml")
	content := "start: 0\nend: 1000\nworkers: 8\nalgo: formula\ntimeout: 1m\nformat: xml\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RANGESUM_WORKERS", "6")

	cfg, err := parse(t, "--config", path, "--end", "500")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Start != 0 {
		t.Errorf("Start = %d, want 0 from file", cfg.Start)
	}
	if cfg.End != 500 {
		t.Errorf("End = %d, the flag should win over the file", cfg.End)
	}
	if cfg.Workers != 6 {
		t.Errorf("Workers = %d, the environment should win over the file", cfg.Workers)
	}
	if cfg.Algo != "formula" || cfg.Timeout != time.Minute || cfg.Format != FormatXML {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"empty", "", false},
		{"valid", "start: 3\nend: 9\n", false},
		{"unknown key", "stop: 3\n", true},
		{"bad timeout", "timeout: soon\n", true},
		{"bad type", "workers: lots\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseFile([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFile() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestApplyAdaptiveWorkers(t *testing.T) {
	t.Parallel()

	auto := ApplyAdaptiveWorkers(AppConfig{})
	if auto.Workers != EstimateOptimalWorkerCount() {
		t.Errorf("auto workers = %d, want %d", auto.Workers, EstimateOptimalWorkerCount())
	}
	explicit := ApplyAdaptiveWorkers(AppConfig{Workers: 3})
	if explicit.Workers != 3 {
		t.Errorf("explicit workers changed to %d", explicit.Workers)
	}
}

func TestEstimateOptimalWorkerCount(t *testing.T) {
	t.Parallel()

	got := EstimateOptimalWorkerCount()
	want := min(runtime.NumCPU(), MaxAutoWorkers)
	if got != want {
		t.Errorf("EstimateOptimalWorkerCount() = %d, want %d", got, want)
	}
	for in, want := range map[int]int{-1: 1, 0: 1, 1: 1, 12: 12, 1000: MaxAutoWorkers} {
		if got := clampWorkers(in); got != want {
			t.Errorf("clampWorkers(%d) = %d, want %d", in, got, want)
		}
	}
}
