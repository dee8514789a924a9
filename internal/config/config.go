// Package config defines the application configuration, its command-line
// flags and the override chain that resolves the final values.
package config

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/rangesum/internal/errors"
)

const (
	// EnvPrefix is the prefix of every environment variable override.
	EnvPrefix = "RANGESUM_"

	// DefaultStart and DefaultEnd reproduce the range of the historical
	// two-thread demo: [1, MaxInt32).
	DefaultStart int64 = 1
	DefaultEnd   int64 = math.MaxInt32

	// DefaultTimeout bounds a whole run.
	DefaultTimeout = 5 * time.Minute

	// DefaultAlgo is the summation strategy used when --algo is not given.
	DefaultAlgo = "loop"

	// DefaultCalibrationFile is the profile name under the user's home.
	DefaultCalibrationFile = ".rangesum_calibration.json"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Start is the inclusive lower bound of the range.
	Start int64
	// End is the exclusive upper bound of the range.
	End int64
	// Workers is the number of concurrent workers, 0 means automatic.
	Workers int
	// Algo selects the summation strategy, or "all" to compare them.
	Algo string
	// Timeout bounds the whole run.
	Timeout time.Duration

	Verbose bool
	Details bool
	Quiet   bool

	// OutputFile receives a report of the run when set.
	OutputFile string
	// Format is the report format: text, json or xml.
	Format string
	// MetricsFile receives the Prometheus metrics in text exposition format.
	MetricsFile string
	// ConfigFile is an optional YAML file with default values.
	ConfigFile string
	// LogLevel is the zerolog level name.
	LogLevel string

	NoColor bool
	TUI     bool

	Calibrate          bool
	CalibrationProfile string
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Start > c.End {
		return apperrors.NewConfigError("start (%d) must not be greater than end (%d)", c.Start, c.End)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("workers must be 0 (auto) or positive, got %d", c.Workers)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if c.Algo != "all" && !slices.Contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unknown algorithm %q (available: all, %s)", c.Algo, strings.Join(availableAlgos, ", "))
	}
	switch c.Format {
	case FormatText, FormatJSON, FormatXML:
	default:
		return apperrors.NewConfigError("unknown output format %q (available: text, json, xml)", c.Format)
	}
	if c.Quiet && c.TUI {
		return apperrors.NewConfigError("--quiet and --tui are mutually exclusive")
	}
	return nil
}

// DefaultCalibrationProfilePath returns ~/.rangesum_calibration.json, or the
// bare file name when the home directory is unknown.
func DefaultCalibrationProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultCalibrationFile
	}
	return filepath.Join(home, DefaultCalibrationFile)
}

// ParseConfig parses the command-line arguments and resolves the
// configuration: flags > environment > config file > defaults.
// Calibration profiles and hardware estimates are applied later by the caller
// because they only fill in values left on automatic.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	fs.Int64Var(&config.Start, "start", DefaultStart, "Inclusive lower bound of the range.")
	fs.Int64Var(&config.End, "end", DefaultEnd, "Exclusive upper bound of the range.")
	fs.IntVar(&config.Workers, "workers", 0, "Number of concurrent workers (0 = auto).")
	fs.IntVar(&config.Workers, "w", 0, "Shorthand for --workers.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, fmt.Sprintf("Summation algorithm: all, %s.", strings.Join(availableAlgos, ", ")))
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum duration of the run.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Verbose output.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&config.Details, "details", false, "Show per-worker partial sums and system details.")
	fs.BoolVar(&config.Details, "d", false, "Shorthand for --details.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the sum.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")
	fs.StringVar(&config.OutputFile, "output", "", "Write a report of the run to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Shorthand for --output.")
	fs.StringVar(&config.Format, "format", FormatText, "Report format: text, json, xml.")
	fs.StringVar(&config.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file.")
	fs.StringVar(&config.ConfigFile, "config", "", "YAML configuration file.")
	fs.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&config.TUI, "tui", false, "Run the interactive dashboard.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Measure the best worker count and save a profile.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", DefaultCalibrationProfilePath(), "Path of the calibration profile.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if !isFlagSet(fs, "config") {
		if v := os.Getenv(EnvPrefix + "CONFIG"); v != "" {
			config.ConfigFile = v
		}
	}
	if config.ConfigFile != "" {
		fileCfg, err := LoadFile(config.ConfigFile)
		if err != nil {
			return AppConfig{}, err
		}
		applyFileConfig(&config, fileCfg, fs)
	}
	if err := applyEnvOverrides(&config, fs); err != nil {
		return AppConfig{}, err
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		config.NoColor = true
	}

	if err := config.Validate(availableAlgos); err != nil {
		return AppConfig{}, err
	}
	return config, nil
}
