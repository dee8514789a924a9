package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/rangesum/internal/errors"
)

// FileConfig is the YAML configuration file layout. Pointer fields
// distinguish an absent key from a zero value.
type FileConfig struct {
	Start              *int64  `yaml:"start"`
	End                *int64  `yaml:"end"`
	Workers            *int    `yaml:"workers"`
	Algo               *string `yaml:"algo"`
	Timeout            *string `yaml:"timeout"`
	Details            *bool   `yaml:"details"`
	Format             *string `yaml:"format"`
	Output             *string `yaml:"output"`
	MetricsFile        *string `yaml:"metrics_file"`
	LogLevel           *string `yaml:"log_level"`
	NoColor            *bool   `yaml:"no_color"`
	CalibrationProfile *string `yaml:"calibration_profile"`

	timeout time.Duration
}

// LoadFile reads and decodes a YAML configuration file. Unknown keys are
// rejected so that typos surface as errors.
func LoadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, apperrors.NewConfigError("reading config file: %v", err)
	}
	return ParseFile(data)
}

// ParseFile decodes YAML configuration bytes.
func ParseFile(data []byte) (FileConfig, error) {
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, apperrors.NewConfigError("parsing config file: %v", err)
	}
	if fc.Timeout != nil {
		d, err := time.ParseDuration(*fc.Timeout)
		if err != nil {
			return FileConfig{}, apperrors.NewConfigError("parsing config file: invalid timeout %q", *fc.Timeout)
		}
		fc.timeout = d
	}
	return fc, nil
}

// applyFileConfig copies the values present in the file into config for
// every flag that was not set on the command line.
func applyFileConfig(config *AppConfig, fc FileConfig, fs *flag.FlagSet) {
	set := func(names ...string) bool { return !isFlagSetAny(fs, names...) }

	if fc.Start != nil && set("start") {
		config.Start = *fc.Start
	}
	if fc.End != nil && set("end") {
		config.End = *fc.End
	}
	if fc.Workers != nil && set("workers", "w") {
		config.Workers = *fc.Workers
	}
	if fc.Algo != nil && set("algo") {
		config.Algo = *fc.Algo
	}
	if fc.Timeout != nil && set("timeout") {
		config.Timeout = fc.timeout
	}
	if fc.Details != nil && set("details", "d") {
		config.Details = *fc.Details
	}
	if fc.Format != nil && set("format") {
		config.Format = *fc.Format
	}
	if fc.Output != nil && set("output", "o") {
		config.OutputFile = *fc.Output
	}
	if fc.MetricsFile != nil && set("metrics-file") {
		config.MetricsFile = *fc.MetricsFile
	}
	if fc.LogLevel != nil && set("log-level") {
		config.LogLevel = *fc.LogLevel
	}
	if fc.NoColor != nil && set("no-color") {
		config.NoColor = *fc.NoColor
	}
	if fc.CalibrationProfile != nil && set("calibration-profile") {
		config.CalibrationProfile = *fc.CalibrationProfile
	}
}

// String renders the keys present in the file, for verbose logs.
func (fc FileConfig) String() string {
	var buf bytes.Buffer
	if fc.Start != nil {
		fmt.Fprintf(&buf, "start=%d ", *fc.Start)
	}
	if fc.End != nil {
		fmt.Fprintf(&buf, "end=%d ", *fc.End)
	}
	if fc.Workers != nil {
		fmt.Fprintf(&buf, "workers=%d ", *fc.Workers)
	}
	if fc.Algo != nil {
		fmt.Fprintf(&buf, "algo=%s ", *fc.Algo)
	}
	return string(bytes.TrimSpace(buf.Bytes()))
}
