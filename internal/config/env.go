// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/rangesum/internal/errors"
)

// isFlagSet checks if a flag was explicitly set on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// Aliased flags may be given in either the short or the long form.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride maps an env key (without the RANGESUM_ prefix) to the CLI
// flag name(s) it shadows and a function that applies the value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string) error
}

var envOverrides = []envOverride{
	{"START", []string{"start"}, func(c *AppConfig, v string) (err error) {
		c.Start, err = strconv.ParseInt(v, 10, 64)
		return err
	}},
	{"END", []string{"end"}, func(c *AppConfig, v string) (err error) {
		c.End, err = strconv.ParseInt(v, 10, 64)
		return err
	}},
	{"WORKERS", []string{"workers", "w"}, func(c *AppConfig, v string) (err error) {
		c.Workers, err = strconv.Atoi(v)
		return err
	}},
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) (err error) {
		c.Timeout, err = time.ParseDuration(v)
		return err
	}},

	{"ALGO", []string{"algo"}, setString(func(c *AppConfig) *string { return &c.Algo })},
	{"OUTPUT", []string{"output", "o"}, setString(func(c *AppConfig) *string { return &c.OutputFile })},
	{"FORMAT", []string{"format"}, setString(func(c *AppConfig) *string { return &c.Format })},
	{"METRICS_FILE", []string{"metrics-file"}, setString(func(c *AppConfig) *string { return &c.MetricsFile })},
	{"LOG_LEVEL", []string{"log-level"}, setString(func(c *AppConfig) *string { return &c.LogLevel })},
	{"CALIBRATION_PROFILE", []string{"calibration-profile"}, setString(func(c *AppConfig) *string { return &c.CalibrationProfile })},

	{"VERBOSE", []string{"v", "verbose"}, setBool(func(c *AppConfig) *bool { return &c.Verbose })},
	{"DETAILS", []string{"d", "details"}, setBool(func(c *AppConfig) *bool { return &c.Details })},
	{"QUIET", []string{"quiet", "q"}, setBool(func(c *AppConfig) *bool { return &c.Quiet })},
	{"NO_COLOR", []string{"no-color"}, setBool(func(c *AppConfig) *bool { return &c.NoColor })},
	{"TUI", []string{"tui"}, setBool(func(c *AppConfig) *bool { return &c.TUI })},
	{"CALIBRATE", []string{"calibrate"}, setBool(func(c *AppConfig) *bool { return &c.Calibrate })},
}

func setString(field func(*AppConfig) *string) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		*field(c) = v
		return nil
	}
}

func setBool(field func(*AppConfig) *bool) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		b, ok := parseBoolEnv(v)
		if !ok {
			return strconv.ErrSyntax
		}
		*field(c) = b
		return nil
	}
}

// parseBoolEnv accepts "true", "1", "yes" and "false", "0", "no"
// (case-insensitive).
func parseBoolEnv(val string) (value, ok bool) {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

// applyEnvOverrides applies environment variable values for every flag that
// was not explicitly set on the command line. A malformed value is a
// configuration error rather than being silently ignored.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) error {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		val := os.Getenv(EnvPrefix + o.envKey)
		if val == "" {
			continue
		}
		if err := o.apply(config, val); err != nil {
			return apperrors.NewConfigError("invalid value %q for %s%s", val, EnvPrefix, o.envKey)
		}
	}
	return nil
}
