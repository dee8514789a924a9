package calibration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/agbru/rangesum/internal/config"
	"github.com/agbru/rangesum/internal/sysmon"
)

const (
	// CurrentProfileVersion is bumped whenever the profile layout changes.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is the profile's base name in the home directory.
	DefaultProfileFileName = config.DefaultCalibrationFile

	// ProfileMaxAge is how long a profile is trusted.
	ProfileMaxAge = 30 * 24 * time.Hour
)

// CalibrationProfile stores the measured optimal worker count together with
// the hardware it was measured on.
type CalibrationProfile struct {
	ProfileVersion int       `json:"profile_version"`
	CalibratedAt   time.Time `json:"calibrated_at"`

	NumCPU    int    `json:"num_cpu"`
	GOARCH    string `json:"goarch"`
	GOOS      string `json:"goos"`
	GoVersion string `json:"go_version"`
	WordSize  int    `json:"word_size"`
	CPUModel  string `json:"cpu_model"`

	OptimalWorkers int `json:"optimal_workers"`

	CalibrationStart int64  `json:"calibration_start"`
	CalibrationEnd   int64  `json:"calibration_end"`
	CalibrationTime  string `json:"calibration_time"`
}

// NewProfile creates a profile describing the current machine.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		ProfileVersion: CurrentProfileVersion,
		CalibratedAt:   time.Now(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
		CPUModel:       sysmon.CPUModel(context.Background()),
	}
}

// IsValid reports whether p was measured on hardware matching the current
// machine with the current profile layout.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.WordSize == 32<<(^uint(0)>>63) &&
		p.OptimalWorkers > 0
}

// IsStale reports whether p is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

func (p *CalibrationProfile) String() string {
	return fmt.Sprintf("calibration profile v%d (%s, %d CPUs, %s/%s): optimal workers=%d, measured %s",
		p.ProfileVersion, p.CPUModel, p.NumCPU, p.GOOS, p.GOARCH,
		p.OptimalWorkers, p.CalibratedAt.Format(time.RFC3339))
}

// SaveProfile writes p as indented JSON. The file is written to a temporary
// name first and renamed, so a concurrent reader never sees a partial file.
func (p *CalibrationProfile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding calibration profile: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating profile directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing calibration profile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing calibration profile: %w", err)
	}
	return nil
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding calibration profile %s: %w", path, err)
	}
	return &p, nil
}

// LoadOrCreateProfile loads the profile at path, or returns a fresh one.
// loaded is true only when the file existed and decoded.
func LoadOrCreateProfile(path string) (profile *CalibrationProfile, loaded bool) {
	p, err := loadProfile(path)
	if err != nil {
		return NewProfile(), false
	}
	return p, true
}

// GetDefaultProfilePath returns ~/.rangesum_calibration.json.
func GetDefaultProfilePath() string {
	return config.DefaultCalibrationProfilePath()
}

// LoadCachedCalibration applies the profile at path to cfg when the worker
// count is still automatic and the profile matches this machine.
func LoadCachedCalibration(cfg config.AppConfig, path string) (config.AppConfig, bool) {
	if cfg.Workers != 0 || path == "" {
		return cfg, false
	}
	p, err := loadProfile(path)
	if err != nil || !p.IsValid() || p.IsStale(ProfileMaxAge) {
		return cfg, false
	}
	cfg.Workers = p.OptimalWorkers
	return cfg, true
}
