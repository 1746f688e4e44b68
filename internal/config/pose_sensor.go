package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical pose sensor defaults file.
const DefaultConfigPath = "config/pose_sensor.defaults.json"

// PoseSensorConfig is one configuration snapshot for the pose sensor
// filter. Snapshots are delivered whole; unset fields fall back to the
// Get* defaults, so partial snapshots are safe.
type PoseSensorConfig struct {
	// One-shot init trigger and the scale used when it fires.
	InitFilter   *bool    `json:"init_filter,omitempty"`
	InitialScale *float64 `json:"initial_scale,omitempty"`

	// Measurement noise, forwarded to the pose handler.
	NoisePosition *float64 `json:"noise_position,omitempty"`
	NoiseAttitude *float64 `json:"noise_attitude,omitempty"`

	// Process noise densities of the auxiliary states.
	NoiseQWV   *float64 `json:"noise_qwv,omitempty"`
	NoiseQCI   *float64 `json:"noise_qci,omitempty"`
	NoisePCI   *float64 `json:"noise_pci,omitempty"`
	NoiseScale *float64 `json:"noise_scale,omitempty"`

	// Freeze flags: frozen blocks stay in the state but are never corrected.
	FixedScale *bool `json:"fixed_scale,omitempty"`
	FixedCalib *bool `json:"fixed_calib,omitempty"`

	// Measurement delay in seconds.
	Delay *float64 `json:"delay,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }

// EmptyPoseSensorConfig returns a PoseSensorConfig with all fields nil.
func EmptyPoseSensorConfig() *PoseSensorConfig {
	return &PoseSensorConfig{}
}

// DefaultPoseSensorConfig returns a snapshot with every field set to its
// built-in default.
func DefaultPoseSensorConfig() *PoseSensorConfig {
	return &PoseSensorConfig{
		InitFilter:    ptrBool(false),
		InitialScale:  ptrFloat64(1.0),
		NoisePosition: ptrFloat64(0.01),
		NoiseAttitude: ptrFloat64(0.02),
		NoiseQWV:      ptrFloat64(0),
		NoiseQCI:      ptrFloat64(0),
		NoisePCI:      ptrFloat64(0),
		NoiseScale:    ptrFloat64(0),
		FixedScale:    ptrBool(false),
		FixedCalib:    ptrBool(false),
		Delay:         ptrFloat64(0.02),
	}
}

// LoadPoseSensorConfig loads a snapshot from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadPoseSensorConfig(path string) (*PoseSensorConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParsePoseSensorConfig(data)
}

// ParsePoseSensorConfig decodes and validates a JSON snapshot.
func ParsePoseSensorConfig(data []byte) (*PoseSensorConfig, error) {
	cfg := EmptyPoseSensorConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and common parents. Panics on failure; intended for tests.
func MustLoadDefaultConfig() *PoseSensorConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadPoseSensorConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configured values are in range. Freeze flags
// are not checked against each other.
func (c *PoseSensorConfig) Validate() error {
	if c.InitialScale != nil && !(*c.InitialScale > 0) {
		return fmt.Errorf("initial_scale must be positive, got %f", *c.InitialScale)
	}

	noises := []struct {
		name string
		v    *float64
	}{
		{"noise_position", c.NoisePosition},
		{"noise_attitude", c.NoiseAttitude},
		{"noise_qwv", c.NoiseQWV},
		{"noise_qci", c.NoiseQCI},
		{"noise_pci", c.NoisePCI},
		{"noise_scale", c.NoiseScale},
	}
	for _, n := range noises {
		if n.v != nil && *n.v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", n.name, *n.v)
		}
	}

	if c.Delay != nil && *c.Delay < 0 {
		return fmt.Errorf("delay must be non-negative, got %f", *c.Delay)
	}
	return nil
}

// Clone returns a deep copy of c.
func (c *PoseSensorConfig) Clone() *PoseSensorConfig {
	if c == nil {
		return nil
	}
	out := &PoseSensorConfig{}
	copyF := func(p *float64) *float64 {
		if p == nil {
			return nil
		}
		return ptrFloat64(*p)
	}
	copyB := func(p *bool) *bool {
		if p == nil {
			return nil
		}
		return ptrBool(*p)
	}
	out.InitFilter = copyB(c.InitFilter)
	out.InitialScale = copyF(c.InitialScale)
	out.NoisePosition = copyF(c.NoisePosition)
	out.NoiseAttitude = copyF(c.NoiseAttitude)
	out.NoiseQWV = copyF(c.NoiseQWV)
	out.NoiseQCI = copyF(c.NoiseQCI)
	out.NoisePCI = copyF(c.NoisePCI)
	out.NoiseScale = copyF(c.NoiseScale)
	out.FixedScale = copyB(c.FixedScale)
	out.FixedCalib = copyB(c.FixedCalib)
	out.Delay = copyF(c.Delay)
	return out
}

// GetInitFilter returns the init_filter trigger or false.
func (c *PoseSensorConfig) GetInitFilter() bool {
	if c.InitFilter == nil {
		return false
	}
	return *c.InitFilter
}

// GetInitialScale returns the initial_scale value or the default.
func (c *PoseSensorConfig) GetInitialScale() float64 {
	if c.InitialScale == nil {
		return 1.0
	}
	return *c.InitialScale
}

// GetNoisePosition returns the noise_position value or the default.
func (c *PoseSensorConfig) GetNoisePosition() float64 {
	if c.NoisePosition == nil {
		return 0.01
	}
	return *c.NoisePosition
}

// GetNoiseAttitude returns the noise_attitude value or the default.
func (c *PoseSensorConfig) GetNoiseAttitude() float64 {
	if c.NoiseAttitude == nil {
		return 0.02
	}
	return *c.NoiseAttitude
}

// GetNoiseQWV returns the noise_qwv value or the default.
func (c *PoseSensorConfig) GetNoiseQWV() float64 {
	if c.NoiseQWV == nil {
		return 0
	}
	return *c.NoiseQWV
}

// GetNoiseQCI returns the noise_qci value or the default.
func (c *PoseSensorConfig) GetNoiseQCI() float64 {
	if c.NoiseQCI == nil {
		return 0
	}
	return *c.NoiseQCI
}

// GetNoisePCI returns the noise_pci value or the default.
func (c *PoseSensorConfig) GetNoisePCI() float64 {
	if c.NoisePCI == nil {
		return 0
	}
	return *c.NoisePCI
}

// GetNoiseScale returns the noise_scale value or the default.
func (c *PoseSensorConfig) GetNoiseScale() float64 {
	if c.NoiseScale == nil {
		return 0
	}
	return *c.NoiseScale
}

// GetFixedScale returns the fixed_scale flag or false.
func (c *PoseSensorConfig) GetFixedScale() bool {
	if c.FixedScale == nil {
		return false
	}
	return *c.FixedScale
}

// GetFixedCalib returns the fixed_calib flag or false.
func (c *PoseSensorConfig) GetFixedCalib() bool {
	if c.FixedCalib == nil {
		return false
	}
	return *c.FixedCalib
}

// GetDelay returns the delay in seconds or the default.
func (c *PoseSensorConfig) GetDelay() float64 {
	if c.Delay == nil {
		return 0.02
	}
	return *c.Delay
}
