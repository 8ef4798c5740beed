package claw_arm

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/golang/geo/r2"
	"go.viam.com/rdk/logging"
	"gopkg.in/yaml.v3"

	"claw_arm/ik"
)

// Defaults shared by every chain config.
const (
	DefaultSegments      = 3
	DefaultSegmentLength = 50.0
)

// ChainConfig describes a planar chain. Both component configs convert to it
// and it is the schema of the CLI's YAML config file.
type ChainConfig struct {
	// Registry key; components naming the same chain share its state.
	Chain string `json:"chain,omitempty" yaml:"chain,omitempty"`

	Segments      int     `json:"segments,omitempty" yaml:"segments,omitempty"`
	SegmentLength float64 `json:"segment_length,omitempty" yaml:"segment_length,omitempty"`
	Tolerance     float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`

	BaseX float64 `json:"base_x,omitempty" yaml:"base_x,omitempty"`
	BaseY float64 `json:"base_y,omitempty" yaml:"base_y,omitempty"`
}

// Validate fills defaults and checks ranges.
func (cfg *ChainConfig) Validate() error {
	if cfg.Segments == 0 {
		cfg.Segments = DefaultSegments
	}
	if cfg.SegmentLength == 0 {
		cfg.SegmentLength = DefaultSegmentLength
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = ik.DefaultTolerance
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = ik.DefaultMaxIterations
	}

	if cfg.Segments < 1 {
		return fmt.Errorf("segments must be at least 1, got %d", cfg.Segments)
	}
	if cfg.SegmentLength < 0 || math.IsInf(cfg.SegmentLength, 0) || math.IsNaN(cfg.SegmentLength) {
		return fmt.Errorf("segment_length must be positive, got %g", cfg.SegmentLength)
	}
	if cfg.Tolerance < 0 || math.IsNaN(cfg.Tolerance) {
		return fmt.Errorf("tolerance must be positive, got %g", cfg.Tolerance)
	}
	if cfg.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be positive, got %d", cfg.MaxIterations)
	}
	return nil
}

// IKConfig converts to the solver's configuration.
func (cfg *ChainConfig) IKConfig() ik.Config {
	return ik.Config{
		SegmentCount:  cfg.Segments,
		SegmentLength: cfg.SegmentLength,
		Tolerance:     cfg.Tolerance,
		MaxIterations: cfg.MaxIterations,
		Base:          r2.Point{X: cfg.BaseX, Y: cfg.BaseY},
	}
}

// PlanarArmConfig is the attribute schema of the planar arm component.
type PlanarArmConfig struct {
	// Registry key, defaults to the component name
	Chain string `json:"chain,omitempty"`

	Segments      int     `json:"segments,omitempty"`       // Default: 3
	SegmentLength float64 `json:"segment_length,omitempty"` // Default: 50
	Tolerance     float64 `json:"tolerance,omitempty"`      // Default: 0.01
	MaxIterations int     `json:"max_iterations,omitempty"` // Default: 500

	BaseX float64 `json:"base_x,omitempty"`
	BaseY float64 `json:"base_y,omitempty"`

	// Not serialized
	Logger logging.Logger `json:"-"`
}

// Validate ensures all parts of the config are valid
func (cfg *PlanarArmConfig) Validate(path string) ([]string, []string, error) {
	chainCfg := cfg.ChainConfig()
	if err := chainCfg.Validate(); err != nil {
		return nil, nil, err
	}
	cfg.applyDefaults(chainCfg)
	return nil, nil, nil
}

// ChainConfig returns the chain part of the attributes.
func (cfg *PlanarArmConfig) ChainConfig() ChainConfig {
	return ChainConfig{
		Chain:         cfg.Chain,
		Segments:      cfg.Segments,
		SegmentLength: cfg.SegmentLength,
		Tolerance:     cfg.Tolerance,
		MaxIterations: cfg.MaxIterations,
		BaseX:         cfg.BaseX,
		BaseY:         cfg.BaseY,
	}
}

func (cfg *PlanarArmConfig) applyDefaults(c ChainConfig) {
	cfg.Segments = c.Segments
	cfg.SegmentLength = c.SegmentLength
	cfg.Tolerance = c.Tolerance
	cfg.MaxIterations = c.MaxIterations
}

// ClawConfig is the attribute schema of the claw gripper component. The claw
// drives the end effector of the chain named by Chain, so its geometry must
// match the arm's.
type ClawConfig struct {
	Chain string `json:"chain"`

	Segments      int     `json:"segments,omitempty"`
	SegmentLength float64 `json:"segment_length,omitempty"`
	Tolerance     float64 `json:"tolerance,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty"`

	BaseX float64 `json:"base_x,omitempty"`
	BaseY float64 `json:"base_y,omitempty"`

	// Jaw thickness used for collision geometries (default: 5)
	JawWidth float64 `json:"jaw_width,omitempty"`
}

// Validate ensures all parts of the config are valid
func (cfg *ClawConfig) Validate(path string) ([]string, []string, error) {
	if cfg.Chain == "" {
		return nil, nil, fmt.Errorf("must specify the chain the claw is mounted on")
	}

	chainCfg := cfg.ChainConfig()
	if err := chainCfg.Validate(); err != nil {
		return nil, nil, err
	}
	cfg.Segments = chainCfg.Segments
	cfg.SegmentLength = chainCfg.SegmentLength
	cfg.Tolerance = chainCfg.Tolerance
	cfg.MaxIterations = chainCfg.MaxIterations

	if cfg.JawWidth == 0 {
		cfg.JawWidth = 5
	}
	if cfg.JawWidth < 0 {
		return nil, nil, fmt.Errorf("jaw_width must be positive, got %g", cfg.JawWidth)
	}
	return nil, nil, nil
}

// ChainConfig returns the chain part of the attributes.
func (cfg *ClawConfig) ChainConfig() ChainConfig {
	return ChainConfig{
		Chain:         cfg.Chain,
		Segments:      cfg.Segments,
		SegmentLength: cfg.SegmentLength,
		Tolerance:     cfg.Tolerance,
		MaxIterations: cfg.MaxIterations,
		BaseX:         cfg.BaseX,
		BaseY:         cfg.BaseY,
	}
}

// LoadConfigFromFile reads a YAML chain config. Relative paths are resolved
// against VIAM_MODULE_DATA.
func LoadConfigFromFile(filePath string, logger logging.Logger) (*ChainConfig, error) {
	filePath = resolveDataPath(filePath)

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg ChainConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if logger != nil {
		logger.Debugf("Loaded chain config from %s: %+v", filePath, cfg)
	}
	return &cfg, nil
}

// SaveConfigToFile writes a chain config as YAML.
func SaveConfigToFile(filePath string, cfg ChainConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(resolveDataPath(filePath), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func resolveDataPath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	moduleDataDir := os.Getenv("VIAM_MODULE_DATA")
	if moduleDataDir == "" {
		return filePath
	}
	return filepath.Join(moduleDataDir, filePath)
}
