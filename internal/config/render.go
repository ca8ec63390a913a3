// Package config loads on-disk rendering defaults. The schema uses pointer
// fields so a partial JSON file only overrides what it names; every consumer
// goes through the Get* accessors, which supply the compiled-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RenderConfig is the root configuration for eyemap rendering defaults.
type RenderConfig struct {
	// Geometry
	HexSize       *float64 `json:"hex_size,omitempty"`
	SpacingFactor *float64 `json:"spacing_factor,omitempty"`
	Margin        *float64 `json:"margin,omitempty"`

	// Output
	OutputDir    *string  `json:"output_dir,omitempty"`
	OutputFormat *string  `json:"output_format,omitempty"`
	RasterScale  *float64 `json:"raster_scale,omitempty"`

	// Validation
	StrictValidation *bool `json:"strict_validation,omitempty"`
}

// EmptyRenderConfig returns a config with every field unset, so the Get*
// accessors fall through to defaults.
func EmptyRenderConfig() *RenderConfig {
	return &RenderConfig{}
}

// LoadRenderConfig loads a RenderConfig from a JSON file. The path must have
// a .json extension and be under 1MB; fields omitted from the file keep
// their defaults, so partial configs are safe.
func LoadRenderConfig(path string) (*RenderConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRenderConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the set fields.
func (c *RenderConfig) Validate() error {
	if c.HexSize != nil && *c.HexSize <= 0 {
		return fmt.Errorf("hex_size must be positive, got %f", *c.HexSize)
	}
	if c.SpacingFactor != nil && *c.SpacingFactor <= 0 {
		return fmt.Errorf("spacing_factor must be positive, got %f", *c.SpacingFactor)
	}
	if c.Margin != nil && *c.Margin < 0 {
		return fmt.Errorf("margin must be non-negative, got %f", *c.Margin)
	}
	if c.RasterScale != nil && *c.RasterScale <= 0 {
		return fmt.Errorf("raster_scale must be positive, got %f", *c.RasterScale)
	}
	if c.OutputFormat != nil {
		switch *c.OutputFormat {
		case "svg", "png":
		default:
			return fmt.Errorf("output_format must be \"svg\" or \"png\", got %q", *c.OutputFormat)
		}
	}
	return nil
}

// GetHexSize returns the hexagon radius or the default.
func (c *RenderConfig) GetHexSize() float64 {
	if c.HexSize == nil {
		return 6.0
	}
	return *c.HexSize
}

// GetSpacingFactor returns the lattice spacing factor or the default.
func (c *RenderConfig) GetSpacingFactor() float64 {
	if c.SpacingFactor == nil {
		return 1.1
	}
	return *c.SpacingFactor
}

// GetMargin returns the canvas margin or the default.
func (c *RenderConfig) GetMargin() float64 {
	if c.Margin == nil {
		return 10.0
	}
	return *c.Margin
}

// GetOutputDir returns the artifact directory or the default.
func (c *RenderConfig) GetOutputDir() string {
	if c.OutputDir == nil || *c.OutputDir == "" {
		return "output/eyemaps"
	}
	return *c.OutputDir
}

// GetOutputFormat returns the artifact format or the default.
func (c *RenderConfig) GetOutputFormat() string {
	if c.OutputFormat == nil || *c.OutputFormat == "" {
		return "svg"
	}
	return *c.OutputFormat
}

// GetRasterScale returns the SVG-to-PNG scale factor or the default.
func (c *RenderConfig) GetRasterScale() float64 {
	if c.RasterScale == nil {
		return 2.0
	}
	return *c.RasterScale
}

// GetStrictValidation reports whether warnings should be promoted to errors.
func (c *RenderConfig) GetStrictValidation() bool {
	if c.StrictValidation == nil {
		return false
	}
	return *c.StrictValidation
}
