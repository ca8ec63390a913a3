package eyemap

import "fmt"

// SomaSide partitions neurons by cell-body location. It drives mirroring so
// paired left/right report pages face the same way.
type SomaSide string

const (
	SomaLeft     SomaSide = "left"
	SomaRight    SomaSide = "right"
	SomaCombined SomaSide = "combined"
)

// Valid reports whether s is a known soma side.
func (s SomaSide) Valid() bool {
	return s == SomaLeft || s == SomaRight || s == SomaCombined
}

// OutputFormat selects the artifact type produced by the rendering engine.
type OutputFormat string

const (
	FormatSVG OutputFormat = "svg"
	FormatPNG OutputFormat = "png"
)

// Valid reports whether f is a supported output format.
func (f OutputFormat) Valid() bool {
	return f == FormatSVG || f == FormatPNG
}

// Geometry defaults. HexSize is the drawn hexagon radius; the spacing factor
// stretches the lattice so adjacent cells do not touch.
const (
	DefaultHexSize       = 6.0
	DefaultSpacingFactor = 1.1
	DefaultMargin        = 10.0
	DefaultRasterScale   = 2.0
)

// ProcessingConfig carries the per-request parameters for one eyemap
// generation. It is validated eagerly at construction; the Set* methods are
// the only supported in-place mutation and re-validate on every call.
type ProcessingConfig struct {
	MetricType    MetricType
	SomaSide      SomaSide
	RegionName    string
	OutputFormat  OutputFormat
	NeuronType    string
	HexSize       float64
	SpacingFactor float64
	Margin        float64
	RasterScale   float64
	Strict        bool
	SaveToDisk    bool
}

// NewProcessingConfig builds a validated config with geometry defaults filled
// in for zero-valued fields.
func NewProcessingConfig(metric MetricType, side SomaSide, region string, format OutputFormat) (*ProcessingConfig, error) {
	cfg := &ProcessingConfig{
		MetricType:    metric,
		SomaSide:      side,
		RegionName:    region,
		OutputFormat:  format,
		HexSize:       DefaultHexSize,
		SpacingFactor: DefaultSpacingFactor,
		Margin:        DefaultMargin,
		RasterScale:   DefaultRasterScale,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field. It is called at construction and after every
// in-place update.
func (c *ProcessingConfig) Validate() error {
	if !c.MetricType.Valid() {
		return fmt.Errorf("invalid metric type %q", c.MetricType)
	}
	if !c.SomaSide.Valid() {
		return fmt.Errorf("invalid soma side %q", c.SomaSide)
	}
	if c.RegionName == "" {
		return fmt.Errorf("region name must be non-empty")
	}
	if !c.OutputFormat.Valid() {
		return fmt.Errorf("invalid output format %q (want %q or %q)", c.OutputFormat, FormatSVG, FormatPNG)
	}
	if c.HexSize <= 0 {
		return fmt.Errorf("hex size must be positive, got %v", c.HexSize)
	}
	if c.SpacingFactor <= 0 {
		return fmt.Errorf("spacing factor must be positive, got %v", c.SpacingFactor)
	}
	if c.Margin < 0 {
		return fmt.Errorf("margin must be non-negative, got %v", c.Margin)
	}
	if c.RasterScale <= 0 {
		return fmt.Errorf("raster scale must be positive, got %v", c.RasterScale)
	}
	return nil
}

// SetHexSize updates the hexagon radius in place.
func (c *ProcessingConfig) SetHexSize(size float64) error {
	old := c.HexSize
	c.HexSize = size
	if err := c.Validate(); err != nil {
		c.HexSize = old
		return err
	}
	return nil
}

// SetSpacingFactor updates the lattice spacing factor in place.
func (c *ProcessingConfig) SetSpacingFactor(f float64) error {
	old := c.SpacingFactor
	c.SpacingFactor = f
	if err := c.Validate(); err != nil {
		c.SpacingFactor = old
		return err
	}
	return nil
}

// SetOutputFormat updates the output format in place.
func (c *ProcessingConfig) SetOutputFormat(f OutputFormat) error {
	old := c.OutputFormat
	c.OutputFormat = f
	if err := c.Validate(); err != nil {
		c.OutputFormat = old
		return err
	}
	return nil
}

// EffectiveSize is the lattice pitch: the hexagon radius scaled by the
// spacing factor.
func (c *ProcessingConfig) EffectiveSize() float64 {
	return c.HexSize * c.SpacingFactor
}
