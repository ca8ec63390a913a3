package eyemap

import (
	"fmt"
	"math"
)

// palette is the fixed five-stop value ramp, lightest to darkest. The stops
// are shared with the report-page CSS; change them there too or the legends
// drift from the cells.
var palette = [5]string{
	"#fee5d9",
	"#fcae91",
	"#fb6a4a",
	"#de2d26",
	"#a50f15",
}

// Status colours bypass numeric mapping entirely.
const (
	colorNoData      = "#ffffff"
	colorNotInRegion = "#404040"
	colorExcluded    = "#d0d0d0"
)

// Palette returns the five value-ramp colours, lightest first.
func Palette() []string {
	return palette[:]
}

// Normalize maps value into [0,1] relative to [min,max], clamping outside
// values. A degenerate range (min == max) maps everything to 0. It errors
// when max < min.
func Normalize(value, min, max float64) (float64, error) {
	if max < min {
		return 0, fmt.Errorf("invalid bounds: max %v < min %v", max, min)
	}
	if min == max {
		return 0, nil
	}
	t := (value - min) / (max - min)
	if t < 0 {
		return 0, nil
	}
	if t > 1 {
		return 1, nil
	}
	return t, nil
}

// ValueToColor buckets a normalized value into one of the five palette
// stops. Bins are equal width (0.2) and exact boundary values land in the
// lower bin: 0.2 maps to bin 0, 0.4 to bin 1, and so on; t == 1 maps to the
// last bin.
func ValueToColor(t float64) string {
	idx := int(math.Floor(t / 0.2))
	// Pull exact boundaries down one bin.
	if idx > 0 && t == float64(idx)*0.2 {
		idx--
	}
	if idx > 4 {
		idx = 4
	}
	if idx < 0 {
		idx = 0
	}
	return palette[idx]
}

// StatusColor returns the fixed colour for non-data cells and "", false for
// cells that should go through numeric mapping.
func StatusColor(s ColumnStatus) (string, bool) {
	switch s {
	case StatusNoData:
		return colorNoData, true
	case StatusNotInRegion:
		return colorNotInRegion, true
	case StatusExcluded:
		return colorExcluded, true
	default:
		return "", false
	}
}

// ColorMapper assigns colours using per-region bounds from MinMaxData, with
// the global bound as fallback for regions without positive observations.
type ColorMapper struct {
	minmax *MinMaxData
}

// NewColorMapper builds a mapper over precomputed bounds.
func NewColorMapper(minmax *MinMaxData) *ColorMapper {
	return &ColorMapper{minmax: minmax}
}

// ColumnColor resolves the colour for one cell. Status-driven colours take
// priority; everything else is normalized against the (metric, region)
// bounds and bucketed into the palette.
func (cm *ColorMapper) ColumnColor(metric MetricType, region string, value float64, status ColumnStatus) (string, error) {
	if c, ok := StatusColor(status); ok {
		return c, nil
	}
	b := cm.minmax.BoundsFor(metric, region)
	t, err := Normalize(value, b.Min, b.Max)
	if err != nil {
		return "", err
	}
	return ValueToColor(t), nil
}

// LayerColor resolves the colour for one layer value using the same bounds
// as the column-level mapping.
func (cm *ColorMapper) LayerColor(metric MetricType, region string, value float64) (string, error) {
	if value <= 0 {
		return colorNoData, nil
	}
	b := cm.minmax.BoundsFor(metric, region)
	t, err := Normalize(value, b.Min, b.Max)
	if err != nil {
		return "", err
	}
	return ValueToColor(t), nil
}
