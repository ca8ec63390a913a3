package eyemap

import (
	"strconv"

	"github.com/floesche/eyemap.report/internal/monitoring"
)

// Regions lists the anatomical subdivisions rendered by the grid
// orchestrator, in display order.
var Regions = []string{"ME", "LO", "LOP"}

// RegionConfig is the static per-region configuration: how many depth layers
// the region has and how layer indices map to display names.
type RegionConfig struct {
	Name       string
	LayerCount int

	// displayNames remaps layer indices whose anatomical name differs from
	// the index, e.g. LO layer 5 splits into 5A/5B.
	displayNames map[int]string
}

var regionConfigs = map[string]RegionConfig{
	"ME": {Name: "ME", LayerCount: 10},
	"LO": {
		Name:       "LO",
		LayerCount: 7,
		displayNames: map[int]string{
			5: "5A",
			6: "5B",
			7: "6",
		},
	},
	"LOP": {Name: "LOP", LayerCount: 4},
}

// RegionConfigFor returns the configuration for a region. Unknown regions
// fall back to the ME configuration; existing report pages depend on this, so
// it is kept, but it is almost certainly masking bad input and is logged.
func RegionConfigFor(region string) RegionConfig {
	if cfg, ok := regionConfigs[region]; ok {
		return cfg
	}
	monitoring.Warnf("unknown region %q, falling back to ME layer configuration", region)
	cfg := regionConfigs["ME"]
	cfg.Name = region
	return cfg
}

// LayerCountFor returns the number of depth layers in a region.
func LayerCountFor(region string) int {
	return RegionConfigFor(region).LayerCount
}

// DisplayLayerName returns the anatomical display name of a 1-based layer
// index, applying the per-region remapping.
func DisplayLayerName(region string, layer int) string {
	cfg := RegionConfigFor(region)
	if name, ok := cfg.displayNames[layer]; ok {
		return name
	}
	return strconv.Itoa(layer)
}

// ControlDimensions describes the layer-control panel drawn next to a map.
// All sizes are in pixels and derive from the region's layer count.
type ControlDimensions struct {
	ButtonWidth  float64
	ButtonHeight float64
	ButtonGap    float64
	PanelWidth   float64
	PanelHeight  float64
}

// ControlDimensionsFor derives the layer-control panel geometry for a region.
// One button per layer plus an "all layers" button, stacked vertically.
func ControlDimensionsFor(region string) ControlDimensions {
	const (
		buttonWidth  = 36.0
		buttonHeight = 18.0
		buttonGap    = 4.0
		panelPad     = 6.0
	)
	n := LayerCountFor(region) + 1
	return ControlDimensions{
		ButtonWidth:  buttonWidth,
		ButtonHeight: buttonHeight,
		ButtonGap:    buttonGap,
		PanelWidth:   buttonWidth + 2*panelPad,
		PanelHeight:  float64(n)*buttonHeight + float64(n-1)*buttonGap + 2*panelPad,
	}
}
