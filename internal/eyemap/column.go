// Package eyemap generates hexagonal per-column connectivity maps for the
// optic-lobe regions of a connectome. The pipeline is: raw column records →
// validation (validate.go) → threshold/bound calculation (thresholds.go,
// minmax.go) → colour assignment (colormap.go) → axial-to-pixel layout
// (hexgrid.go) → rendering (render.go, svg.go, raster.go). Orchestration
// across regions, soma sides and metrics lives in grid.go and batch.go.
//
// The package performs no file, network or database I/O itself; those happen
// behind the ColumnSource, templates.Provider and OutputSink boundaries.
package eyemap

import "fmt"

// MetricType selects which per-column quantity a map visualises.
type MetricType string

const (
	MetricSynapseDensity MetricType = "synapse_density"
	MetricCellCount      MetricType = "cell_count"
)

// Valid reports whether m is a known metric.
func (m MetricType) Valid() bool {
	return m == MetricSynapseDensity || m == MetricCellCount
}

// ColumnStatus governs which colour path a grid cell takes. Cells with data
// are mapped through the numeric palette; the other states use fixed colours.
type ColumnStatus string

const (
	StatusHasData     ColumnStatus = "has_data"
	StatusNoData      ColumnStatus = "no_data"
	StatusNotInRegion ColumnStatus = "not_in_region"
	StatusExcluded    ColumnStatus = "excluded"
)

// ColumnCoordinate identifies one column cell within a region's hexagonal
// grid. Identity for map keying is (hex1, hex2) only; the region tag rides
// along for display and universe restriction but does not take part in
// equality.
type ColumnCoordinate struct {
	Hex1   int
	Hex2   int
	Region string
}

// CoordKey is the hashable identity of a coordinate, ignoring region.
type CoordKey struct {
	Hex1 int
	Hex2 int
}

// Key returns the region-independent identity of the coordinate.
func (c ColumnCoordinate) Key() CoordKey {
	return CoordKey{Hex1: c.Hex1, Hex2: c.Hex2}
}

func (c ColumnCoordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Hex1, c.Hex2)
}

// LayerData holds per-depth-layer counts for one column. Indices and counts
// are non-negative; NormalizeInput and ValidateColumnData enforce this.
type LayerData struct {
	LayerIndex   int
	SynapseCount int
	NeuronCount  int
	Value        float64
	Color        string
}

// ColumnData is one validated column record: a coordinate, its region/side,
// aggregate counts, the per-layer breakdown, and a status that drives colour
// selection. Values are treated as immutable after construction.
type ColumnData struct {
	Coordinate    ColumnCoordinate
	Region        string
	Side          string
	TotalSynapses int
	NeuronCount   int
	Layers        []LayerData
	Status        ColumnStatus
	Metadata      map[string]any
}

// SynapsesPerLayer returns the synapse count of each layer in layer order.
func (c *ColumnData) SynapsesPerLayer() []int {
	out := make([]int, len(c.Layers))
	for i, l := range c.Layers {
		out[i] = l.SynapseCount
	}
	return out
}

// NeuronsPerLayer returns the neuron count of each layer in layer order.
func (c *ColumnData) NeuronsPerLayer() []int {
	out := make([]int, len(c.Layers))
	for i, l := range c.Layers {
		out[i] = l.NeuronCount
	}
	return out
}

// MetricValue returns the column-level value for the given metric.
func (c *ColumnData) MetricValue(metric MetricType) float64 {
	switch metric {
	case MetricCellCount:
		return float64(c.NeuronCount)
	default:
		return float64(c.TotalSynapses)
	}
}

// LayerMetricValue returns the layer-level value for the given metric.
func (l LayerData) LayerMetricValue(metric MetricType) float64 {
	switch metric {
	case MetricCellCount:
		return float64(l.NeuronCount)
	default:
		return float64(l.SynapseCount)
	}
}

// ProcessedColumn is the fully resolved form of one grid cell: pixel
// position, value, colour, status and precomputed tooltip text. It is the
// only thing the rendering engine consumes; renderers reject cells whose
// tooltip fields were not populated upstream.
type ProcessedColumn struct {
	Coordinate    ColumnCoordinate
	X             float64
	Y             float64
	Value         float64
	Color         string
	Status        ColumnStatus
	Region        string
	Side          string
	Metric        MetricType
	LayerValues   []float64
	LayerColors   []string
	Tooltip       string
	TooltipLayers []string
}
