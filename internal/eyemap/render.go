package eyemap

import (
	"fmt"

	"github.com/floesche/eyemap.report/internal/eyemap/templates"
)

// Legend describes the colour key drawn next to a map.
type Legend struct {
	Title string
	Bins  []LegendBin
}

// LegendBin pairs one palette stop with its threshold label.
type LegendBin struct {
	Color string
	Label string
}

// BuildLegend derives a legend from threshold boundaries: one bin per
// palette stop, labelled with the boundary value.
func BuildLegend(metric MetricType, td *ThresholdData) *Legend {
	title := "synapses"
	if metric == MetricCellCount {
		title = "cells"
	}
	l := &Legend{Title: title}
	for i, c := range Palette() {
		label := ""
		if i < len(td.AllLayers) {
			label = formatValue(td.AllLayers[i])
		}
		l.Bins = append(l.Bins, LegendBin{Color: c, Label: label})
	}
	return l
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// Renderer produces a final artifact from fully processed cells. Every cell
// must arrive with its tooltip text precomputed; renderers fail immediately
// rather than emitting a map with silently missing hover text.
type Renderer interface {
	Render(hexes []ProcessedColumn, layout *Layout, legend *Legend) ([]byte, error)
}

// OutputSink receives finished artifacts. Implementations live outside this
// package (see internal/fsutil); the path returned is wherever the sink put
// the content.
type OutputSink interface {
	Write(content []byte, filename string) (string, error)
}

// requireTooltips enforces the fail-fast tooltip contract shared by all
// renderers.
func requireTooltips(hexes []ProcessedColumn) error {
	for i := range hexes {
		if hexes[i].Tooltip == "" || hexes[i].TooltipLayers == nil {
			return &RenderingError{
				Stage: "validate",
				Msg:   fmt.Sprintf("missing required tooltip data for cell %s", hexes[i].Coordinate),
			}
		}
	}
	return nil
}

// Filename is the canonical artifact name for one (region, neuron type,
// side, metric) unit.
func Filename(region, neuronType, side string, metric MetricType, format OutputFormat) string {
	return fmt.Sprintf("%s_%s_%s_%s.%s", region, neuronType, side, metric, format)
}

// RenderManager selects a renderer by output format, fills in layout and
// legend when the caller did not supply them, and optionally hands the
// result to an output sink.
type RenderManager struct {
	provider    templates.Provider
	sink        OutputSink
	rasterScale float64
}

// NewRenderManager wires a manager. sink may be nil for callers that keep
// artifacts in memory; rasterScale <= 0 selects the default.
func NewRenderManager(provider templates.Provider, sink OutputSink, rasterScale float64) *RenderManager {
	if rasterScale <= 0 {
		rasterScale = DefaultRasterScale
	}
	return &RenderManager{provider: provider, sink: sink, rasterScale: rasterScale}
}

// RendererFor returns the renderer for a format.
func (m *RenderManager) RendererFor(format OutputFormat) (Renderer, error) {
	switch format {
	case FormatSVG:
		return NewSVGRenderer(m.provider), nil
	case FormatPNG:
		return NewPNGRenderer(m.provider, m.rasterScale), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// Render produces the artifact for one unit. A nil layout is reconstructed
// from the processed cell positions; a nil legend is derived from the cell
// values with the default threshold options.
func (m *RenderManager) Render(format OutputFormat, hexes []ProcessedColumn, layout *Layout, legend *Legend) ([]byte, error) {
	r, err := m.RendererFor(format)
	if err != nil {
		return nil, err
	}
	if layout == nil {
		if layout, err = layoutFromProcessed(hexes); err != nil {
			return nil, err
		}
	}
	if legend == nil {
		legend = legendFromProcessed(hexes)
	}
	return r.Render(hexes, layout, legend)
}

// RenderToFile renders and hands the artifact to the configured sink under
// the canonical filename.
func (m *RenderManager) RenderToFile(format OutputFormat, hexes []ProcessedColumn, layout *Layout, legend *Legend, filename string) (string, error) {
	if m.sink == nil {
		return "", fmt.Errorf("render manager has no output sink")
	}
	content, err := m.Render(format, hexes, layout, legend)
	if err != nil {
		return "", err
	}
	path, err := m.sink.Write(content, filename)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	return path, nil
}

// layoutFromProcessed rebuilds a minimal layout from cells that already
// carry pixel positions, for callers that skipped NewLayout.
func layoutFromProcessed(hexes []ProcessedColumn) (*Layout, error) {
	if len(hexes) == 0 {
		return nil, fmt.Errorf("cannot derive layout from zero cells")
	}
	minX, maxX := hexes[0].X, hexes[0].X
	minY, maxY := hexes[0].Y, hexes[0].Y
	for _, h := range hexes[1:] {
		if h.X < minX {
			minX = h.X
		}
		if h.X > maxX {
			maxX = h.X
		}
		if h.Y < minY {
			minY = h.Y
		}
		if h.Y > maxY {
			maxY = h.Y
		}
	}
	pad := DefaultHexSize + DefaultMargin
	return &Layout{
		HexRadius:     DefaultHexSize,
		EffectiveSize: DefaultHexSize * DefaultSpacingFactor,
		Margin:        DefaultMargin,
		Width:         maxX - minX + 2*pad,
		Height:        maxY - minY + 2*pad,
		Legend:        Rect{X: maxX - minX + pad, Y: legendPad, Width: legendWidth, Height: 5*legendBinHeight + 2*legendPad},
	}, nil
}

// legendFromProcessed derives a legend directly from the values present in
// the processed cells.
func legendFromProcessed(hexes []ProcessedColumn) *Legend {
	metric := MetricSynapseDensity
	cols := make([]ColumnData, 0, len(hexes))
	for _, h := range hexes {
		if h.Metric != "" {
			metric = h.Metric
		}
		if h.Status != StatusHasData {
			continue
		}
		cols = append(cols, ColumnData{
			Region:        h.Region,
			TotalSynapses: int(h.Value),
			NeuronCount:   int(h.Value),
		})
	}
	td, err := CalculateThresholds(cols, metric, DefaultThresholdOptions())
	if err != nil {
		return &Legend{Title: string(metric)}
	}
	return BuildLegend(metric, td)
}
