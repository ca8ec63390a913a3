package eyemap

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/floesche/eyemap.report/internal/eyemap/templates"
)

const svgTemplateName = "eyemap.svg.tmpl"

// SVGRenderer emits vector markup through the templating collaborator. The
// renderer only builds the context map; the markup itself lives in the
// template file.
type SVGRenderer struct {
	provider templates.Provider
}

// NewSVGRenderer returns a vector renderer over the given template provider.
func NewSVGRenderer(provider templates.Provider) *SVGRenderer {
	return &SVGRenderer{provider: provider}
}

type svgHex struct {
	X       string
	Y       string
	Color   string
	Status  ColumnStatus
	Tooltip string
}

type svgLegendBin struct {
	Y      string
	LabelY string
	Color  string
	Label  string
}

// Render produces the SVG artifact. It fails with a *RenderingError when any
// cell lacks tooltip data or when the template collaborator fails; there is
// no partial output.
func (r *SVGRenderer) Render(hexes []ProcessedColumn, layout *Layout, legend *Legend) ([]byte, error) {
	if layout == nil {
		return nil, &RenderingError{Stage: "svg", Msg: "nil layout"}
	}
	if err := requireTooltips(hexes); err != nil {
		return nil, err
	}

	ctx := map[string]any{
		"Width":     px(layout.Width),
		"Height":    px(layout.Height),
		"CenterX":   px(layout.Width / 2),
		"HexPoints": polygonPoints(layout.HexRadius),
		"Hexagons":  buildSVGHexes(hexes),
	}
	title, subtitle := mapTitles(hexes)
	ctx["Title"] = title
	ctx["Subtitle"] = subtitle

	if legend != nil && len(legend.Bins) > 0 {
		ctx["LegendTitle"] = legend.Title
		ctx["LegendX"] = px(layout.Legend.X)
		ctx["LegendY"] = px(layout.Legend.Y + 10)
		bins := make([]svgLegendBin, len(legend.Bins))
		for i, b := range legend.Bins {
			y := float64(i)*legendBinHeight + 6
			bins[i] = svgLegendBin{
				Y:      px(y),
				LabelY: px(y + 10),
				Color:  b.Color,
				Label:  b.Label,
			}
		}
		ctx["LegendBins"] = bins
	}

	var buf bytes.Buffer
	if err := r.provider.ExecuteTemplate(&buf, svgTemplateName, ctx); err != nil {
		return nil, &RenderingError{Stage: "svg", Msg: "template execution failed", Err: err}
	}
	return buf.Bytes(), nil
}

func buildSVGHexes(hexes []ProcessedColumn) []svgHex {
	out := make([]svgHex, len(hexes))
	for i, h := range hexes {
		tooltip := h.Tooltip
		if len(h.TooltipLayers) > 0 {
			tooltip += "\n" + strings.Join(h.TooltipLayers, "\n")
		}
		out[i] = svgHex{
			X:       px(h.X),
			Y:       px(h.Y),
			Color:   h.Color,
			Status:  h.Status,
			Tooltip: tooltip,
		}
	}
	return out
}

// mapTitles derives the title and subtitle from the first cell carrying
// unit metadata; all cells of one render share region, side and metric.
func mapTitles(hexes []ProcessedColumn) (title, subtitle string) {
	for _, h := range hexes {
		if h.Region == "" {
			continue
		}
		metric := "synapse density"
		if h.Metric == MetricCellCount {
			metric = "cell count"
		}
		return fmt.Sprintf("%s %s eyemap", h.Region, metric),
			fmt.Sprintf("%s / side %s", h.Region, h.Side)
	}
	return "eyemap", ""
}

// polygonPoints renders the shared 6-vertex outline as an SVG points list.
func polygonPoints(radius float64) string {
	var sb strings.Builder
	for i, v := range HexVertices(radius) {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s,%s", px(v[0]), px(v[1]))
	}
	return sb.String()
}

// px formats a pixel quantity with enough precision for layout parity and
// no float noise.
func px(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
