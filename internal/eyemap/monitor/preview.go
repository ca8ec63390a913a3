package monitor

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/floesche/eyemap.report/internal/eyemap"
)

// PreviewHTML renders an interactive scatter preview of a laid-out grid as a
// standalone HTML document. Cell positions come straight from the processed
// columns; cell values colour the points, so a wrong-looking map can be
// inspected before regenerating the report page.
func PreviewHTML(hexes []eyemap.ProcessedColumn, title string) ([]byte, error) {
	if len(hexes) == 0 {
		return nil, fmt.Errorf("no cells to preview")
	}

	var maxX, maxY, maxV float64
	for _, h := range hexes {
		if h.X > maxX {
			maxX = h.X
		}
		if h.Y > maxY {
			maxY = h.Y
		}
		if h.Value > maxV {
			maxV = h.Value
		}
	}
	// Flip y so the preview matches the SVG's top-left origin.
	data := make([]opts.ScatterData, 0, len(hexes))
	for _, h := range hexes {
		data = append(data, opts.ScatterData{
			Value: []interface{}{h.X, maxY - h.Y, h.Value},
			Name:  h.Coordinate.String(),
		})
	}
	if maxV == 0 {
		maxV = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("cells=%d", len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: maxX * 1.05, Name: "x (px)"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: maxY * 1.05, Name: "y (px)"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxV),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: eyemap.Palette()},
		}),
	)
	scatter.AddSeries("cells", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return nil, fmt.Errorf("render preview chart: %w", err)
	}
	return buf.Bytes(), nil
}
