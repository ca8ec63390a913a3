// Package monitor provides rendering diagnostics: a distribution plot of a
// metric's positive values per region and a standalone HTML scatter preview
// of a laid-out grid. These are debugging aids for tuning thresholds, not
// part of the report surface.
package monitor

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/floesche/eyemap.report/internal/eyemap"
)

// PlotMetricDistribution writes a histogram of the strictly positive metric
// values for one region to outDir. Returns the written path.
func PlotMetricDistribution(cols []eyemap.ColumnData, metric eyemap.MetricType, region, outDir string) (string, error) {
	var vals plotter.Values
	for i := range cols {
		if cols[i].Region != region {
			continue
		}
		if v := cols[i].MetricValue(metric); v > 0 {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return "", fmt.Errorf("no positive %s values for region %s", metric, region)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s %s distribution", region, metric)
	p.X.Label.Text = string(metric)
	p.Y.Label.Text = "columns"

	h, err := plotter.NewHist(vals, 20)
	if err != nil {
		return "", fmt.Errorf("build histogram: %w", err)
	}
	p.Add(h)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", outDir, err)
	}
	path := filepath.Join(outDir, fmt.Sprintf("%s_%s_hist.png", region, metric))
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save histogram: %w", err)
	}
	return path, nil
}
