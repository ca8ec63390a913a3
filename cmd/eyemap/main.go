package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/floesche/eyemap.report/internal/columnstore"
	"github.com/floesche/eyemap.report/internal/config"
	"github.com/floesche/eyemap.report/internal/eyemap"
	"github.com/floesche/eyemap.report/internal/eyemap/monitor"
	"github.com/floesche/eyemap.report/internal/eyemap/templates"
	"github.com/floesche/eyemap.report/internal/fsutil"
)

// parseMetrics parses a comma-separated list of metric names.
func parseMetrics(s string) ([]eyemap.MetricType, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]eyemap.MetricType, 0, len(parts))
	for _, p := range parts {
		m := eyemap.MetricType(strings.TrimSpace(p))
		if !m.Valid() {
			return nil, fmt.Errorf("invalid metric '%s'", p)
		}
		out = append(out, m)
	}
	return out, nil
}

func main() {
	var (
		neuronType string
		somaSide   string
		format     string
		metricsStr string
		configPath string
		dbPath     string
		outDir     string
		batch      bool
		strict     bool
		noSave     bool
		histogram  bool
		preview    bool
	)

	flag.StringVar(&neuronType, "neuron", "", "neuron type to map (required)")
	flag.StringVar(&somaSide, "soma", "combined", "soma side: left, right or combined")
	flag.StringVar(&format, "format", "", "output format: svg or png (overrides config)")
	flag.StringVar(&metricsStr, "metrics", "", "comma-separated metrics (default: all)")
	flag.StringVar(&configPath, "config", "", "path to render config JSON")
	flag.StringVar(&dbPath, "db", "column_data.db", "path to sqlite column database")
	flag.StringVar(&outDir, "out", "", "output directory (overrides config)")
	flag.BoolVar(&batch, "batch", false, "render units in parallel")
	flag.BoolVar(&strict, "strict", false, "treat data warnings as errors")
	flag.BoolVar(&noSave, "no-save", false, "render without writing artifacts")
	flag.BoolVar(&histogram, "hist", false, "also write a value-distribution histogram per region")
	flag.BoolVar(&preview, "preview", false, "also write an interactive HTML preview per map")
	flag.Parse()

	if neuronType == "" {
		log.Fatalf("neuron type must be provided (-neuron)")
	}

	cfg := config.EmptyRenderConfig()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadRenderConfig(configPath); err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	if outDir == "" {
		outDir = cfg.GetOutputDir()
	}
	outputFormat := eyemap.OutputFormat(cfg.GetOutputFormat())
	if format != "" {
		outputFormat = eyemap.OutputFormat(format)
	}

	metrics, err := parseMetrics(metricsStr)
	if err != nil {
		log.Fatalf("parse metrics: %v", err)
	}
	if len(metrics) == 0 {
		metrics = []eyemap.MetricType{eyemap.MetricSynapseDensity, eyemap.MetricCellCount}
	}

	store, err := columnstore.Open(dbPath)
	if err != nil {
		log.Fatalf("open column store: %v", err)
	}
	defer store.Close()

	save := !noSave
	var sink eyemap.OutputSink
	if save {
		// The lock file keeps two runs from interleaving artifacts in
		// the same directory.
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			log.Fatalf("create output dir: %v", err)
		}
		release, err := fsutil.Claim(filepath.Join(outDir, ".eyemap.lock"))
		if err != nil {
			log.Fatalf("claim output dir %s: %v", outDir, err)
		}
		defer func() {
			if err := release(); err != nil {
				log.Printf("release output dir lock: %v", err)
			}
		}()
		sink = fsutil.NewOutputWriter(fsutil.OSFileSystem{}, outDir)
	}

	manager := eyemap.NewRenderManager(templates.NewEmbedded(), sink, cfg.GetRasterScale())
	generator := eyemap.NewGridGenerator(store, manager, eyemap.NewRenderCache())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := eyemap.GridRequest{
		NeuronType:    neuronType,
		SomaSide:      eyemap.SomaSide(somaSide),
		OutputFormat:  outputFormat,
		HexSize:       cfg.GetHexSize(),
		SpacingFactor: cfg.GetSpacingFactor(),
		Margin:        cfg.GetMargin(),
		Metrics:       metrics,
		Save:          save,
		Strict:        strict || cfg.GetStrictValidation(),
	}

	if batch {
		results, err := generator.GenerateBatch(ctx, req)
		if err != nil {
			log.Fatalf("batch generation failed: %v", err)
		}
		var failures int
		for _, r := range results {
			if r.Err != nil {
				failures++
				log.Printf("unit %s/%s/%s failed: %v", r.Unit.Region, r.Unit.Side, r.Unit.Metric, r.Err)
				continue
			}
			if r.Path != "" {
				fmt.Printf("wrote %s\n", r.Path)
			}
		}
		if failures > 0 {
			log.Fatalf("%d of %d units failed", failures, len(results))
		}
	} else {
		res, err := generator.Generate(ctx, req)
		if err != nil {
			log.Fatalf("generation failed: %v", err)
		}
		for key, byMetric := range res.Paths {
			for metric, path := range byMetric {
				fmt.Printf("wrote %s (%s %s)\n", path, key, metric)
			}
		}
		for key, byMetric := range res.Summaries {
			for metric, s := range byMetric {
				fmt.Printf("%s %s: n=%d mean=%.1f median=%.1f range=[%.0f,%.0f]\n",
					key, metric, s.Count, s.Mean, s.Median, s.Min, s.Max)
			}
		}
	}

	if histogram || preview {
		if err := writeDiagnostics(ctx, store, req, outDir, histogram, preview); err != nil {
			log.Fatalf("diagnostics: %v", err)
		}
	}

	fmt.Println("eyemap generation complete")
}

// writeDiagnostics renders the optional per-region histogram and HTML
// preview next to the main artifacts.
func writeDiagnostics(ctx context.Context, store *columnstore.Store, req eyemap.GridRequest, outDir string, histogram, preview bool) error {
	records, err := store.ColumnRecords(ctx, req.NeuronType)
	if err != nil {
		return fmt.Errorf("fetch records: %w", err)
	}
	cols, err := eyemap.NormalizeRecords(records)
	if err != nil {
		return err
	}

	for _, region := range eyemap.Regions {
		if histogram {
			for _, metric := range req.Metrics {
				path, err := monitor.PlotMetricDistribution(cols, metric, region, outDir)
				if err != nil {
					return fmt.Errorf("histogram %s/%s: %w", region, metric, err)
				}
				if path != "" {
					fmt.Printf("wrote %s\n", path)
				}
			}
		}
		if preview {
			if err := writePreview(cols, req, region, outDir); err != nil {
				return err
			}
		}
	}
	return nil
}

// writePreview builds a rough scatter of the region's data columns. It skips
// regions without data rather than failing the run.
func writePreview(cols []eyemap.ColumnData, req eyemap.GridRequest, region, outDir string) error {
	var coords []eyemap.ColumnCoordinate
	var regionCols []eyemap.ColumnData
	for _, c := range cols {
		if c.Region != region {
			continue
		}
		coords = append(coords, c.Coordinate)
		regionCols = append(regionCols, c)
	}
	if len(coords) == 0 {
		return nil
	}

	layout, err := eyemap.NewLayout(coords, eyemap.LayoutConfig{
		HexSize:       req.HexSize,
		SpacingFactor: req.SpacingFactor,
		Margin:        req.Margin,
		SomaSide:      req.SomaSide,
		Region:        region,
	})
	if err != nil {
		return fmt.Errorf("preview layout %s: %w", region, err)
	}

	metric := req.Metrics[0]
	hexes := make([]eyemap.ProcessedColumn, 0, len(regionCols))
	for _, c := range regionCols {
		x, y := layout.PixelFor(c.Coordinate)
		hexes = append(hexes, eyemap.ProcessedColumn{
			Coordinate: c.Coordinate,
			X:          x,
			Y:          y,
			Value:      c.MetricValue(metric),
			Region:     region,
			Side:       c.Side,
			Metric:     metric,
		})
	}

	html, err := monitor.PreviewHTML(hexes, fmt.Sprintf("%s %s %s", region, req.NeuronType, metric))
	if err != nil {
		return fmt.Errorf("preview %s: %w", region, err)
	}
	path := filepath.Join(outDir, fmt.Sprintf("%s_%s_preview.html", region, req.NeuronType))
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
