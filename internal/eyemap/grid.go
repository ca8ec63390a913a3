package eyemap

import (
	"context"
	"fmt"
	"strings"

	"github.com/floesche/eyemap.report/internal/monitoring"
)

// Sides lists the hemispheres rendered for each region.
var Sides = []string{"L", "R"}

// ColumnSource is the upstream data collaborator. It supplies already
// fetched raw column records and the full universe of known hex coordinates
// per region and side; the engine itself never performs network or database
// I/O.
type ColumnSource interface {
	ColumnRecords(ctx context.Context, neuronType string) ([]map[string]any, error)
	HexUniverse(ctx context.Context, region, side string) ([]ColumnCoordinate, error)
}

// GridRequest parameterises one full grid generation: every region × side ×
// metric combination for a neuron type.
type GridRequest struct {
	NeuronType    string
	SomaSide      SomaSide
	OutputFormat  OutputFormat
	HexSize       float64
	SpacingFactor float64
	Margin        float64
	Metrics       []MetricType
	Save          bool
	Strict        bool
}

func (r *GridRequest) setDefaults() {
	if r.HexSize <= 0 {
		r.HexSize = DefaultHexSize
	}
	if r.SpacingFactor <= 0 {
		r.SpacingFactor = DefaultSpacingFactor
	}
	if r.Margin <= 0 {
		r.Margin = DefaultMargin
	}
	if r.OutputFormat == "" {
		r.OutputFormat = FormatSVG
	}
	if len(r.Metrics) == 0 {
		r.Metrics = []MetricType{MetricSynapseDensity, MetricCellCount}
	}
}

func (r *GridRequest) validate() error {
	if r.NeuronType == "" {
		return fmt.Errorf("neuron type must be non-empty")
	}
	if !r.SomaSide.Valid() {
		return fmt.Errorf("invalid soma side %q", r.SomaSide)
	}
	if !r.OutputFormat.Valid() {
		return fmt.Errorf("invalid output format %q", r.OutputFormat)
	}
	for _, m := range r.Metrics {
		if !m.Valid() {
			return fmt.Errorf("invalid metric type %q", m)
		}
	}
	return nil
}

// GridResult is the assembled output map: "{region}_{side}" → metric →
// artifact bytes, plus sink paths for saved artifacts and per-unit metric
// summaries for the surrounding report.
type GridResult struct {
	Maps      map[string]map[MetricType][]byte
	Paths     map[string]map[MetricType]string
	Summaries map[string]map[MetricType]MetricSummary
}

func newGridResult() *GridResult {
	return &GridResult{
		Maps:      make(map[string]map[MetricType][]byte),
		Paths:     make(map[string]map[MetricType]string),
		Summaries: make(map[string]map[MetricType]MetricSummary),
	}
}

// GridGenerator wires the validator, threshold calculator, colour mapper,
// layout engine and rendering engine into the region × side × metric
// iteration. All collaborators arrive through the constructor; there is no
// runtime service resolution.
type GridGenerator struct {
	source  ColumnSource
	manager *RenderManager
	cache   *RenderCache
}

// NewGridGenerator builds a generator. cache may be nil to disable
// memoization.
func NewGridGenerator(source ColumnSource, manager *RenderManager, cache *RenderCache) *GridGenerator {
	return &GridGenerator{source: source, manager: manager, cache: cache}
}

// mirrorFor resolves the mirroring convention for one grid. Left-soma pages
// mirror everything; combined pages mirror only left-side grids so they
// visually match the dedicated left-side report pages; right-soma pages are
// drawn unmirrored.
func mirrorFor(soma SomaSide, side string) bool {
	switch soma {
	case SomaLeft:
		return true
	case SomaCombined:
		return side == "L"
	default:
		return false
	}
}

// Generate runs the full pipeline for a request, sequentially. The first
// failing unit aborts; use GenerateBatch for isolated per-unit results.
func (g *GridGenerator) Generate(ctx context.Context, req GridRequest) (*GridResult, error) {
	req.setDefaults()
	if err := req.validate(); err != nil {
		return nil, err
	}

	if g.cache != nil {
		if res, ok := g.cache.Get(req.Fingerprint()); ok {
			return res, nil
		}
	}

	in, err := g.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	res := newGridResult()
	for _, region := range Regions {
		for _, side := range Sides {
			for _, metric := range req.Metrics {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				unit := gridUnit{Region: region, Side: side, Metric: metric}
				if err := g.renderUnit(ctx, req, in, unit, res); err != nil {
					return nil, fmt.Errorf("unit %s: %w", unit, err)
				}
			}
		}
	}

	if g.cache != nil {
		g.cache.Put(req.Fingerprint(), res)
	}
	return res, nil
}

// gridUnit identifies one independent render.
type gridUnit struct {
	Region string
	Side   string
	Metric MetricType
}

func (u gridUnit) String() string {
	return fmt.Sprintf("%s/%s/%s", u.Region, u.Side, u.Metric)
}

// gridInputs is the shared read-only state for all units of one request.
type gridInputs struct {
	columns []ColumnData
	byCell  map[string]map[CoordKey]*ColumnData // "region|side" → cell → column
	minmax  *MinMaxData
}

// prepare fetches and validates the input data once per request.
func (g *GridGenerator) prepare(ctx context.Context, req GridRequest) (*gridInputs, error) {
	records, err := g.source.ColumnRecords(ctx, req.NeuronType)
	if err != nil {
		return nil, fmt.Errorf("fetch column records: %w", err)
	}
	cols, err := NormalizeRecords(records)
	if err != nil {
		return nil, err
	}
	vr := ValidateColumnData(cols, req.Strict)
	if !vr.IsValid {
		return nil, fmt.Errorf("column data rejected: %s", strings.Join(vr.Errors, "; "))
	}
	for _, w := range vr.Warnings {
		monitoring.Warnf("%s: %s", req.NeuronType, w)
	}

	minmax, err := CalculateMinMaxData(cols, Regions, req.Strict)
	if err != nil {
		return nil, err
	}

	byCell := make(map[string]map[CoordKey]*ColumnData)
	for i := range cols {
		col := &cols[i]
		key := col.Region + "|" + col.Side
		cells, ok := byCell[key]
		if !ok {
			cells = make(map[CoordKey]*ColumnData)
			byCell[key] = cells
		}
		cells[col.Coordinate.Key()] = col
	}

	return &gridInputs{columns: cols, byCell: byCell, minmax: minmax}, nil
}

// renderUnit runs thresholds → colours → layout → rendering for a single
// (region, side, metric) unit and records the artifact in res.
func (g *GridGenerator) renderUnit(ctx context.Context, req GridRequest, in *gridInputs, unit gridUnit, res *GridResult) error {
	universe, err := g.source.HexUniverse(ctx, unit.Region, unit.Side)
	if err != nil {
		return fmt.Errorf("fetch hex universe: %w", err)
	}
	if len(universe) == 0 {
		monitoring.Warnf("empty hex universe for %s/%s, skipping", unit.Region, unit.Side)
		return nil
	}

	// Cells belonging to neighbouring regions are drawn too, in the
	// not-in-region grey, so the map shows the full eye outline.
	inRegion := make(map[CoordKey]bool, len(universe))
	seen := make(map[CoordKey]bool, len(universe))
	all := make([]ColumnCoordinate, 0, len(universe))
	for _, c := range universe {
		if seen[c.Key()] {
			continue
		}
		seen[c.Key()] = true
		inRegion[c.Key()] = true
		all = append(all, c)
	}
	for _, other := range Regions {
		if other == unit.Region {
			continue
		}
		neighbours, err := g.source.HexUniverse(ctx, other, unit.Side)
		if err != nil {
			return fmt.Errorf("fetch neighbour universe %s: %w", other, err)
		}
		for _, c := range neighbours {
			if seen[c.Key()] {
				continue
			}
			seen[c.Key()] = true
			all = append(all, c)
		}
	}

	layout, err := NewLayout(all, LayoutConfig{
		HexSize:       req.HexSize,
		SpacingFactor: req.SpacingFactor,
		Margin:        req.Margin,
		Mirror:        mirrorFor(req.SomaSide, unit.Side),
		SomaSide:      req.SomaSide,
		Region:        unit.Region,
	})
	if err != nil {
		return err
	}

	cells := in.byCell[unit.Region+"|"+unit.Side]
	regionCols := make([]ColumnData, 0, len(cells))
	values := make([]float64, 0, len(cells))
	for _, col := range cells {
		regionCols = append(regionCols, *col)
		values = append(values, col.MetricValue(unit.Metric))
	}

	opts := DefaultThresholdOptions()
	opts.Strict = req.Strict
	thresholds, err := CalculateThresholds(regionCols, unit.Metric, opts)
	if err != nil {
		return err
	}
	mapper := NewColorMapper(in.minmax)

	hexes := make([]ProcessedColumn, 0, len(all))
	for _, coord := range all {
		pc, err := g.processCell(coord, unit, cells, inRegion[coord.Key()], layout, mapper)
		if err != nil {
			return err
		}
		hexes = append(hexes, pc)
	}

	legend := BuildLegend(unit.Metric, thresholds)
	key := unit.Region + "_" + unit.Side

	artifact, err := g.manager.Render(req.OutputFormat, hexes, layout, legend)
	if err != nil {
		return err
	}
	if req.Save {
		if g.manager.sink == nil {
			return fmt.Errorf("save requested but no output sink configured")
		}
		name := Filename(unit.Region, req.NeuronType, unit.Side, unit.Metric, req.OutputFormat)
		path, err := g.manager.sink.Write(artifact, name)
		if err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
		putUnit(res.Paths, key, unit.Metric, path)
	}

	putUnit(res.Maps, key, unit.Metric, artifact)
	putUnit(res.Summaries, key, unit.Metric, SummarizeMetric(values))
	return nil
}

// processCell resolves status, colour, position and tooltip for one grid
// coordinate.
func (g *GridGenerator) processCell(coord ColumnCoordinate, unit gridUnit, cells map[CoordKey]*ColumnData, inRegion bool, layout *Layout, mapper *ColorMapper) (ProcessedColumn, error) {
	x, y := layout.PixelFor(coord)
	pc := ProcessedColumn{
		Coordinate:    coord,
		X:             x,
		Y:             y,
		Region:        unit.Region,
		Side:          unit.Side,
		Metric:        unit.Metric,
		TooltipLayers: []string{},
	}

	col, hasData := cells[coord.Key()]
	switch {
	case !inRegion:
		pc.Status = StatusNotInRegion
	case !hasData:
		pc.Status = StatusNoData
	case col.Status == StatusExcluded:
		pc.Status = StatusExcluded
	default:
		pc.Status = StatusHasData
		pc.Value = col.MetricValue(unit.Metric)
		pc.LayerValues = make([]float64, 0, len(col.Layers))
		pc.LayerColors = make([]string, 0, len(col.Layers))
		for _, l := range col.Layers {
			v := l.LayerMetricValue(unit.Metric)
			c, err := mapper.LayerColor(unit.Metric, unit.Region, v)
			if err != nil {
				return ProcessedColumn{}, err
			}
			pc.LayerValues = append(pc.LayerValues, v)
			pc.LayerColors = append(pc.LayerColors, c)
		}
	}

	color, err := mapper.ColumnColor(unit.Metric, unit.Region, pc.Value, pc.Status)
	if err != nil {
		return ProcessedColumn{}, err
	}
	pc.Color = color

	pc.Tooltip, pc.TooltipLayers = tooltipFor(&pc, col)
	return pc, nil
}

func putUnit[T any](m map[string]map[MetricType]T, key string, metric MetricType, v T) {
	inner, ok := m[key]
	if !ok {
		inner = make(map[MetricType]T)
		m[key] = inner
	}
	inner[metric] = v
}
