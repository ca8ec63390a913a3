package eyemap

import (
	"fmt"
	"math"

	"github.com/floesche/eyemap.report/internal/monitoring"
)

// requiredFields must be present in every raw column record.
var requiredFields = []string{"hex1", "hex2", "region", "side"}

// NormalizeInput converts raw column records into validated ColumnData.
// Each element of raw may be a map[string]any (as delivered by the upstream
// data source) or an already-typed ColumnData / *ColumnData, which is
// validated and passed through unchanged, making the operation idempotent.
//
// It fails with a *ValidationError naming the offending index and field for
// missing required keys, non-numeric coordinate or count fields, an invalid
// side value, or a duplicate (region, side, hex1, hex2) coordinate.
func NormalizeInput(raw []any) ([]ColumnData, error) {
	out := make([]ColumnData, 0, len(raw))
	seen := make(map[string]int, len(raw))

	for i, rec := range raw {
		var col ColumnData
		switch v := rec.(type) {
		case ColumnData:
			col = v
		case *ColumnData:
			if v == nil {
				return nil, &ValidationError{Index: i, Msg: "nil column record"}
			}
			col = *v
		case map[string]any:
			c, err := normalizeRecord(i, v)
			if err != nil {
				return nil, err
			}
			col = c
		default:
			return nil, &ValidationError{Index: i, Msg: fmt.Sprintf("unsupported record type %T", rec)}
		}

		if err := checkColumn(i, &col); err != nil {
			return nil, err
		}

		dupKey := fmt.Sprintf("%s|%s|%d|%d", col.Region, col.Side, col.Coordinate.Hex1, col.Coordinate.Hex2)
		if prev, ok := seen[dupKey]; ok {
			return nil, &ValidationError{
				Index: i,
				Field: "hex1/hex2",
				Msg:   fmt.Sprintf("duplicate coordinate %s for %s/%s (first seen at record %d)", col.Coordinate, col.Region, col.Side, prev),
			}
		}
		seen[dupKey] = i
		out = append(out, col)
	}
	return out, nil
}

// NormalizeRecords is a convenience wrapper for callers that already hold
// their input as raw maps.
func NormalizeRecords(records []map[string]any) ([]ColumnData, error) {
	raw := make([]any, len(records))
	for i, r := range records {
		raw[i] = r
	}
	return NormalizeInput(raw)
}

func normalizeRecord(i int, m map[string]any) (ColumnData, error) {
	for _, f := range requiredFields {
		if _, ok := m[f]; !ok {
			return ColumnData{}, &ValidationError{Index: i, Field: f, Msg: "missing required field"}
		}
	}

	hex1, err := intField(i, m, "hex1")
	if err != nil {
		return ColumnData{}, err
	}
	hex2, err := intField(i, m, "hex2")
	if err != nil {
		return ColumnData{}, err
	}
	region, err := stringField(i, m, "region")
	if err != nil {
		return ColumnData{}, err
	}
	side, err := stringField(i, m, "side")
	if err != nil {
		return ColumnData{}, err
	}

	col := ColumnData{
		Coordinate: ColumnCoordinate{Hex1: hex1, Hex2: hex2, Region: region},
		Region:     region,
		Side:       side,
		Status:     StatusHasData,
	}

	if _, ok := m["total_synapses"]; ok {
		if col.TotalSynapses, err = intField(i, m, "total_synapses"); err != nil {
			return ColumnData{}, err
		}
	}
	if _, ok := m["neuron_count"]; ok {
		if col.NeuronCount, err = intField(i, m, "neuron_count"); err != nil {
			return ColumnData{}, err
		}
	}
	if raw, ok := m["layers"]; ok {
		layers, err := normalizeLayers(i, raw)
		if err != nil {
			return ColumnData{}, err
		}
		col.Layers = layers
	}
	if _, ok := m["status"]; ok {
		s, err := stringField(i, m, "status")
		if err != nil {
			return ColumnData{}, err
		}
		col.Status = ColumnStatus(s)
	}
	if meta, ok := m["metadata"].(map[string]any); ok {
		col.Metadata = meta
	}
	return col, nil
}

func normalizeLayers(i int, raw any) ([]LayerData, error) {
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case []map[string]any:
		items = make([]any, len(v))
		for j, m := range v {
			items[j] = m
		}
	case []LayerData:
		return v, nil
	default:
		return nil, &ValidationError{Index: i, Field: "layers", Msg: fmt.Sprintf("expected list, got %T", raw)}
	}

	layers := make([]LayerData, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			if ld, ok := item.(LayerData); ok {
				layers = append(layers, ld)
				continue
			}
			return nil, &ValidationError{Index: i, Field: "layers", Msg: fmt.Sprintf("expected map entries, got %T", item)}
		}
		var l LayerData
		var err error
		if l.LayerIndex, err = intField(i, m, "layer_index"); err != nil {
			return nil, err
		}
		if _, ok := m["synapse_count"]; ok {
			if l.SynapseCount, err = intField(i, m, "synapse_count"); err != nil {
				return nil, err
			}
		}
		if _, ok := m["neuron_count"]; ok {
			if l.NeuronCount, err = intField(i, m, "neuron_count"); err != nil {
				return nil, err
			}
		}
		if raw, ok := m["value"]; ok {
			f, ok := asFloat(raw)
			if !ok {
				return nil, &ValidationError{Index: i, Field: "value", Msg: fmt.Sprintf("expected number, got %T", raw)}
			}
			l.Value = f
		}
		if c, ok := m["color"].(string); ok {
			l.Color = c
		}
		layers = append(layers, l)
	}
	return layers, nil
}

// checkColumn enforces the structural invariants on a single column.
func checkColumn(i int, col *ColumnData) error {
	if col.Region == "" {
		return &ValidationError{Index: i, Field: "region", Msg: "must be non-empty"}
	}
	if col.Side != "L" && col.Side != "R" {
		return &ValidationError{Index: i, Field: "side", Msg: fmt.Sprintf("must be %q or %q, got %q", "L", "R", col.Side)}
	}
	if col.TotalSynapses < 0 {
		return &ValidationError{Index: i, Field: "total_synapses", Msg: "must be non-negative"}
	}
	if col.NeuronCount < 0 {
		return &ValidationError{Index: i, Field: "neuron_count", Msg: "must be non-negative"}
	}
	switch col.Status {
	case StatusHasData, StatusNoData, StatusNotInRegion, StatusExcluded:
	case "":
		col.Status = StatusHasData
	default:
		return &ValidationError{Index: i, Field: "status", Msg: fmt.Sprintf("unknown status %q", col.Status)}
	}
	for _, l := range col.Layers {
		if l.LayerIndex < 0 {
			return &ValidationError{Index: i, Field: "layer_index", Msg: "must be non-negative"}
		}
		if l.SynapseCount < 0 {
			return &ValidationError{Index: i, Field: "synapse_count", Msg: "must be non-negative"}
		}
		if l.NeuronCount < 0 {
			return &ValidationError{Index: i, Field: "neuron_count", Msg: "must be non-negative"}
		}
	}
	return nil
}

// ValidationResult summarises a cross-validation pass over typed columns.
type ValidationResult struct {
	IsValid        bool
	Errors         []string
	Warnings       []string
	ValidatedCount int
	RejectedCount  int
}

// ValidateColumnData cross-validates typed columns. Structural problems are
// errors. A mismatch between the per-layer synapse sum and the column total
// is a warning, promoted to an error when strict is set; the source data
// legitimately contains columns whose layer assignment missed some synapses.
func ValidateColumnData(cols []ColumnData, strict bool) ValidationResult {
	res := ValidationResult{IsValid: true}
	for i := range cols {
		col := &cols[i]
		if err := checkColumn(i, col); err != nil {
			res.Errors = append(res.Errors, err.Error())
			res.RejectedCount++
			continue
		}

		if len(col.Layers) > 0 && col.TotalSynapses > 0 {
			sum := 0
			for _, n := range col.SynapsesPerLayer() {
				sum += n
			}
			if sum != col.TotalSynapses {
				msg := fmt.Sprintf("column %s %s/%s: layer synapse sum %d != total %d",
					col.Coordinate, col.Region, col.Side, sum, col.TotalSynapses)
				if strict {
					res.Errors = append(res.Errors, msg)
					res.RejectedCount++
					continue
				}
				res.Warnings = append(res.Warnings, msg)
				monitoring.Warnf("%s", msg)
			}
		}
		res.ValidatedCount++
	}
	res.IsValid = len(res.Errors) == 0
	return res
}

func intField(i int, m map[string]any, key string) (int, error) {
	v, ok := m[key]
	if !ok {
		return 0, &ValidationError{Index: i, Field: key, Msg: "missing required field"}
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, &ValidationError{Index: i, Field: key, Msg: fmt.Sprintf("expected integer, got %v", n)}
		}
		return int(n), nil
	default:
		return 0, &ValidationError{Index: i, Field: key, Msg: fmt.Sprintf("expected number, got %T", v)}
	}
}

func stringField(i int, m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", &ValidationError{Index: i, Field: key, Msg: "missing required field"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &ValidationError{Index: i, Field: key, Msg: fmt.Sprintf("expected string, got %T", v)}
	}
	return s, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
