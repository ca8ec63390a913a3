package eyemap

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/floesche/eyemap.report/internal/monitoring"
)

// ThresholdMethod selects how bin boundaries are derived from the data.
type ThresholdMethod string

const (
	ThresholdPercentile ThresholdMethod = "percentile"
	ThresholdQuantile   ThresholdMethod = "quantile"
	ThresholdEqual      ThresholdMethod = "equal"
	ThresholdStdDev     ThresholdMethod = "std_dev"
)

// ThresholdOptions configures CalculateThresholds. The zero value is not
// useful; start from DefaultThresholdOptions.
type ThresholdOptions struct {
	NumBins      int
	Method       ThresholdMethod
	ExcludeZeros bool
	Strict       bool
}

// DefaultThresholdOptions matches the legend used on the report pages:
// five bins over the percentile distribution, zeros excluded because a zero
// observation means "no data" rather than a measured zero.
func DefaultThresholdOptions() ThresholdOptions {
	return ThresholdOptions{
		NumBins:      5,
		Method:       ThresholdPercentile,
		ExcludeZeros: true,
	}
}

// ThresholdData holds normalization bounds for a metric: the bin boundaries
// over all layers combined, the same boundaries grouped per layer index, and
// the observed value range.
type ThresholdData struct {
	AllLayers []float64
	Layers    map[int][]float64
	Min       float64
	Max       float64
}

// CalculateThresholds derives bin boundaries for a metric over the given
// columns. Per-layer thresholds are computed identically after grouping
// values by layer index. With no usable observations the result degrades to
// the documented default bounds (0,1) in non-strict mode and fails with a
// *DataProcessingError in strict mode.
func CalculateThresholds(cols []ColumnData, metric MetricType, opts ThresholdOptions) (*ThresholdData, error) {
	if opts.NumBins < 2 {
		return nil, fmt.Errorf("num bins must be at least 2, got %d", opts.NumBins)
	}
	if !metric.Valid() {
		return nil, fmt.Errorf("invalid metric type %q", metric)
	}
	switch opts.Method {
	case ThresholdPercentile, ThresholdQuantile, ThresholdEqual, ThresholdStdDev:
	default:
		return nil, fmt.Errorf("unknown threshold method %q", opts.Method)
	}

	all := make([]float64, 0, len(cols))
	byLayer := make(map[int][]float64)
	for i := range cols {
		col := &cols[i]
		if v := col.MetricValue(metric); !opts.ExcludeZeros || v != 0 {
			all = append(all, v)
		}
		for _, l := range col.Layers {
			if v := l.LayerMetricValue(metric); !opts.ExcludeZeros || v != 0 {
				byLayer[l.LayerIndex] = append(byLayer[l.LayerIndex], v)
			}
		}
	}

	if len(all) == 0 {
		err := &DataProcessingError{
			Op:  "calculate_thresholds",
			Msg: fmt.Sprintf("no usable values for metric %q", metric),
		}
		if opts.Strict {
			return nil, err
		}
		monitoring.Warnf("%v; using default bounds [0,1]", err)
		return &ThresholdData{
			AllLayers: binBoundaries([]float64{0, 1}, opts),
			Layers:    map[int][]float64{},
			Min:       0,
			Max:       1,
		}, nil
	}

	sort.Float64s(all)
	td := &ThresholdData{
		AllLayers: binBoundaries(all, opts),
		Layers:    make(map[int][]float64, len(byLayer)),
		Min:       all[0],
		Max:       all[len(all)-1],
	}
	for idx, vals := range byLayer {
		sort.Float64s(vals)
		td.Layers[idx] = binBoundaries(vals, opts)
	}
	return td, nil
}

// binBoundaries computes opts.NumBins boundary values over sorted data.
func binBoundaries(sorted []float64, opts ThresholdOptions) []float64 {
	n := opts.NumBins
	out := make([]float64, n)
	lo, hi := sorted[0], sorted[len(sorted)-1]

	switch opts.Method {
	case ThresholdQuantile, ThresholdPercentile:
		// Percentiles over [0,100] and quantiles over [0,1] are the same
		// evenly spaced probe points.
		for i := 0; i < n; i++ {
			p := float64(i) / float64(n-1)
			out[i] = stat.Quantile(p, stat.LinInterp, sorted, nil)
		}
	case ThresholdStdDev:
		mean := stat.Mean(sorted, nil)
		sigma := 0.0
		if len(sorted) > 1 {
			sigma = stat.StdDev(sorted, nil)
		}
		ks := make([]float64, n)
		floats.Span(ks, -2, 2)
		for i, k := range ks {
			v := mean + k*sigma
			// Clip to the observed range so bins stay meaningful for
			// heavily skewed data.
			if v < lo {
				v = lo
			}
			if v > hi {
				v = hi
			}
			out[i] = v
		}
	default: // ThresholdEqual
		floats.Span(out, lo, hi)
	}
	return out
}
