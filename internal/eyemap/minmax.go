package eyemap

import (
	"fmt"

	"github.com/floesche/eyemap.report/internal/monitoring"
)

// Bounds is an inclusive value range used for colour normalization.
type Bounds struct {
	Min float64
	Max float64
}

// MinMaxData holds per-region and global bounds for each metric. Bounds are
// computed over strictly positive observations; zero is reserved for
// "no data". Regions with no positive observations use the global bound so a
// sparse region still renders with a sensible legend.
type MinMaxData struct {
	Global    map[MetricType]Bounds
	PerRegion map[MetricType]map[string]Bounds
}

// BoundsFor returns the bounds for (metric, region), falling back to the
// global bound when the region has none.
func (m *MinMaxData) BoundsFor(metric MetricType, region string) Bounds {
	if regions, ok := m.PerRegion[metric]; ok {
		if b, ok := regions[region]; ok {
			return b
		}
	}
	return m.Global[metric]
}

// CalculateMinMaxData computes global and per-region bounds for every metric
// over the strictly positive values in cols. The regions argument fixes which
// regions get an entry; nil means the standard three. With no positive
// observations at all, the global bound degrades to (0,1) with a warning in
// non-strict mode and fails with a *DataProcessingError when strict is set.
func CalculateMinMaxData(cols []ColumnData, regions []string, strict bool) (*MinMaxData, error) {
	if regions == nil {
		regions = Regions
	}
	out := &MinMaxData{
		Global:    make(map[MetricType]Bounds, 2),
		PerRegion: make(map[MetricType]map[string]Bounds, 2),
	}

	for _, metric := range []MetricType{MetricSynapseDensity, MetricCellCount} {
		var globalSeen bool
		var global Bounds
		perRegion := make(map[string]Bounds, len(regions))

		for i := range cols {
			col := &cols[i]
			v := col.MetricValue(metric)
			if v <= 0 {
				continue
			}
			if !globalSeen {
				global = Bounds{Min: v, Max: v}
				globalSeen = true
			} else {
				if v < global.Min {
					global.Min = v
				}
				if v > global.Max {
					global.Max = v
				}
			}
			b, ok := perRegion[col.Region]
			if !ok {
				perRegion[col.Region] = Bounds{Min: v, Max: v}
				continue
			}
			if v < b.Min {
				b.Min = v
			}
			if v > b.Max {
				b.Max = v
			}
			perRegion[col.Region] = b
		}

		if !globalSeen {
			err := &DataProcessingError{
				Op:  "calculate_min_max",
				Msg: fmt.Sprintf("no positive values for metric %q", metric),
			}
			if strict {
				return nil, err
			}
			monitoring.Warnf("%v; using default bounds [0,1]", err)
			global = Bounds{Min: 0, Max: 1}
		}

		out.Global[metric] = global
		regionBounds := make(map[string]Bounds, len(regions))
		for _, r := range regions {
			if b, ok := perRegion[r]; ok {
				regionBounds[r] = b
			}
			// Regions without positive observations get no entry;
			// BoundsFor falls back to the global bound.
		}
		out.PerRegion[metric] = regionBounds
	}
	return out, nil
}
