package eyemap

import "fmt"

// tooltipFor precomputes the hover text for one processed cell. Renderers
// refuse cells without this text, so every status gets at least a headline
// line and an empty (non-nil) layer list.
func tooltipFor(pc *ProcessedColumn, col *ColumnData) (string, []string) {
	head := fmt.Sprintf("%s %s %s", pc.Region, pc.Side, pc.Coordinate)
	layers := []string{}

	switch pc.Status {
	case StatusNotInRegion:
		return head + "\nnot in region", layers
	case StatusNoData:
		return head + "\nno data", layers
	case StatusExcluded:
		return head + "\nexcluded", layers
	}

	metricName := "synapses"
	if pc.Metric == MetricCellCount {
		metricName = "cells"
	}
	head += fmt.Sprintf("\n%s: %s", metricName, formatValue(pc.Value))

	if col != nil {
		for _, l := range col.Layers {
			layers = append(layers, fmt.Sprintf("layer %s: %s",
				DisplayLayerName(pc.Region, l.LayerIndex),
				formatValue(l.LayerMetricValue(pc.Metric))))
		}
	}
	return head, layers
}
