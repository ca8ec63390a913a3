package eyemap

import (
	"errors"
	"math"
	"testing"
)

func colsWithTotals(totals ...int) []ColumnData {
	cols := make([]ColumnData, len(totals))
	for i, t := range totals {
		cols[i] = ColumnData{
			Coordinate:    ColumnCoordinate{Hex1: i, Hex2: 0, Region: "ME"},
			Region:        "ME",
			Side:          "R",
			TotalSynapses: t,
			Status:        StatusHasData,
		}
	}
	return cols
}

func TestCalculateThresholds_PercentileTwoBins(t *testing.T) {
	opts := DefaultThresholdOptions()
	opts.NumBins = 2

	td, err := CalculateThresholds(colsWithTotals(10, 100), MetricSynapseDensity, opts)
	if err != nil {
		t.Fatalf("CalculateThresholds: %v", err)
	}
	want := []float64{10, 100}
	if len(td.AllLayers) != len(want) {
		t.Fatalf("AllLayers = %v, want %v", td.AllLayers, want)
	}
	for i := range want {
		if math.Abs(td.AllLayers[i]-want[i]) > 1e-9 {
			t.Errorf("AllLayers[%d] = %v, want %v", i, td.AllLayers[i], want[i])
		}
	}
	if td.Min != 10 || td.Max != 100 {
		t.Errorf("range = [%v,%v], want [10,100]", td.Min, td.Max)
	}
}

func TestCalculateThresholds_EqualSpacing(t *testing.T) {
	opts := DefaultThresholdOptions()
	opts.Method = ThresholdEqual

	td, err := CalculateThresholds(colsWithTotals(3, 17, 42, 80, 100), MetricSynapseDensity, opts)
	if err != nil {
		t.Fatalf("CalculateThresholds: %v", err)
	}
	if len(td.AllLayers) != 5 {
		t.Fatalf("got %d boundaries, want 5", len(td.AllLayers))
	}
	step := td.AllLayers[1] - td.AllLayers[0]
	for i := 2; i < len(td.AllLayers); i++ {
		d := td.AllLayers[i] - td.AllLayers[i-1]
		if math.Abs(d-step) > 1e-9 {
			t.Errorf("step %d = %v, want %v", i, d, step)
		}
	}
	if td.AllLayers[0] != 3 || td.AllLayers[4] != 100 {
		t.Errorf("endpoints = [%v,%v], want [3,100]", td.AllLayers[0], td.AllLayers[4])
	}
}

func TestCalculateThresholds_StdDevClipped(t *testing.T) {
	opts := DefaultThresholdOptions()
	opts.Method = ThresholdStdDev

	td, err := CalculateThresholds(colsWithTotals(1, 2, 3, 4, 1000), MetricSynapseDensity, opts)
	if err != nil {
		t.Fatalf("CalculateThresholds: %v", err)
	}
	for i, b := range td.AllLayers {
		if b < 1 || b > 1000 {
			t.Errorf("boundary %d = %v outside observed range [1,1000]", i, b)
		}
		if i > 0 && b < td.AllLayers[i-1] {
			t.Errorf("boundaries not monotonic at %d: %v", i, td.AllLayers)
		}
	}
}

func TestCalculateThresholds_ZerosExcluded(t *testing.T) {
	opts := DefaultThresholdOptions()
	opts.NumBins = 2

	td, err := CalculateThresholds(colsWithTotals(0, 0, 10, 100), MetricSynapseDensity, opts)
	if err != nil {
		t.Fatalf("CalculateThresholds: %v", err)
	}
	if td.Min != 10 {
		t.Errorf("Min = %v, want 10 (zeros are no-data, not observations)", td.Min)
	}
}

func TestCalculateThresholds_Empty(t *testing.T) {
	opts := DefaultThresholdOptions()

	td, err := CalculateThresholds(colsWithTotals(0, 0), MetricSynapseDensity, opts)
	if err != nil {
		t.Fatalf("non-strict: %v", err)
	}
	if td.Min != 0 || td.Max != 1 {
		t.Errorf("non-strict bounds = [%v,%v], want [0,1]", td.Min, td.Max)
	}

	opts.Strict = true
	_, err = CalculateThresholds(colsWithTotals(0, 0), MetricSynapseDensity, opts)
	var perr *DataProcessingError
	if !errors.As(err, &perr) {
		t.Fatalf("strict: got %v, want *DataProcessingError", err)
	}
}

func TestCalculateThresholds_BadOptions(t *testing.T) {
	cols := colsWithTotals(1, 2)
	if _, err := CalculateThresholds(cols, MetricSynapseDensity, ThresholdOptions{NumBins: 1, Method: ThresholdEqual}); err == nil {
		t.Error("NumBins=1 accepted")
	}
	if _, err := CalculateThresholds(cols, MetricType("volume"), DefaultThresholdOptions()); err == nil {
		t.Error("unknown metric accepted")
	}
	opts := DefaultThresholdOptions()
	opts.Method = ThresholdMethod("median")
	if _, err := CalculateThresholds(cols, MetricSynapseDensity, opts); err == nil {
		t.Error("unknown method accepted")
	}
}

func TestCalculateThresholds_PerLayer(t *testing.T) {
	cols := colsWithTotals(10, 100)
	cols[0].Layers = []LayerData{{LayerIndex: 0, SynapseCount: 4}, {LayerIndex: 1, SynapseCount: 6}}
	cols[1].Layers = []LayerData{{LayerIndex: 0, SynapseCount: 40}, {LayerIndex: 1, SynapseCount: 60}}

	opts := DefaultThresholdOptions()
	opts.NumBins = 2
	td, err := CalculateThresholds(cols, MetricSynapseDensity, opts)
	if err != nil {
		t.Fatalf("CalculateThresholds: %v", err)
	}
	if len(td.Layers) != 2 {
		t.Fatalf("got %d layer groups, want 2", len(td.Layers))
	}
	if b := td.Layers[0]; b[0] != 4 || b[1] != 40 {
		t.Errorf("layer 0 boundaries = %v, want [4,40]", b)
	}
	if b := td.Layers[1]; b[0] != 6 || b[1] != 60 {
		t.Errorf("layer 1 boundaries = %v, want [6,60]", b)
	}
}
