package columnstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/floesche/eyemap.report/internal/eyemap"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "columns.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_ColumnRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	col := eyemap.ColumnData{
		Coordinate:    eyemap.ColumnCoordinate{Hex1: 3, Hex2: 7, Region: "ME"},
		Region:        "ME",
		Side:          "L",
		TotalSynapses: 42,
		NeuronCount:   5,
		Status:        eyemap.StatusHasData,
		Layers: []eyemap.LayerData{
			{LayerIndex: 1, SynapseCount: 30, NeuronCount: 3, Value: 30},
			{LayerIndex: 2, SynapseCount: 12, NeuronCount: 2, Value: 12},
		},
	}
	if err := s.InsertColumn(ctx, "Tm1", col); err != nil {
		t.Fatalf("InsertColumn: %v", err)
	}

	records, err := s.ColumnRecords(ctx, "Tm1")
	if err != nil {
		t.Fatalf("ColumnRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	// The records must round-trip through the validator unchanged.
	cols, err := eyemap.NormalizeRecords(records)
	if err != nil {
		t.Fatalf("NormalizeRecords: %v", err)
	}
	got := cols[0]
	if got.Coordinate.Hex1 != 3 || got.Coordinate.Hex2 != 7 {
		t.Errorf("coordinate = %v, want (3,7)", got.Coordinate)
	}
	if got.TotalSynapses != 42 || got.NeuronCount != 5 {
		t.Errorf("counts = %d/%d, want 42/5", got.TotalSynapses, got.NeuronCount)
	}
	if len(got.Layers) != 2 || got.Layers[0].SynapseCount != 30 {
		t.Errorf("layers = %+v", got.Layers)
	}
}

func TestStore_ColumnRecords_UnknownType(t *testing.T) {
	s := openTestStore(t)

	records, err := s.ColumnRecords(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("ColumnRecords: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records for unknown neuron type, want 0", len(records))
	}
}

func TestStore_HexUniverse(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	coords := []eyemap.ColumnCoordinate{
		{Hex1: 0, Hex2: 0}, {Hex1: 0, Hex2: 1}, {Hex1: 1, Hex2: 0},
	}
	if err := s.InsertUniverse(ctx, "LO", "R", coords); err != nil {
		t.Fatalf("InsertUniverse: %v", err)
	}
	// Re-inserting must be a no-op, not an error
	if err := s.InsertUniverse(ctx, "LO", "R", coords[:1]); err != nil {
		t.Fatalf("InsertUniverse repeat: %v", err)
	}

	got, err := s.HexUniverse(ctx, "LO", "R")
	if err != nil {
		t.Fatalf("HexUniverse: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d coords, want 3", len(got))
	}
	for _, c := range got {
		if c.Region != "LO" {
			t.Errorf("coordinate region = %q, want LO", c.Region)
		}
	}

	other, err := s.HexUniverse(ctx, "LO", "L")
	if err != nil {
		t.Fatalf("HexUniverse other side: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("got %d coords for empty side, want 0", len(other))
	}
}

func TestOpen_MigratesTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.db")
	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	s1.Close()

	// Second open must see the schema already in place
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	s2.Close()
}
