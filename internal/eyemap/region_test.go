package eyemap

import "testing"

func TestRegionConfigFor(t *testing.T) {
	if got := LayerCountFor("ME"); got != 10 {
		t.Errorf("ME layers = %d, want 10", got)
	}
	if got := LayerCountFor("LO"); got != 7 {
		t.Errorf("LO layers = %d, want 7", got)
	}
	if got := LayerCountFor("LOP"); got != 4 {
		t.Errorf("LOP layers = %d, want 4", got)
	}

	// Unknown regions fall back to the ME layer configuration but keep
	// their own name.
	cfg := RegionConfigFor("AME")
	if cfg.LayerCount != 10 {
		t.Errorf("fallback layers = %d, want 10", cfg.LayerCount)
	}
	if cfg.Name != "AME" {
		t.Errorf("fallback name = %q, want AME", cfg.Name)
	}
}

func TestDisplayLayerName(t *testing.T) {
	tests := []struct {
		region string
		layer  int
		want   string
	}{
		{"ME", 3, "3"},
		{"LO", 4, "4"},
		{"LO", 5, "5A"},
		{"LO", 6, "5B"},
		{"LO", 7, "6"},
		{"LOP", 2, "2"},
	}
	for _, tt := range tests {
		if got := DisplayLayerName(tt.region, tt.layer); got != tt.want {
			t.Errorf("DisplayLayerName(%s, %d) = %q, want %q", tt.region, tt.layer, got, tt.want)
		}
	}
}

func TestControlDimensionsFor(t *testing.T) {
	me := ControlDimensionsFor("ME")
	lop := ControlDimensionsFor("LOP")
	if me.PanelHeight <= lop.PanelHeight {
		t.Errorf("ME panel (%v) should be taller than LOP panel (%v)", me.PanelHeight, lop.PanelHeight)
	}
	// 11 buttons of 18px with 10 gaps of 4px and 6px padding on each side.
	if want := 11*18.0 + 10*4.0 + 12.0; me.PanelHeight != want {
		t.Errorf("ME panel height = %v, want %v", me.PanelHeight, want)
	}
}
