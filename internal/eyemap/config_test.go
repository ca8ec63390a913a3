package eyemap

import "testing"

func TestNewProcessingConfig(t *testing.T) {
	cfg, err := NewProcessingConfig(MetricSynapseDensity, SomaRight, "ME", FormatSVG)
	if err != nil {
		t.Fatalf("NewProcessingConfig: %v", err)
	}
	if cfg.HexSize != DefaultHexSize || cfg.SpacingFactor != DefaultSpacingFactor {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if got := cfg.EffectiveSize(); got != DefaultHexSize*DefaultSpacingFactor {
		t.Errorf("EffectiveSize = %v", got)
	}
}

func TestNewProcessingConfig_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		metric MetricType
		side   SomaSide
		region string
		format OutputFormat
	}{
		{"bad metric", "volume", SomaRight, "ME", FormatSVG},
		{"bad side", MetricSynapseDensity, "center", "ME", FormatSVG},
		{"empty region", MetricSynapseDensity, SomaRight, "", FormatSVG},
		{"bad format", MetricSynapseDensity, SomaRight, "ME", "pdf"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProcessingConfig(tt.metric, tt.side, tt.region, tt.format); err == nil {
				t.Error("invalid config accepted")
			}
		})
	}
}

// Failed updates must leave the previous value in place.
func TestProcessingConfig_SetRollback(t *testing.T) {
	cfg, err := NewProcessingConfig(MetricSynapseDensity, SomaRight, "ME", FormatSVG)
	if err != nil {
		t.Fatalf("NewProcessingConfig: %v", err)
	}

	if err := cfg.SetHexSize(8); err != nil {
		t.Fatalf("SetHexSize(8): %v", err)
	}
	if err := cfg.SetHexSize(-1); err == nil {
		t.Error("negative hex size accepted")
	}
	if cfg.HexSize != 8 {
		t.Errorf("HexSize = %v after failed update, want 8", cfg.HexSize)
	}

	if err := cfg.SetOutputFormat("pdf"); err == nil {
		t.Error("bad format accepted")
	}
	if cfg.OutputFormat != FormatSVG {
		t.Errorf("OutputFormat = %q after failed update, want svg", cfg.OutputFormat)
	}

	if err := cfg.SetSpacingFactor(0); err == nil {
		t.Error("zero spacing factor accepted")
	}
	if cfg.SpacingFactor != DefaultSpacingFactor {
		t.Errorf("SpacingFactor = %v after failed update", cfg.SpacingFactor)
	}
}
