package eyemap

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// flakySink fails writes for left-side artifacts so a batch run has a mix of
// failing and succeeding units.
type flakySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (s *flakySink) Write(content []byte, filename string) (string, error) {
	if strings.Contains(filename, "_L_") {
		return "", fmt.Errorf("disk full")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		s.files = map[string][]byte{}
	}
	s.files[filename] = content
	return filename, nil
}

func TestGenerateBatch(t *testing.T) {
	source := newFakeSource()
	g := newTestGenerator(source, nil, nil)

	results, err := g.GenerateBatch(context.Background(), GridRequest{
		NeuronType: "Tm1",
		SomaSide:   SomaCombined,
	})
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}

	// 3 regions × 2 sides × 2 default metrics.
	if len(results) != 12 {
		t.Fatalf("got %d results, want 12", len(results))
	}

	runID := results[0].Unit.RunID
	ids := make(map[string]bool, len(results))
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("unit %s/%s/%s failed: %v", r.Unit.Region, r.Unit.Side, r.Unit.Metric, r.Err)
		}
		if r.Unit.RunID != runID {
			t.Errorf("unit %s has run ID %q, want %q", r.Unit.ID, r.Unit.RunID, runID)
		}
		if ids[r.Unit.ID] {
			t.Errorf("duplicate unit ID %q", r.Unit.ID)
		}
		ids[r.Unit.ID] = true

		if r.Unit.Region == "ME" && len(r.Artifact) == 0 {
			t.Errorf("ME unit %s/%s has no artifact", r.Unit.Side, r.Unit.Metric)
		}
		if r.Unit.Region != "ME" && len(r.Artifact) != 0 {
			t.Errorf("%s unit has an artifact despite empty universe", r.Unit.Region)
		}
	}
}

// A failing unit must not abort its siblings.
func TestGenerateBatch_PartialFailure(t *testing.T) {
	source := newFakeSource()
	sink := &flakySink{}
	g := newTestGenerator(source, sink, nil)

	results, err := g.GenerateBatch(context.Background(), GridRequest{
		NeuronType: "Tm1",
		SomaSide:   SomaCombined,
		Metrics:    []MetricType{MetricSynapseDensity},
		Save:       true,
	})
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}

	var failed, saved int
	for _, r := range results {
		switch {
		case r.Unit.Region != "ME":
			// Empty universe, skipped.
			if r.Err != nil {
				t.Errorf("%s unit errored: %v", r.Unit.Region, r.Err)
			}
		case r.Unit.Side == "L":
			if r.Err == nil {
				t.Error("left-side save succeeded despite failing sink")
			}
			failed++
		default:
			if r.Err != nil {
				t.Errorf("right-side unit failed: %v", r.Err)
			}
			if r.Path == "" {
				t.Error("right-side unit has no saved path")
			}
			saved++
		}
	}
	if failed != 1 || saved != 1 {
		t.Errorf("failed/saved = %d/%d, want 1/1", failed, saved)
	}
}

func TestGenerateBatch_Cancelled(t *testing.T) {
	g := newTestGenerator(newFakeSource(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := g.GenerateBatch(ctx, GridRequest{NeuronType: "Tm1", SomaSide: SomaRight})
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	for _, r := range results {
		if r.Err == nil {
			t.Errorf("unit %s/%s/%s ran despite cancelled context", r.Unit.Region, r.Unit.Side, r.Unit.Metric)
		}
	}
}
