package eyemap

import (
	"context"
	"runtime"
	"sync"

	"github.com/google/uuid"
)

// BatchUnit identifies one independent (region, side, metric) render within
// a batch run.
type BatchUnit struct {
	ID     string
	RunID  string
	Region string
	Side   string
	Metric MetricType
}

// BatchResult carries the outcome of one unit: either the artifact and its
// summary, or the unit's error. One failing unit never aborts its siblings.
type BatchResult struct {
	Unit     BatchUnit
	Key      string
	Artifact []byte
	Path     string
	Summary  MetricSummary
	Err      error
}

// GenerateBatch renders all units of a request in parallel. The worker pool
// is sized min(NumCPU/2, unit count); workers share only the read-only
// prepared inputs, so no locking is needed around the pipeline itself.
// Cancellation is per-unit: a cancelled context stops unstarted units but
// never interrupts one mid-render.
func (g *GridGenerator) GenerateBatch(ctx context.Context, req GridRequest) ([]BatchResult, error) {
	req.setDefaults()
	if err := req.validate(); err != nil {
		return nil, err
	}

	in, err := g.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	var units []BatchUnit
	for _, region := range Regions {
		for _, side := range Sides {
			for _, metric := range req.Metrics {
				units = append(units, BatchUnit{
					ID:     uuid.NewString(),
					RunID:  runID,
					Region: region,
					Side:   side,
					Metric: metric,
				})
			}
		}
	}

	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}
	if workers > len(units) {
		workers = len(units)
	}

	jobs := make(chan BatchUnit)
	results := make([]BatchResult, len(units))
	index := make(map[string]int, len(units))
	for i, u := range units {
		index[u.ID] = i
	}

	var wg sync.WaitGroup
	var mu sync.Mutex // guards results writes from concurrent workers
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range jobs {
				res := g.runBatchUnit(ctx, req, in, u)
				mu.Lock()
				results[index[u.ID]] = res
				mu.Unlock()
			}
		}()
	}

	for _, u := range units {
		jobs <- u
	}
	close(jobs)
	wg.Wait()

	return results, nil
}

// runBatchUnit renders one unit into an isolated result, converting
// context cancellation into a per-unit error.
func (g *GridGenerator) runBatchUnit(ctx context.Context, req GridRequest, in *gridInputs, u BatchUnit) BatchResult {
	res := BatchResult{Unit: u, Key: u.Region + "_" + u.Side}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	unitRes := newGridResult()
	if err := g.renderUnit(ctx, req, in, gridUnit{Region: u.Region, Side: u.Side, Metric: u.Metric}, unitRes); err != nil {
		res.Err = err
		return res
	}
	if maps, ok := unitRes.Maps[res.Key]; ok {
		res.Artifact = maps[u.Metric]
	}
	if paths, ok := unitRes.Paths[res.Key]; ok {
		res.Path = paths[u.Metric]
	}
	if sums, ok := unitRes.Summaries[res.Key]; ok {
		res.Summary = sums[u.Metric]
	}
	return res
}
