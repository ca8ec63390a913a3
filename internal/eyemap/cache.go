package eyemap

import (
	"sort"
	"strings"
	"sync"
)

// Fingerprint identifies one grid generation request for memoization. Two
// requests with equal fingerprints produce identical artifacts, so a cached
// result may be returned instead of recomputing.
type Fingerprint struct {
	NeuronType    string
	SomaSide      SomaSide
	Format        OutputFormat
	Metrics       string
	Save          bool
	HexSize       float64
	SpacingFactor float64
	Margin        float64
}

// Fingerprint derives the memoization key for a request. The metric list is
// flattened into the key in sorted order so its ordering does not split the
// cache.
func (r *GridRequest) Fingerprint() Fingerprint {
	names := make([]string, len(r.Metrics))
	for i, m := range r.Metrics {
		names[i] = string(m)
	}
	sort.Strings(names)
	return Fingerprint{
		NeuronType:    r.NeuronType,
		SomaSide:      r.SomaSide,
		Format:        r.OutputFormat,
		Metrics:       strings.Join(names, ","),
		Save:          r.Save,
		HexSize:       r.HexSize,
		SpacingFactor: r.SpacingFactor,
		Margin:        r.Margin,
	}
}

// RenderCache memoizes completed grid results. It is passed explicitly to
// the generator rather than living in package state, so ownership and
// lifetime are the caller's decision.
type RenderCache struct {
	mu      sync.RWMutex
	entries map[Fingerprint]*GridResult
	hits    int
	misses  int
}

// NewRenderCache returns an empty cache.
func NewRenderCache() *RenderCache {
	return &RenderCache{entries: make(map[Fingerprint]*GridResult)}
}

// Get returns the cached result for a fingerprint, if present. Callers must
// treat the result as read-only.
func (c *RenderCache) Get(fp Fingerprint) (*GridResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.entries[fp]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return res, ok
}

// Put stores a completed result.
func (c *RenderCache) Put(fp Fingerprint, res *GridResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fp] = res
}

// Stats reports hit/miss counts since construction.
func (c *RenderCache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Len returns the number of cached results.
func (c *RenderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
