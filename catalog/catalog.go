package catalog

import (
	"sync"

	"github.com/signalsfoundry/orbital-tracts/model"
)

// Entry pairs a tract record with its footprint geometry. The two are
// created together and share the tract identifier.
type Entry struct {
	Tract    model.Tract
	Geometry model.Geometry
}

// Catalog is the in-memory, thread-safe tract collection built up during a
// generation run. Entries are immutable once added; the catalog is the only
// mutable state a run holds.
type Catalog struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]Entry
}

// New constructs an empty catalog.
func New() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Add inserts a tract and its geometry. A duplicate identifier, or a
// geometry carrying a different identifier than its tract, is a
// ConsistencyError; the catalog never holds a partial or mismatched pair.
func (c *Catalog) Add(t model.Tract, g model.Geometry) error {
	if t.ID != g.TractID {
		return &model.ConsistencyError{
			TractID: t.ID,
			Reason:  "geometry belongs to tract " + g.TractID,
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[t.ID]; exists {
		return &model.ConsistencyError{TractID: t.ID, Reason: "duplicate tract identifier"}
	}
	c.entries[t.ID] = Entry{Tract: t, Geometry: g}
	c.order = append(c.order, t.ID)
	return nil
}

// Get returns the entry for the given identifier.
func (c *Catalog) Get(id string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	return e, ok
}

// List returns a snapshot of all entries in insertion order. Insertion order
// is deterministic for a deterministic tuple sequence, so repeated runs list
// identically.
func (c *Catalog) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]Entry, 0, len(c.order))
	for _, id := range c.order {
		res = append(res, c.entries[id])
	}
	return res
}

// ListZone returns the snapshot filtered to one orbit zone.
func (c *Catalog) ListZone(zone model.OrbitZone) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var res []Entry
	for _, id := range c.order {
		if e := c.entries[id]; e.Tract.Zone == zone {
			res = append(res, e)
		}
	}
	return res
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
