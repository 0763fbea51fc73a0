package registry

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/prospectd/prospectd/pkg/types"
)

// Entry is a published zone together with the time it was last updated.
type Entry struct {
	Zone      *types.OpportunityZone
	UpdatedAt time.Time
}

// Registry is a thread-safe in-memory opportunity zone registry, keyed
// by zone id. It holds the output of the most recent pipeline runs so
// scheduling collaborators and mission risk estimators have a stable
// lookup surface without any persistence. A background goroutine (Run)
// periodically evicts zones that have not been re-published within the
// configured TTL — a zone from a stale run must not authorize a mission.
type Registry struct {
	mu   sync.RWMutex
	data map[string]*Entry
	ttl  time.Duration
	now  func() time.Time // injectable for deterministic tests
}

// New creates a Registry with the given TTL.
func New(ttl time.Duration) *Registry {
	return &Registry{
		data: make(map[string]*Entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Put stores or replaces the zone under zone.ID.
// Callers must not modify zone after calling Put.
func (r *Registry) Put(zone *types.OpportunityZone) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[zone.ID] = &Entry{Zone: zone, UpdatedAt: r.now()}
}

// PutAll publishes every zone of a pipeline run.
func (r *Registry) PutAll(zones []*types.OpportunityZone) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for _, z := range zones {
		r.data[z.ID] = &Entry{Zone: z, UpdatedAt: now}
	}
}

// Get returns the zone for the given id and whether a fresh entry was
// found. Entries older than the TTL are treated as absent even before
// eviction runs.
func (r *Registry) Get(zoneID string) (*types.OpportunityZone, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.data[zoneID]
	if !ok || !e.UpdatedAt.After(r.now().Add(-r.ttl)) {
		return nil, false
	}
	return e.Zone, true
}

// List returns all fresh zones sorted by aggregated opportunity score,
// highest first, with the zone id as tie-breaker.
func (r *Registry) List() []*types.OpportunityZone {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cutoff := r.now().Add(-r.ttl)
	out := make([]*types.OpportunityZone, 0, len(r.data))
	for _, e := range r.data {
		if e.UpdatedAt.After(cutoff) {
			out = append(out, e.Zone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AggregatedOpportunity != out[j].AggregatedOpportunity {
			return out[i].AggregatedOpportunity > out[j].AggregatedOpportunity
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Count returns the total number of entries currently held, including
// stale ones awaiting eviction.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// Evict removes entries whose UpdatedAt is older than now minus TTL.
// It returns the number of entries removed.
func (r *Registry) Evict(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := now.Add(-r.ttl)
	removed := 0
	for id, e := range r.data {
		if !e.UpdatedAt.After(cutoff) {
			delete(r.data, id)
			removed++
		}
	}
	return removed
}

// Run starts the background TTL eviction loop. It ticks at half the TTL
// interval (minimum 1 second) so stale zones disappear promptly. Run
// blocks until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) {
	interval := r.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := r.Evict(now); n > 0 {
				slog.Debug("registry: evicted stale zones", "count", n)
			}
		}
	}
}
