package mission

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/prospectd/prospectd/pkg/types"
)

// Launcher creates and runs missions with per-zone exclusivity: at most
// one mission runs against a given zone at a time. Concurrent Explore
// calls for the same zone coalesce onto the in-flight mission and share
// its outcome — a zone is never explored twice in parallel.
type Launcher struct {
	deps Collaborators
	opts Options
	sf   singleflight.Group
}

// NewLauncher returns a Launcher using deps and opts for every mission
// it creates.
func NewLauncher(deps Collaborators, opts Options) *Launcher {
	return &Launcher{deps: deps, opts: opts}
}

// Explore runs a fresh mission against zoneID and returns its discovery,
// nil when the mission resolved without one.
func (l *Launcher) Explore(ctx context.Context, zoneID string) (*types.Discovery, error) {
	v, err, shared := l.sf.Do(zoneID, func() (interface{}, error) {
		m := New(zoneID, l.deps, l.opts)
		return m.Run(ctx)
	})
	if shared {
		slog.Debug("mission: concurrent exploration coalesced", "zone", zoneID)
	}
	discovery, _ := v.(*types.Discovery)
	return discovery, err
}

// ExploreWithTolerance runs a mission with a caller-supplied risk
// tolerance override, the one knob the external scheduler may turn per
// invocation.
func (l *Launcher) ExploreWithTolerance(ctx context.Context, zoneID string, tolerance float64) (*types.Discovery, error) {
	v, err, _ := l.sf.Do(zoneID, func() (interface{}, error) {
		opts := l.opts
		opts.RiskTolerance = tolerance
		m := New(zoneID, l.deps, opts)
		return m.Run(ctx)
	})
	discovery, _ := v.(*types.Discovery)
	return discovery, err
}
