package engine

import (
	"context"
	"log/slog"

	"github.com/prospectd/prospectd/internal/cluster"
	"github.com/prospectd/prospectd/internal/features"
	"github.com/prospectd/prospectd/internal/zones"
	"github.com/prospectd/prospectd/pkg/types"
)

// Engine composes the pipeline stages over one batch of telemetry
// windows: extraction, clustering, scoring and zone aggregation.
type Engine struct {
	extractor   *features.Extractor
	backend     cluster.Strategy
	builder     *zones.Builder
	parallelism int
}

// New assembles an Engine from its stages. parallelism caps concurrent
// feature extraction; values below 1 are treated as 1.
func New(extractor *features.Extractor, backend cluster.Strategy, builder *zones.Builder, parallelism int) *Engine {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Engine{
		extractor:   extractor,
		backend:     backend,
		builder:     builder,
		parallelism: parallelism,
	}
}

// Process runs the full pipeline over windows and returns the resulting
// opportunity zones, with no additional aggregation.
//
// Extraction runs concurrently but feature vectors reach the clustering
// backend in original window order, so results are reproducible. Empty
// windows are silently dropped — callers needing window-level
// diagnostics must pre-screen their input. Clustering happens in one
// batch call and zone building consumes the clusters in backend order.
func (e *Engine) Process(ctx context.Context, windows []types.TelemetryWindow) ([]*types.OpportunityZone, error) {
	vecs, dropped, err := e.extractor.ExtractAll(ctx, windows, e.parallelism)
	if err != nil {
		return nil, err
	}
	if len(dropped) > 0 {
		slog.Debug("engine: dropped empty windows", "count", len(dropped), "ids", dropped)
	}

	rcos := e.backend.Cluster(vecs)
	slog.Info("engine: batch clustered",
		"windows", len(windows),
		"features", len(vecs),
		"clusters", len(rcos),
		"strategy", e.backend.Name())

	return e.builder.Build(rcos), nil
}
