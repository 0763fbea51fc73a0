package cluster

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/prospectd/prospectd/pkg/types"
)

// Strategy names accepted by New.
const (
	StrategyDensity   = "density"
	StrategyProximity = "proximity"
)

// Tagging thresholds, evaluated in fixed order against the cluster
// centroid. Order matters: the first tag assigned becomes the dominant
// tag that decides zone membership.
const (
	thermalTempThreshold      = 50.0
	vibrationEnergyThreshold  = 0.5
	stableStabilityThreshold  = 0.8
)

// Config holds the clustering tuning knobs shared by both strategies.
type Config struct {
	// Eps is the Euclidean neighborhood radius in the
	// (entropy, gradient, stability) feature subspace.
	Eps float64

	// MinSamples is the minimum neighborhood size, the point itself
	// included, required to seed a density cluster. The proximity
	// strategy ignores it.
	MinSamples int
}

// Strategy groups feature vectors into resource clusters. Every input
// vector ends up in exactly one cluster or is excluded as noise —
// membership is exhaustive and disjoint. Zero input vectors yield zero
// clusters, not an error.
type Strategy interface {
	Cluster(features []types.FeatureVector) []*types.ResourceCluster
	Name() string
}

// New selects a clustering strategy once at construction time.
//
// "density" is the preferred strategy. "proximity" is a deliberately
// weaker single-pass approximation kept as a fallback; selecting it is
// logged so operators know the output quality differs.
func New(name string, cfg Config) (Strategy, error) {
	if cfg.Eps <= 0 {
		return nil, fmt.Errorf("cluster: eps must be positive, got %v", cfg.Eps)
	}
	switch name {
	case StrategyDensity:
		if cfg.MinSamples < 1 {
			return nil, fmt.Errorf("cluster: min_samples must be at least 1, got %d", cfg.MinSamples)
		}
		return &densityStrategy{cfg: cfg}, nil
	case StrategyProximity:
		slog.Warn("cluster: proximity fallback selected — weaker approximation of density clustering",
			"eps", cfg.Eps)
		return &proximityStrategy{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("cluster: unknown strategy %q", name)
	}
}

// distance is the Euclidean distance in the three-dimensional
// (entropy, gradient, stability) subspace both strategies cluster in.
func distance(a, b types.FeatureVector) float64 {
	de := a.Entropy - b.Entropy
	dg := a.Gradient - b.Gradient
	ds := a.Stability - b.Stability
	return math.Sqrt(de*de + dg*dg + ds*ds)
}

// buildCluster assembles a ResourceCluster from member vectors: the
// centroid is the coordinatewise mean over all five feature fields, not
// only the three used for distance, and tags are assigned by threshold
// in fixed order. Scores stay zero until the zone builder applies the
// scorer.
func buildCluster(members []types.FeatureVector) *types.ResourceCluster {
	inv := 1 / float64(len(members))
	var c types.Centroid
	for _, m := range members {
		c.Entropy += m.Entropy * inv
		c.Gradient += m.Gradient * inv
		c.Stability += m.Stability * inv
		c.AvgTemp += m.AvgTemp * inv
		c.SpectralEnergy += m.SpectralEnergy * inv
	}

	var tags []string
	if c.AvgTemp > thermalTempThreshold {
		tags = append(tags, types.TagThermal)
	}
	if c.SpectralEnergy > vibrationEnergyThreshold {
		tags = append(tags, types.TagVibration)
	}
	if c.Stability > stableStabilityThreshold {
		tags = append(tags, types.TagStable)
	}
	if len(tags) == 0 {
		tags = append(tags, types.TagUnknown)
	}

	return &types.ResourceCluster{
		ID:              uuid.NewString(),
		Centroid:        c,
		EntropyGradient: c.Gradient,
		StabilityIndex:  c.Stability,
		Tags:            tags,
		Members:         len(members),
	}
}
