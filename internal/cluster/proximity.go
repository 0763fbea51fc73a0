package cluster

import (
	"log/slog"

	"github.com/prospectd/prospectd/pkg/types"
)

// proximityStrategy is the fallback grouping: a single pass in input
// order that joins every later unassigned point lying within Eps of the
// current seed. Unlike the density strategy there is no transitive
// reachability — membership depends only on the distance to the seed —
// so the result is a weaker approximation, not an equivalent. A seed
// with no neighbor within Eps is noise and is dropped.
type proximityStrategy struct {
	cfg Config
}

func (p *proximityStrategy) Name() string { return StrategyProximity }

func (p *proximityStrategy) Cluster(features []types.FeatureVector) []*types.ResourceCluster {
	if len(features) == 0 {
		return nil
	}

	assigned := make([]bool, len(features))
	var clusters []*types.ResourceCluster
	var noise int

	for i := range features {
		if assigned[i] {
			continue
		}
		assigned[i] = true

		members := []types.FeatureVector{features[i]}
		for j := i + 1; j < len(features); j++ {
			if assigned[j] {
				continue
			}
			if distance(features[i], features[j]) <= p.cfg.Eps {
				assigned[j] = true
				members = append(members, features[j])
			}
		}

		if len(members) == 1 {
			noise++
			continue
		}
		clusters = append(clusters, buildCluster(members))
	}

	if noise > 0 {
		slog.Debug("cluster: proximity pass dropped lone seeds",
			"noise", noise, "clusters", len(clusters))
	}
	return clusters
}
