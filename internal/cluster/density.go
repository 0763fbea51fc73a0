package cluster

import (
	"log/slog"

	"github.com/prospectd/prospectd/pkg/types"
)

// Point labels used during the density scan.
const (
	labelUnvisited = -2
	labelNoise     = -1
)

// densityStrategy implements standard density-based clustering (DBSCAN)
// over the (entropy, gradient, stability) subspace. A point with at
// least MinSamples neighbors within Eps (itself included) seeds a
// cluster; density-reachable points are absorbed transitively. Points
// assigned to no cluster are noise and excluded from the output.
type densityStrategy struct {
	cfg Config
}

func (d *densityStrategy) Name() string { return StrategyDensity }

func (d *densityStrategy) Cluster(features []types.FeatureVector) []*types.ResourceCluster {
	if len(features) == 0 {
		return nil
	}

	labels := make([]int, len(features))
	for i := range labels {
		labels[i] = labelUnvisited
	}

	nextID := 0
	for i := range features {
		if labels[i] != labelUnvisited {
			continue
		}

		neighbors := d.regionQuery(features, i)
		if len(neighbors) < d.cfg.MinSamples {
			labels[i] = labelNoise
			continue
		}

		labels[i] = nextID
		d.expand(features, labels, neighbors, nextID)
		nextID++
	}

	clusters := make([]*types.ResourceCluster, 0, nextID)
	for id := 0; id < nextID; id++ {
		var members []types.FeatureVector
		for i, l := range labels {
			if l == id {
				members = append(members, features[i])
			}
		}
		clusters = append(clusters, buildCluster(members))
	}

	var noise int
	for _, l := range labels {
		if l == labelNoise {
			noise++
		}
	}
	if noise > 0 {
		slog.Debug("cluster: density scan excluded noise points",
			"noise", noise, "clusters", nextID)
	}
	return clusters
}

// expand grows cluster id from the seed neighborhood. Noise points
// reachable from a core point are reclassified as border members.
func (d *densityStrategy) expand(features []types.FeatureVector, labels []int, queue []int, id int) {
	for head := 0; head < len(queue); head++ {
		j := queue[head]
		switch labels[j] {
		case labelNoise:
			labels[j] = id // border point
			continue
		case labelUnvisited:
			labels[j] = id
		default:
			continue // already claimed, possibly by this very cluster
		}

		neighbors := d.regionQuery(features, j)
		if len(neighbors) >= d.cfg.MinSamples {
			queue = append(queue, neighbors...)
		}
	}
}

// regionQuery returns the indices of every point within Eps of point i,
// i itself included.
func (d *densityStrategy) regionQuery(features []types.FeatureVector, i int) []int {
	var out []int
	for j := range features {
		if distance(features[i], features[j]) <= d.cfg.Eps {
			out = append(out, j)
		}
	}
	return out
}
