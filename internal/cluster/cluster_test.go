package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectd/prospectd/pkg/types"
)

// fv builds a feature vector positioned at (entropy, gradient,
// stability) with the given auxiliary means.
func fv(entropy, gradient, stability, avgTemp, spectral float64) types.FeatureVector {
	return types.FeatureVector{
		Entropy:        entropy,
		Gradient:       gradient,
		Stability:      stability,
		AvgTemp:        avgTemp,
		SpectralEnergy: spectral,
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		cfg      Config
	}{
		{"negative eps", StrategyDensity, Config{Eps: -1, MinSamples: 2}},
		{"zero eps", StrategyProximity, Config{Eps: 0}},
		{"zero min samples", StrategyDensity, Config{Eps: 0.5, MinSamples: 0}},
		{"unknown strategy", "kmeans", Config{Eps: 0.5, MinSamples: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.strategy, tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestCluster_EmptyInput(t *testing.T) {
	for _, name := range []string{StrategyDensity, StrategyProximity} {
		s, err := New(name, Config{Eps: 0.5, MinSamples: 1})
		require.NoError(t, err)
		assert.Empty(t, s.Cluster(nil), name)
	}
}

func TestDensity_HotAndColdWindowsSplit(t *testing.T) {
	// One hot, high-variation profile and one cool, flat profile are far
	// apart along the gradient axis, so even a loose eps keeps them in
	// separate clusters. The hot cluster must come out tagged thermal.
	s, err := New(StrategyDensity, Config{Eps: 5, MinSamples: 1})
	require.NoError(t, err)

	hot := fv(2.8, 12.0, 0.02, 80, 0.1)
	cold := fv(1.0, 0.1, 0.99, 20, 0.0)

	rcos := s.Cluster([]types.FeatureVector{hot, cold})
	require.Len(t, rcos, 2)

	var thermal *types.ResourceCluster
	for _, rc := range rcos {
		if rc.Centroid.AvgTemp > 50 {
			thermal = rc
		}
	}
	require.NotNil(t, thermal)
	assert.Contains(t, thermal.Tags, types.TagThermal)
}

func TestDensity_PartitionIsExhaustiveAndDisjoint(t *testing.T) {
	// Two dense groups of three plus one far outlier: cluster sizes plus
	// noise must account for every input exactly once.
	points := []types.FeatureVector{
		fv(1.0, 1.0, 0.5, 30, 0),
		fv(1.1, 1.0, 0.5, 31, 0),
		fv(1.0, 1.1, 0.5, 29, 0),
		fv(4.0, 8.0, 0.1, 70, 0.6),
		fv(4.1, 8.1, 0.1, 72, 0.6),
		fv(4.0, 8.2, 0.1, 71, 0.6),
		fv(9.0, 0.0, 0.9, 10, 0), // noise
	}
	s, err := New(StrategyDensity, Config{Eps: 0.5, MinSamples: 2})
	require.NoError(t, err)

	rcos := s.Cluster(points)
	require.Len(t, rcos, 2)

	total := 0
	for _, rc := range rcos {
		total += rc.Members
	}
	assert.Equal(t, len(points)-1, total, "one point is noise, the rest are clustered")
}

func TestDensity_AllNoise(t *testing.T) {
	s, err := New(StrategyDensity, Config{Eps: 0.1, MinSamples: 3})
	require.NoError(t, err)

	rcos := s.Cluster([]types.FeatureVector{
		fv(0, 0, 0, 0, 0),
		fv(5, 5, 0.5, 0, 0),
	})
	assert.Empty(t, rcos)
}

func TestProximity_LoneSeedIsNoise(t *testing.T) {
	s, err := New(StrategyProximity, Config{Eps: 0.5})
	require.NoError(t, err)

	rcos := s.Cluster([]types.FeatureVector{
		fv(0, 0, 0.5, 20, 0),
		fv(8, 8, 0.1, 80, 0), // nowhere near the seed
	})
	assert.Empty(t, rcos, "seeds without neighbors are dropped, not singleton clusters")
}

func TestProximity_SeedDistanceOnly(t *testing.T) {
	// A chain a—b—c where only consecutive links are within eps: the
	// seed-distance pass groups {a, b} and drops c as a lone seed, where
	// full density reachability would have joined all three. This is the
	// documented weaker behavior.
	a := fv(0, 0, 0, 10, 0)
	b := fv(0, 0.9, 0, 10, 0)
	c := fv(0, 1.8, 0, 10, 0)

	s, err := New(StrategyProximity, Config{Eps: 1})
	require.NoError(t, err)

	rcos := s.Cluster([]types.FeatureVector{a, b, c})
	require.Len(t, rcos, 1)
	assert.Equal(t, 2, rcos[0].Members)
}

func TestBuildCluster_CentroidAndTagOrder(t *testing.T) {
	// Centroid averages all five fields; both thermal and vibration
	// thresholds trip here and thermal must stay first — tag order
	// decides zone membership downstream.
	members := []types.FeatureVector{
		fv(2.0, 4.0, 0.9, 60, 0.8),
		fv(3.0, 6.0, 0.7, 70, 0.6),
	}
	rc := buildCluster(members)

	assert.InDelta(t, 2.5, rc.Centroid.Entropy, 1e-12)
	assert.InDelta(t, 5.0, rc.Centroid.Gradient, 1e-12)
	assert.InDelta(t, 0.8, rc.Centroid.Stability, 1e-12)
	assert.InDelta(t, 65.0, rc.Centroid.AvgTemp, 1e-12)
	assert.InDelta(t, 0.7, rc.Centroid.SpectralEnergy, 1e-12)

	assert.Equal(t, rc.Centroid.Gradient, rc.EntropyGradient)
	assert.Equal(t, rc.Centroid.Stability, rc.StabilityIndex)

	require.NotEmpty(t, rc.Tags)
	assert.Equal(t, types.TagThermal, rc.Tags[0])
	assert.Contains(t, rc.Tags, types.TagVibration)
	assert.NotEmpty(t, rc.ID)
	assert.Zero(t, rc.OpportunityScore)
	assert.Zero(t, rc.RiskScore)
}

func TestBuildCluster_UnknownFallback(t *testing.T) {
	rc := buildCluster([]types.FeatureVector{fv(0.5, 0.5, 0.5, 20, 0.1)})
	assert.Equal(t, []string{types.TagUnknown}, rc.Tags, "tag list is never empty")
}
