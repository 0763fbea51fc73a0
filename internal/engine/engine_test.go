package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectd/prospectd/internal/cluster"
	"github.com/prospectd/prospectd/internal/features"
	"github.com/prospectd/prospectd/internal/scoring"
	"github.com/prospectd/prospectd/internal/zones"
	"github.com/prospectd/prospectd/pkg/types"
)

func testEngine(t *testing.T, strategy string, cfg cluster.Config) *Engine {
	t.Helper()
	backend, err := cluster.New(strategy, cfg)
	require.NoError(t, err)
	return New(
		features.New(features.DefaultBins),
		backend,
		zones.NewBuilder(scoring.New(scoring.DefaultWeights())),
		4,
	)
}

func window(id string, temps, vibs []float64) types.TelemetryWindow {
	w := types.TelemetryWindow{ID: id}
	for i := range temps {
		w.Samples = append(w.Samples, types.TelemetrySample{
			Temperature: temps[i],
			Vibration:   vibs[i],
		})
	}
	return w
}

// hotWindow is a high-temperature, high-variation profile; coolWindow is
// a near-flat low-temperature profile. The two are far apart along the
// gradient axis of the clustering subspace.
func hotWindow(id string) types.TelemetryWindow {
	return window(id,
		[]float64{70, 90, 70, 90, 70},
		[]float64{0, 0, 0, 0, 0})
}

func coolWindow(id string) types.TelemetryWindow {
	return window(id,
		[]float64{20, 20.1, 20, 20.1, 20},
		[]float64{0, 0, 0, 0, 0})
}

func TestProcess_EndToEnd(t *testing.T) {
	e := testEngine(t, cluster.StrategyDensity, cluster.Config{Eps: 0.5, MinSamples: 2})

	windows := []types.TelemetryWindow{
		hotWindow("h1"), hotWindow("h2"), hotWindow("h3"),
		{ID: "empty"}, // silently dropped
		coolWindow("c1"), coolWindow("c2"), coolWindow("c3"),
	}

	zoneList, err := e.Process(context.Background(), windows)
	require.NoError(t, err)
	require.Len(t, zoneList, 2)

	byTag := map[string]*types.OpportunityZone{}
	for _, z := range zoneList {
		byTag[z.DominantTag] = z
	}

	thermal := byTag[types.TagThermal]
	require.NotNil(t, thermal, "the hot cluster must land in a thermal zone")
	assert.Equal(t, "Thermal Zone", thermal.Name)
	assert.Len(t, thermal.RCOIDs, 1)

	stable := byTag[types.TagStable]
	require.NotNil(t, stable, "the flat cool cluster must land in a stable zone")
	assert.Len(t, stable.RCOIDs, 1)

	for _, z := range zoneList {
		assert.Greater(t, z.AggregatedOpportunity, 0.0)
		assert.Less(t, z.AggregatedOpportunity, 1.0)
		assert.GreaterOrEqual(t, z.AggregatedRisk, 0.0)
		assert.LessOrEqual(t, z.AggregatedRisk, 1.0)
	}
}

func TestProcess_Deterministic(t *testing.T) {
	windows := []types.TelemetryWindow{
		hotWindow("h1"), hotWindow("h2"), coolWindow("c1"), coolWindow("c2"),
	}

	run := func() map[string]int {
		e := testEngine(t, cluster.StrategyDensity, cluster.Config{Eps: 0.5, MinSamples: 2})
		zoneList, err := e.Process(context.Background(), windows)
		require.NoError(t, err)
		out := map[string]int{}
		for _, z := range zoneList {
			out[z.DominantTag] = len(z.RCOIDs)
		}
		return out
	}

	first := run()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, run(), "grouping must be reproducible across runs")
	}
}

func TestProcess_NoWindows(t *testing.T) {
	e := testEngine(t, cluster.StrategyDensity, cluster.Config{Eps: 0.5, MinSamples: 2})
	zoneList, err := e.Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, zoneList)
}

func TestProcess_AllWindowsEmpty(t *testing.T) {
	e := testEngine(t, cluster.StrategyProximity, cluster.Config{Eps: 0.5})
	zoneList, err := e.Process(context.Background(), []types.TelemetryWindow{{ID: "a"}, {ID: "b"}})
	require.NoError(t, err)
	assert.Empty(t, zoneList)
}
