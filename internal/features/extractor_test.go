package features

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectd/prospectd/pkg/types"
)

// window builds a test window from parallel temperature/vibration slices.
func window(id string, temps, vibs []float64) types.TelemetryWindow {
	w := types.TelemetryWindow{ID: id}
	for i := range temps {
		var v float64
		if i < len(vibs) {
			v = vibs[i]
		}
		w.Samples = append(w.Samples, types.TelemetrySample{Temperature: temps[i], Vibration: v})
	}
	return w
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestExtract_EmptyWindow(t *testing.T) {
	e := New(DefaultBins)
	_, ok := e.Extract(types.TelemetryWindow{ID: "w0"})
	assert.False(t, ok, "zero samples must yield EMPTY, not an error")
}

func TestExtract_ConstantWindow(t *testing.T) {
	// Ten identical samples: no spread, no motion, no oscillation.
	e := New(DefaultBins)
	fv, ok := e.Extract(window("w1", repeat(20, 10), repeat(0, 10)))
	require.True(t, ok)

	assert.InDelta(t, 0, fv.Entropy, 1e-12)
	assert.InDelta(t, 0, fv.Gradient, 1e-12)
	assert.InDelta(t, 1.0, fv.Stability, 1e-12)
	assert.InDelta(t, 0, fv.SpectralEnergy, 1e-12)
	assert.InDelta(t, 20, fv.AvgTemp, 1e-12)
	assert.InDelta(t, 0, fv.AvgVib, 1e-12)
}

func TestExtract_Entropy(t *testing.T) {
	e := New(DefaultBins)

	// Two equally populated temperature levels land in the lowest and
	// highest bins: one bit of entropy.
	temps := []float64{10, 20, 10, 20, 10, 20, 10, 20}
	fv, ok := e.Extract(window("w2", temps, repeat(0, len(temps))))
	require.True(t, ok)
	assert.InDelta(t, 1.0, fv.Entropy, 1e-12)
}

func TestExtract_Gradient(t *testing.T) {
	e := New(DefaultBins)

	tests := []struct {
		name  string
		temps []float64
		want  float64
	}{
		{"single sample", []float64{42}, 0},
		{"monotonic ramp", []float64{10, 12, 14, 16}, 2},
		{"alternating", []float64{10, 20, 10, 20, 10}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fv, ok := e.Extract(window("w", tt.temps, repeat(0, len(tt.temps))))
			require.True(t, ok)
			assert.InDelta(t, tt.want, fv.Gradient, 1e-12)
		})
	}
}

func TestExtract_SpectralEnergy(t *testing.T) {
	e := New(DefaultBins)

	// A pure Nyquist oscillation of length 4: the only non-zero DFT
	// component has magnitude 4, so normalized energy is exactly 1.
	fv, ok := e.Extract(window("w3", repeat(0, 4), []float64{1, -1, 1, -1}))
	require.True(t, ok)
	assert.InDelta(t, 1.0, fv.SpectralEnergy, 1e-9)

	// Single-sample windows carry no oscillatory content.
	fv, ok = e.Extract(window("w4", []float64{1}, []float64{3}))
	require.True(t, ok)
	assert.Zero(t, fv.SpectralEnergy)
}

func TestExtract_Deterministic(t *testing.T) {
	e := New(DefaultBins)
	w := window("w5",
		[]float64{21.5, 23.1, 19.8, 25.2, 22.0, 24.4},
		[]float64{0.1, -0.4, 0.9, -0.2, 0.5, -0.7})

	first, ok := e.Extract(w)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		again, ok := e.Extract(w)
		require.True(t, ok)
		assert.Equal(t, first, again, "re-extraction must be bit-identical")
	}
}

func TestExtractAll_PreservesOrderAndDropsEmpty(t *testing.T) {
	e := New(DefaultBins)
	windows := []types.TelemetryWindow{
		window("a", repeat(10, 5), repeat(0, 5)),
		{ID: "empty-1"},
		window("b", repeat(60, 5), repeat(0, 5)),
		{ID: "empty-2"},
		window("c", repeat(90, 5), repeat(0, 5)),
	}

	vecs, dropped, err := e.ExtractAll(context.Background(), windows, 8)
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, []string{"empty-1", "empty-2"}, dropped)

	// Order must follow the input windows, not goroutine completion.
	assert.Equal(t, 10.0, vecs[0].AvgTemp)
	assert.Equal(t, 60.0, vecs[1].AvgTemp)
	assert.Equal(t, 90.0, vecs[2].AvgTemp)
}

func TestExtractAll_Cancelled(t *testing.T) {
	e := New(DefaultBins)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	windows := make([]types.TelemetryWindow, 100)
	for i := range windows {
		windows[i] = window("w", repeat(1, 10), repeat(0, 10))
	}
	_, _, err := e.ExtractAll(ctx, windows, 1)
	assert.Error(t, err)
}
