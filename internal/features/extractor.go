package features

import (
	"context"
	"math"
	"math/cmplx"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"

	"github.com/prospectd/prospectd/pkg/types"
)

// DefaultBins is the histogram bin count used for the temperature
// entropy estimate when none is configured.
const DefaultBins = 10

// Extractor derives a FeatureVector from one telemetry window.
//
// Extraction is deterministic and stateless: identical input order and
// values always produce bit-identical output, so independent windows
// may be extracted concurrently (see ExtractAll).
type Extractor struct {
	bins int
}

// New returns an Extractor using the given entropy histogram bin count.
// bins values below 2 fall back to DefaultBins.
func New(bins int) *Extractor {
	if bins < 2 {
		bins = DefaultBins
	}
	return &Extractor{bins: bins}
}

// Extract computes the feature vector for w.
//
// ok is false iff the window holds zero samples. An empty window is not
// an error — the caller drops it and moves on.
func (e *Extractor) Extract(w types.TelemetryWindow) (types.FeatureVector, bool) {
	n := len(w.Samples)
	if n == 0 {
		return types.FeatureVector{}, false
	}

	temps := make([]float64, n)
	vibs := make([]float64, n)
	for i, s := range w.Samples {
		temps[i] = s.Temperature
		vibs[i] = s.Vibration
	}

	return types.FeatureVector{
		Entropy:        e.entropy(temps),
		Gradient:       gradient(temps),
		Stability:      stability(temps),
		AvgTemp:        meanOf(temps),
		AvgVib:         meanOf(vibs),
		SpectralEnergy: spectralEnergy(vibs),
	}, true
}

// ExtractAll extracts features for all windows, running up to limit
// windows concurrently. The returned vectors are in original window
// order regardless of completion order, so downstream clustering stays
// reproducible. Windows with zero samples are omitted; their ids are
// returned in dropped.
func (e *Extractor) ExtractAll(ctx context.Context, windows []types.TelemetryWindow, limit int) (vecs []types.FeatureVector, dropped []string, err error) {
	if limit < 1 {
		limit = 1
	}

	results := make([]types.FeatureVector, len(windows))
	oks := make([]bool, len(windows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range windows {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i], oks[i] = e.Extract(windows[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	vecs = make([]types.FeatureVector, 0, len(windows))
	for i, ok := range oks {
		if !ok {
			dropped = append(dropped, windows[i].ID)
			continue
		}
		vecs = append(vecs, results[i])
	}
	return vecs, dropped, nil
}

// entropy computes the Shannon entropy, in bits, of a fixed-bin
// probability histogram over temps spanning the observed min…max range.
// Zero-count bins contribute nothing. A window of identical temperatures
// collapses to one bin and yields 0.
func (e *Extractor) entropy(temps []float64) float64 {
	lo, hi := temps[0], temps[0]
	for _, t := range temps[1:] {
		lo = math.Min(lo, t)
		hi = math.Max(hi, t)
	}
	if hi == lo {
		return 0
	}

	counts := make([]int, e.bins)
	width := (hi - lo) / float64(e.bins)
	for _, t := range temps {
		idx := int((t - lo) / width)
		if idx >= e.bins { // the max value lands on the upper edge
			idx = e.bins - 1
		}
		counts[idx]++
	}

	var h float64
	total := float64(len(temps))
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		h -= p * math.Log2(p)
	}
	return h
}

// gradient is the mean absolute first difference of the temperature
// sequence; 0 for windows of one sample.
func gradient(temps []float64) float64 {
	if len(temps) <= 1 {
		return 0
	}
	var sum float64
	for i := 1; i < len(temps); i++ {
		sum += math.Abs(temps[i] - temps[i-1])
	}
	return sum / float64(len(temps)-1)
}

// stability maps the population variance of the temperature series into
// (0, 1]: perfectly flat windows score 1, noisy windows tend toward 0.
func stability(temps []float64) float64 {
	mean := stat.Mean(temps, nil)
	variance := stat.MomentAbout(2, temps, mean, nil)
	return 1 / (1 + variance)
}

// spectralEnergy sums the magnitudes of all non-zero-frequency DFT
// components of the vibration series and normalizes by window length.
//
// The real-input FFT returns only the non-negative half of the
// spectrum; conjugate-symmetric bins are counted twice so the result
// matches the full-spectrum sum. Windows of length <= 1 carry no
// oscillatory content and score 0.
func spectralEnergy(vibs []float64) float64 {
	n := len(vibs)
	if n <= 1 {
		return 0
	}

	coeffs := fourier.NewFFT(n).Coefficients(nil, vibs)

	var sum float64
	for k := 1; k < len(coeffs); k++ {
		mag := cmplx.Abs(coeffs[k])
		if k != n-k { // not the Nyquist bin
			mag *= 2
		}
		sum += mag
	}
	return sum / float64(n)
}

// meanOf is a zero-guarded arithmetic mean: it returns 0 on empty input
// instead of dividing by zero, so it stays safe outside the extraction
// short-circuit.
func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}
