package scoring

import (
	"math"

	"github.com/prospectd/prospectd/pkg/types"
)

// Normalization divisors mapping raw centroid values into [0, 1].
const (
	entropyCeiling  = 3.0
	gradientCeiling = 10.0
)

// Liquidity and urgency heuristics.
const (
	liquidityHot  = 0.9 // tags intersect {thermal, vibration}
	liquidityCold = 0.3

	urgencyHigh = 0.8 // both gradient and entropy above 0.7 normalized
	urgencyLow  = 0.2

	urgencyThreshold = 0.7
)

// Weights parameterize the opportunity logit and the risk clamp.
type Weights struct {
	Entropy   float64 // w_H — weight of the (1 - entropy) term
	Stability float64 // w_S — weight of the stability term
	Gradient  float64 // w_G — weight of the gradient term
	Risk      float64 // w_risk — scales gradient into the risk score
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{Entropy: 1.0, Stability: 1.5, Gradient: 0.8, Risk: 0.5}
}

// Scorer derives opportunity and risk scores from a cluster's centroid
// and tags.
type Scorer struct {
	w Weights
}

// New returns a Scorer with the given weights.
func New(w Weights) *Scorer {
	return &Scorer{w: w}
}

// Score computes the cluster's opportunity and risk scores.
//
// Score is pure: it never mutates rc. The zone builder is the single
// writer that applies the result to the cluster, exactly once. For any
// finite centroid the opportunity score lies in (0, 1) and the risk
// score in [0, 1]; all inputs are clamped so no NaN or infinity can
// arise.
func (s *Scorer) Score(rc *types.ResourceCluster) (opportunity, risk float64) {
	h := math.Min(rc.Centroid.Entropy/entropyCeiling, 1)
	g := math.Min(rc.EntropyGradient/gradientCeiling, 1)
	// StabilityIndex is already bounded in [0, 1] by construction.
	st := rc.StabilityIndex

	liquidity := liquidityCold
	if rc.HasAnyTag(types.TagThermal, types.TagVibration) {
		liquidity = liquidityHot
	}

	urgency := urgencyLow
	if g > urgencyThreshold && h > urgencyThreshold {
		urgency = urgencyHigh
	}

	logit := s.w.Entropy*(1-h) +
		s.w.Stability*st +
		s.w.Gradient*g +
		0.5*liquidity +
		0.5*urgency

	opportunity = sigmoid(logit)
	risk = clamp01(s.w.Risk * g)
	return opportunity, risk
}

// sigmoid is the logistic function 1/(1+e^-x).
func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// clamp01 restricts v to the range [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
