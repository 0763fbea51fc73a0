package mission

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prospectd/prospectd/internal/registry"
)

// RiskEstimator predicts the risk of exploring a zone, in [0, 1].
type RiskEstimator interface {
	PredictRisk(ctx context.Context, zoneID string) (float64, error)
}

// HealingPlanner decides whether a risk-mitigation plan justifies
// authorizing a high-risk mission, and performs emergency stabilization
// when a hazard interrupts execution.
type HealingPlanner interface {
	ApprovePlan(ctx context.Context, zoneID string, predictedRisk float64) (bool, error)
	Stabilize(ctx context.Context, zoneID string) error
}

// Probe is one ordered exploration action run during the executing
// phase, e.g. a thermal sweep or a micro-vibration injection.
type Probe interface {
	Name() string
	Run(ctx context.Context, zoneID string) error
}

// HazardMonitor checks for a hazard signal after the probe sequence
// completes. A detected hazard terminates the mission without a
// discovery.
type HazardMonitor interface {
	Detect(ctx context.Context, zoneID string) (bool, error)
}

// ZoneRiskEstimator reads the predicted risk straight from the zone's
// aggregated risk in the registry. An unknown or stale zone cannot be
// risk-assessed and fails the estimate.
type ZoneRiskEstimator struct {
	Registry *registry.Registry
}

func (z *ZoneRiskEstimator) PredictRisk(_ context.Context, zoneID string) (float64, error) {
	zone, ok := z.Registry.Get(zoneID)
	if !ok {
		return 0, fmt.Errorf("risk: zone %s not found or stale", zoneID)
	}
	return zone.AggregatedRisk, nil
}

// StaticRiskEstimator returns a fixed risk value. Useful for scheduler
// overrides and tests.
type StaticRiskEstimator struct {
	Risk float64
}

func (s *StaticRiskEstimator) PredictRisk(context.Context, string) (float64, error) {
	return s.Risk, nil
}

// ThresholdPlanner approves healing plans up to a hard risk ceiling and
// logs stabilization requests. Zones beyond MaxRisk are considered
// unmitigable.
type ThresholdPlanner struct {
	MaxRisk float64
}

func (p *ThresholdPlanner) ApprovePlan(_ context.Context, zoneID string, predictedRisk float64) (bool, error) {
	approved := predictedRisk <= p.MaxRisk
	slog.Info("healing: plan reviewed",
		"zone", zoneID, "predicted_risk", predictedRisk, "approved", approved)
	return approved, nil
}

func (p *ThresholdPlanner) Stabilize(_ context.Context, zoneID string) error {
	slog.Warn("healing: emergency stabilization", "zone", zoneID)
	return nil
}

// probeFunc adapts a function into a named Probe.
type probeFunc struct {
	name string
	run  func(ctx context.Context, zoneID string) error
}

func (p probeFunc) Name() string { return p.name }
func (p probeFunc) Run(ctx context.Context, zoneID string) error {
	return p.run(ctx, zoneID)
}

// NewProbe wraps run as a named Probe.
func NewProbe(name string, run func(ctx context.Context, zoneID string) error) Probe {
	return probeFunc{name: name, run: run}
}

// DefaultProbes returns the standard probe sequence. The built-in
// probes only log — real instrument hookups are supplied by the
// integration layer, which also owns timeout and cancellation wrapping.
func DefaultProbes() []Probe {
	return []Probe{
		NewProbe("thermal-sweep", func(_ context.Context, zoneID string) error {
			slog.Debug("probe: thermal sweep", "zone", zoneID)
			return nil
		}),
		NewProbe("micro-vibration", func(_ context.Context, zoneID string) error {
			slog.Debug("probe: micro-vibration injection", "zone", zoneID)
			return nil
		}),
	}
}
