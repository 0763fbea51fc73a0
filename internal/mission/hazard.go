package mission

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/prospectd/prospectd/internal/config"
	"github.com/prospectd/prospectd/internal/registry"
)

// ReadingSource supplies the named post-probe readings hazard rules are
// evaluated against.
type ReadingSource interface {
	Readings(ctx context.Context, zoneID string) (map[string]float64, error)
}

// RuleHazardMonitor evaluates configured threshold conditions against
// zone readings. Any firing rule is a hazard.
//
// Supported expressions (field operator value):
//
//	aggregated_risk > 0.6
//	aggregated_opportunity < 0.1
//	rco_count < 1
//	probe_faults >= 1
//
// An unparseable condition or unknown field never fires; it is logged
// once per evaluation instead of failing the mission.
type RuleHazardMonitor struct {
	Rules  []config.HazardRule
	Source ReadingSource
}

func (m *RuleHazardMonitor) Detect(ctx context.Context, zoneID string) (bool, error) {
	if len(m.Rules) == 0 {
		return false, nil
	}

	readings, err := m.Source.Readings(ctx, zoneID)
	if err != nil {
		return false, fmt.Errorf("hazard: readings for zone %s: %w", zoneID, err)
	}

	for _, rule := range m.Rules {
		fires, value := evalCondition(rule.Condition, readings)
		if fires {
			slog.Warn("hazard: rule fired",
				"rule", rule.Name, "zone", zoneID,
				"condition", rule.Condition, "value", value)
			return true, nil
		}
	}
	return false, nil
}

// NoHazard is a HazardMonitor that never detects anything.
type NoHazard struct{}

func (NoHazard) Detect(context.Context, string) (bool, error) { return false, nil }

// ZoneReadings exposes a zone's aggregates from the registry as hazard
// rule inputs.
type ZoneReadings struct {
	Registry *registry.Registry
}

func (z *ZoneReadings) Readings(_ context.Context, zoneID string) (map[string]float64, error) {
	zone, ok := z.Registry.Get(zoneID)
	if !ok {
		return nil, fmt.Errorf("zone %s not found or stale", zoneID)
	}
	return map[string]float64{
		"aggregated_risk":        zone.AggregatedRisk,
		"aggregated_opportunity": zone.AggregatedOpportunity,
		"rco_count":              float64(len(zone.RCOIDs)),
	}, nil
}

// evalCondition evaluates a "field op value" expression against the
// given readings. Returns (fires, triggering value); (false, 0) when
// the expression cannot be parsed or the field is unknown.
func evalCondition(cond string, readings map[string]float64) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		slog.Debug("hazard: unparseable condition", "condition", cond)
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	v, ok := readings[field]
	if !ok {
		slog.Debug("hazard: unknown field in condition", "field", field)
		return false, 0
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		slog.Debug("hazard: non-numeric threshold", "condition", cond)
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
