package zones

import (
	"log/slog"
	"unicode"

	"github.com/google/uuid"

	"github.com/prospectd/prospectd/pkg/types"
)

// Scorer computes a cluster's opportunity and risk scores without
// mutating it. Satisfied by scoring.Scorer.
type Scorer interface {
	Score(rc *types.ResourceCluster) (opportunity, risk float64)
}

// Builder aggregates scored resource clusters into opportunity zones,
// grouped by dominant tag.
//
// Each Build call owns its zone registry: zones never leak across
// pipeline runs, and concurrent Build calls on the same Builder are
// independent.
type Builder struct {
	scorer Scorer
}

// NewBuilder returns a Builder that scores clusters with scorer before
// aggregating them. Scoring is not assumed to have happened already.
func NewBuilder(scorer Scorer) *Builder {
	return &Builder{scorer: scorer}
}

// Build processes rcos in the given order: each cluster is scored, the
// zone for its dominant tag is fetched or created, the cluster id is
// appended to the zone membership and the zone's running means are
// updated incrementally.
//
// After every append, a zone's aggregated scores equal the exact
// arithmetic mean of its members' scores. Zone ordering in the result
// follows first-seen tag order within this run; callers must rely only
// on the grouping-by-tag invariant, not on ordering across runs.
// Zero input clusters yield zero zones.
func (b *Builder) Build(rcos []*types.ResourceCluster) []*types.OpportunityZone {
	byTag := make(map[string]*types.OpportunityZone)
	var out []*types.OpportunityZone

	for _, rc := range rcos {
		opportunity, risk := b.scorer.Score(rc)
		rc.OpportunityScore = opportunity
		rc.RiskScore = risk

		tag := rc.DominantTag()
		zone, ok := byTag[tag]
		if !ok {
			zone = &types.OpportunityZone{
				ID:          uuid.NewString(),
				Name:        capitalize(tag) + " Zone",
				DominantTag: tag,
			}
			byTag[tag] = zone
			out = append(out, zone)
			slog.Debug("zones: created zone", "tag", tag, "id", zone.ID)
		}

		zone.RCOIDs = append(zone.RCOIDs, rc.ID)
		n := float64(len(zone.RCOIDs))
		zone.AggregatedOpportunity = (zone.AggregatedOpportunity*(n-1) + opportunity) / n
		zone.AggregatedRisk = (zone.AggregatedRisk*(n-1) + risk) / n
	}

	return out
}

// capitalize upper-cases the first rune of s.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
