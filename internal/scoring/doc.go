// Package scoring maps a resource cluster's centroid and tags to an
// opportunity score in (0,1) and a risk score in [0,1].
//
// The opportunity score is a sigmoid over a weighted logit of the
// normalized entropy, stability and gradient terms plus liquidity and
// urgency heuristics. Score is a pure function — applying the result to
// the cluster is the zone builder's job.
package scoring
