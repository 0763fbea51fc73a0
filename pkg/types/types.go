package types

// Classification tags assigned to resource clusters by the clustering
// backend. Tag order on a cluster is significant: the first tag decides
// which opportunity zone the cluster is grouped into.
const (
	TagThermal   = "thermal"
	TagVibration = "vibration"
	TagStable    = "stable"
	TagUnknown   = "unknown"
)

// TelemetrySample is one raw sensor reading from an industrial asset.
// Samples carry no identity of their own — they are meaningful only
// through their position inside a window.
type TelemetrySample struct {
	// Temperature in °C.
	Temperature float64 `json:"temperature"`

	// Vibration amplitude, unitless.
	Vibration float64 `json:"vibration"`
}

// TelemetryWindow is an ordered sequence of samples covering one
// observation epoch for a single asset location. Windows are produced
// by the ingestion collaborator and consumed exactly once by the
// feature extractor.
type TelemetryWindow struct {
	// ID is the window identifier assigned by the ingestion layer.
	// Used only for diagnostics; may be empty.
	ID string `json:"id"`

	Samples []TelemetrySample `json:"samples"`
}

// FeatureVector is the statistical summary derived from one telemetry
// window. It is immutable once produced: identical windows always yield
// bit-identical vectors.
type FeatureVector struct {
	// Entropy is the Shannon entropy of the temperature histogram, in bits.
	Entropy float64 `json:"entropy"`

	// Gradient is the mean absolute first difference of the temperature series.
	Gradient float64 `json:"gradient"`

	// Stability is 1/(1+variance(temperature)); always in (0, 1].
	Stability float64 `json:"stability"`

	// AvgTemp and AvgVib are plain arithmetic means.
	AvgTemp float64 `json:"avg_temp"`
	AvgVib  float64 `json:"avg_vib"`

	// SpectralEnergy is the normalized sum of non-zero-frequency DFT
	// magnitudes of the vibration series. It flags periodic anomalies a
	// temperature-only view would miss.
	SpectralEnergy float64 `json:"spectral_energy"`
}

// Centroid is the coordinatewise mean of a cluster's member feature
// vectors over the five fields used for tagging and scoring.
type Centroid struct {
	Entropy        float64 `json:"entropy"`
	Gradient       float64 `json:"gradient"`
	Stability      float64 `json:"stability"`
	AvgTemp        float64 `json:"avg_temp"`
	SpectralEnergy float64 `json:"spectral_energy"`
}

// ResourceCluster is a scored, tagged group of similar feature vectors
// (an RCO). Clusters are created from at least one member vector, never
// from zero. Scores start at zero and are written exactly once by the
// zone builder, using the pure scoring function.
type ResourceCluster struct {
	ID       string   `json:"id"`
	Centroid Centroid `json:"centroid"`

	// EntropyGradient and StabilityIndex are the centroid gradient and
	// stability promoted to named fields, since the scorer and external
	// reporting consume them directly.
	EntropyGradient float64 `json:"entropy_gradient"`
	StabilityIndex  float64 `json:"stability_index"`

	// Tags is the ordered classification tag list. Never empty: clusters
	// matching no threshold carry the single tag "unknown".
	Tags []string `json:"classification_tags"`

	// Members is the number of feature vectors grouped into this cluster.
	Members int `json:"members"`

	// OpportunityScore is in (0,1); RiskScore is in [0,1].
	OpportunityScore float64 `json:"opportunity_score"`
	RiskScore        float64 `json:"risk_score"`
}

// DominantTag returns the tag that decides zone membership: the first
// classification tag, or "uncategorized" for a (degenerate) tagless cluster.
func (rc *ResourceCluster) DominantTag() string {
	if len(rc.Tags) == 0 {
		return "uncategorized"
	}
	return rc.Tags[0]
}

// HasAnyTag reports whether the cluster carries at least one of the
// given tags.
func (rc *ResourceCluster) HasAnyTag(tags ...string) bool {
	for _, want := range tags {
		for _, have := range rc.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// OpportunityZone aggregates resource clusters sharing a dominant tag.
// Zones are created the first time a tag is seen during zone building
// and never deleted within one pipeline run.
//
// Invariant: AggregatedOpportunity always equals the arithmetic mean of
// OpportunityScore over the clusters listed in RCOIDs, and likewise
// AggregatedRisk for RiskScore.
type OpportunityZone struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// RCOIDs lists member cluster ids in the order they were appended.
	RCOIDs []string `json:"rco_ids"`

	AggregatedOpportunity float64 `json:"aggregated_opportunity_score"`
	AggregatedRisk        float64 `json:"aggregated_risk"`

	DominantTag string `json:"dominant_tag"`
}

// Discovery is the validated outcome of a successful exploration
// mission. Produced at most once per mission, only on the VALIDATED
// transition, and immutable thereafter.
type Discovery struct {
	ID          string  `json:"id"`
	ZoneID      string  `json:"zone_id"`
	Hypothesis  string  `json:"hypothesis"`
	Validated   bool    `json:"validated"`
	ROIEstimate float64 `json:"roi_estimate"`
}
