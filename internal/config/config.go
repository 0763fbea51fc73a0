package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultEntropyBins   = 10
	DefaultParallelism   = 4
	DefaultStrategy      = "density"
	DefaultEps           = 0.5
	DefaultMinSamples    = 2
	DefaultRiskTolerance = 0.2
	DefaultROIScale      = 100.0
	DefaultRegistryTTL   = 15 * time.Minute
)

// Default scoring weights for the opportunity logit and the risk clamp.
const (
	DefaultWeightEntropy   = 1.0
	DefaultWeightStability = 1.5
	DefaultWeightGradient  = 0.8
	DefaultWeightRisk      = 0.5
)

// Config is the top-level configuration for the prospecting pipeline.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Extraction ExtractionConfig `yaml:"extraction"`
	Clustering ClusteringConfig `yaml:"clustering"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Mission    MissionConfig    `yaml:"mission"`
	Registry   RegistryConfig   `yaml:"registry"`
}

// ExtractionConfig tunes the feature extractor.
type ExtractionConfig struct {
	// EntropyBins is the number of histogram bins used for the
	// temperature entropy estimate.
	EntropyBins int `yaml:"entropy_bins"`

	// Parallelism caps the number of windows extracted concurrently.
	Parallelism int `yaml:"parallelism"`
}

// ClusteringConfig selects and tunes the clustering strategy.
type ClusteringConfig struct {
	// Strategy is one of: density | proximity.
	// proximity is a weaker approximation of density clustering and is
	// intended as a fallback, not an equivalent.
	Strategy string `yaml:"strategy"`

	// Eps is the Euclidean neighborhood radius in feature space.
	Eps float64 `yaml:"eps"`

	// MinSamples is the minimum neighborhood size (the point itself
	// included) required to seed a density cluster.
	MinSamples int `yaml:"min_samples"`
}

// ScoringConfig holds the opportunity/risk scoring weights.
type ScoringConfig struct {
	// WeightEntropy, WeightStability and WeightGradient weight the
	// normalized entropy, stability and gradient terms of the
	// opportunity logit.
	WeightEntropy   float64 `yaml:"weight_entropy"`
	WeightStability float64 `yaml:"weight_stability"`
	WeightGradient  float64 `yaml:"weight_gradient"`

	// WeightRisk scales the normalized gradient into the risk score.
	WeightRisk float64 `yaml:"weight_risk"`
}

// MissionConfig tunes exploration mission behavior.
type MissionConfig struct {
	// RiskTolerance is the predicted-risk ceiling under which a mission
	// is authorized without a healing plan.
	RiskTolerance float64 `yaml:"risk_tolerance"`

	// MaxMitigatedRisk is the hard ceiling for the built-in healing
	// planner: plans for zones whose predicted risk exceeds it are denied.
	MaxMitigatedRisk float64 `yaml:"max_mitigated_risk"`

	// ROIScale converts the residual-risk fraction into an ROI estimate.
	ROIScale float64 `yaml:"roi_scale"`

	// HazardRules is evaluated against probe telemetry after the probe
	// sequence completes. Any firing rule aborts the mission.
	HazardRules []HazardRule `yaml:"hazard_rules"`
}

// HazardRule defines one threshold-based hazard condition.
type HazardRule struct {
	// Name is the human-readable rule identifier.
	Name string `yaml:"name"`

	// Condition is an expression like "aggregated_risk > 0.6" or
	// "probe_faults >= 1".
	Condition string `yaml:"condition"`
}

// RegistryConfig tunes the in-memory zone registry.
type RegistryConfig struct {
	// TTL is how long published zones stay visible to scheduling
	// collaborators before being treated as stale.
	TTL time.Duration `yaml:"ttl"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a Config pre-populated with default values.
func Defaults() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			EntropyBins: DefaultEntropyBins,
			Parallelism: DefaultParallelism,
		},
		Clustering: ClusteringConfig{
			Strategy:   DefaultStrategy,
			Eps:        DefaultEps,
			MinSamples: DefaultMinSamples,
		},
		Scoring: ScoringConfig{
			WeightEntropy:   DefaultWeightEntropy,
			WeightStability: DefaultWeightStability,
			WeightGradient:  DefaultWeightGradient,
			WeightRisk:      DefaultWeightRisk,
		},
		Mission: MissionConfig{
			RiskTolerance:    DefaultRiskTolerance,
			MaxMitigatedRisk: 2 * DefaultRiskTolerance,
			ROIScale:         DefaultROIScale,
		},
		Registry: RegistryConfig{
			TTL: DefaultRegistryTTL,
		},
	}
}

// validate checks required fields and structural constraints.
// Malformed configuration is the only condition the pipeline treats as
// a caller error raised before any processing begins.
func validate(cfg *Config) error {
	if cfg.Extraction.EntropyBins < 2 {
		return fmt.Errorf("extraction.entropy_bins must be at least 2")
	}
	if cfg.Extraction.Parallelism < 1 {
		return fmt.Errorf("extraction.parallelism must be positive")
	}
	switch cfg.Clustering.Strategy {
	case "density", "proximity":
	default:
		return fmt.Errorf("clustering.strategy: unknown strategy %q", cfg.Clustering.Strategy)
	}
	if cfg.Clustering.Eps <= 0 {
		return fmt.Errorf("clustering.eps must be positive")
	}
	if cfg.Clustering.MinSamples < 1 {
		return fmt.Errorf("clustering.min_samples must be at least 1")
	}
	if cfg.Scoring.WeightEntropy < 0 || cfg.Scoring.WeightStability < 0 ||
		cfg.Scoring.WeightGradient < 0 || cfg.Scoring.WeightRisk < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}
	if cfg.Mission.RiskTolerance < 0 || cfg.Mission.RiskTolerance > 1 {
		return fmt.Errorf("mission.risk_tolerance must be within [0, 1]")
	}
	if cfg.Mission.ROIScale <= 0 {
		return fmt.Errorf("mission.roi_scale must be positive")
	}
	if cfg.Registry.TTL <= 0 {
		return fmt.Errorf("registry.ttl must be positive")
	}
	for i, rule := range cfg.Mission.HazardRules {
		if rule.Name == "" {
			return fmt.Errorf("mission.hazard_rules[%d]: name is required", i)
		}
		if rule.Condition == "" {
			return fmt.Errorf("mission.hazard_rules[%d] %q: condition is required", i, rule.Name)
		}
	}
	return nil
}
