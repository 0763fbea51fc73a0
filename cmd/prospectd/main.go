package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prospectd/prospectd/internal/cluster"
	"github.com/prospectd/prospectd/internal/config"
	"github.com/prospectd/prospectd/internal/engine"
	"github.com/prospectd/prospectd/internal/features"
	"github.com/prospectd/prospectd/internal/ingest"
	"github.com/prospectd/prospectd/internal/mission"
	"github.com/prospectd/prospectd/internal/registry"
	"github.com/prospectd/prospectd/internal/scoring"
	"github.com/prospectd/prospectd/internal/zones"
	"github.com/prospectd/prospectd/pkg/types"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	telemetryPath := flag.String("telemetry", "", "path to a Prometheus text exposition telemetry export")
	explore := flag.Bool("explore", false, "launch an exploration mission against the top-scoring zone")
	watch := flag.Bool("watch", false, "stay running and re-process when the config file changes")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("prospectd starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if *telemetryPath == "" {
		slog.Error("missing required -telemetry flag")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := registry.New(cfg.Registry.TTL)
	go reg.Run(ctx)

	if err := runPipeline(ctx, cfg, reg, *telemetryPath, *explore); err != nil {
		slog.Error("pipeline run failed", "err", err)
		os.Exit(1)
	}

	if !*watch {
		return
	}

	// Watch mode: re-run the pipeline with fresh knobs whenever the
	// config file is rewritten.
	go func() {
		err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			if err := runPipeline(ctx, updated, reg, *telemetryPath, *explore); err != nil {
				slog.Error("pipeline re-run failed", "err", err)
			}
		})
		if err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("prospectd shutting down")
}

// runPipeline executes one full batch: ingest, process, publish and
// optionally explore.
func runPipeline(ctx context.Context, cfg *config.Config, reg *registry.Registry, telemetryPath string, explore bool) error {
	f, err := os.Open(telemetryPath)
	if err != nil {
		return err
	}
	defer f.Close()

	windows, err := ingest.ParseText(f)
	if err != nil {
		return err
	}
	slog.Info("telemetry ingested", "windows", len(windows))

	backend, err := cluster.New(cfg.Clustering.Strategy, cluster.Config{
		Eps:        cfg.Clustering.Eps,
		MinSamples: cfg.Clustering.MinSamples,
	})
	if err != nil {
		return err
	}

	scorer := scoring.New(scoring.Weights{
		Entropy:   cfg.Scoring.WeightEntropy,
		Stability: cfg.Scoring.WeightStability,
		Gradient:  cfg.Scoring.WeightGradient,
		Risk:      cfg.Scoring.WeightRisk,
	})

	eng := engine.New(
		features.New(cfg.Extraction.EntropyBins),
		backend,
		zones.NewBuilder(scorer),
		cfg.Extraction.Parallelism,
	)

	zoneList, err := eng.Process(ctx, windows)
	if err != nil {
		return err
	}

	reg.PutAll(zoneList)
	for _, z := range zoneList {
		slog.Info("zone built",
			"zone", z.ID,
			"name", z.Name,
			"tag", z.DominantTag,
			"members", len(z.RCOIDs),
			"opportunity", z.AggregatedOpportunity,
			"risk", z.AggregatedRisk,
		)
	}

	if !explore {
		return nil
	}

	fresh := reg.List()
	if len(fresh) == 0 {
		slog.Warn("no zones available to explore")
		return nil
	}
	top := fresh[0]

	launcher := mission.NewLauncher(
		mission.Collaborators{
			Risk:   &mission.ZoneRiskEstimator{Registry: reg},
			Healer: &mission.ThresholdPlanner{MaxRisk: cfg.Mission.MaxMitigatedRisk},
			Probes: mission.DefaultProbes(),
			Hazard: &mission.RuleHazardMonitor{
				Rules:  cfg.Mission.HazardRules,
				Source: &mission.ZoneReadings{Registry: reg},
			},
		},
		mission.Options{
			RiskTolerance: cfg.Mission.RiskTolerance,
			ROIScale:      cfg.Mission.ROIScale,
		},
	)

	discovery, err := launcher.Explore(ctx, top.ID)
	if err != nil {
		return err
	}
	logDiscovery(top, discovery)
	return nil
}

func logDiscovery(zone *types.OpportunityZone, d *types.Discovery) {
	if d == nil {
		slog.Info("exploration resolved without a discovery", "zone", zone.ID, "name", zone.Name)
		return
	}
	slog.Info("discovery validated",
		"zone", zone.ID,
		"discovery", d.ID,
		"hypothesis", d.Hypothesis,
		"roi_estimate", d.ROIEstimate,
	)
}
