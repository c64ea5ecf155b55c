package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/annealtools/isingtune/internal/annealer"
	"github.com/annealtools/isingtune/internal/ising"
	"github.com/annealtools/isingtune/internal/metrics"
	"github.com/annealtools/isingtune/internal/schedule"
	"github.com/annealtools/isingtune/internal/scoring"
	"github.com/annealtools/isingtune/internal/tuning"
	"github.com/annealtools/isingtune/pkg/config"
	"github.com/annealtools/isingtune/pkg/logger"
)

func main() {
	var configPath string
	var logLevel string
	var maxEvals int

	flag.StringVar(&configPath, "config", "tune.yaml", "path to the tuning configuration file")
	flag.StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flag.IntVar(&maxEvals, "max-evals", 0, "evaluation budget override")
	flag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "isingtune: %v\n", err)
		os.Exit(1)
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	logger.SetDefault(logger.NewText(logLevel, os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if maxEvals <= 0 {
		maxEvals = cfg.Search.MaxEvals
	}
	if err := run(ctx, cfg, maxEvals); err != nil {
		logger.Error("tuning failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, maxEvals int) error {
	model, err := loadModel(&cfg.Instance)
	if err != nil {
		return err
	}
	groundState, err := ising.LoadGroundState(cfg.Instance.ReferencePath)
	if err != nil {
		return err
	}
	logger.Info("instance loaded",
		"path", cfg.Instance.CouplingsPath,
		"form", cfg.Instance.Form,
		"variables", model.NumVariables(),
		"ground_state", groundState)

	gaps, err := schedule.EstimateGaps(model, cfg.Instance.ScalingCorrection)
	if err != nil {
		return err
	}
	bounds, err := schedule.ComputeBounds(gaps, cfg.Schedule.PHot, cfg.Schedule.PCold)
	if err != nil {
		return err
	}
	logger.Info("temperature bounds computed",
		"delta_e_hot", gaps.DeltaEHot,
		"delta_e_cold", gaps.DeltaECold,
		"degeneracy", gaps.Degeneracy,
		"min_temp", bounds.MinTemp,
		"max_temp", bounds.MaxTemp)

	base := buildParams(&cfg.Annealer, bounds)
	if err := base.Validate(); err != nil {
		return fmt.Errorf("invalid solver parameters: %w", err)
	}

	space := buildSpace(cfg.Search.Space)
	scorer := &scoring.Scorer{
		SuccessQuantile: cfg.Scorer.SuccessQuantile,
		OptimalityGap:   *cfg.Scorer.OptimalityGap,
		FailValue:       cfg.Scorer.FailValue,
	}
	sampler := annealer.NewSubprocess(cfg.Annealer.Command, cfg.Annealer.Args...)
	search := tuning.NewRandomSearch(cfg.Search.Seed)
	collector := metrics.NewCollector()

	objective := tuning.Objective{
		Model:       model,
		GroundState: groundState,
		Base:        base,
	}
	driver, err := tuning.NewDriver(objective, space, sampler, search, scorer, collector)
	if err != nil {
		return err
	}

	logger.Info("starting tuning run",
		"strategy", search.Name(),
		"max_evals", maxEvals,
		"space", len(space))
	result, err := driver.Run(ctx, maxEvals)
	if err != nil {
		return err
	}
	collector.Stop()

	names := make([]string, 0, len(result.Best.Assignment))
	for name := range result.Best.Assignment {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		logger.Info("best parameter", "name", name, "value", result.Best.Assignment[name])
	}

	summary := collector.Summarize()
	for _, name := range collector.SeriesNames() {
		agg := summary.Aggregations[name]
		if agg == nil {
			continue
		}
		logger.Info("series summary",
			"series", name,
			"count", agg.Count,
			"min", agg.Min,
			"mean", agg.Mean,
			"p50", agg.P50,
			"max", agg.Max)
	}
	return nil
}

// loadModel reads the instance file in its configured form. QUBO instances
// are converted to the Ising representation before tuning.
func loadModel(inst *config.InstanceConfig) (*ising.Model, error) {
	if inst.Form == "qubo" {
		q, err := ising.LoadQUBO(inst.CouplingsPath)
		if err != nil {
			return nil, err
		}
		return q.ToIsing()
	}
	return ising.LoadInstance(inst.CouplingsPath)
}

// buildParams maps the annealer config onto solver parameters, filling
// temperature endpoints from the computed bounds when not pinned in config.
func buildParams(ann *config.AnnealerConfig, bounds schedule.Bounds) annealer.Params {
	p := annealer.Params{
		NumSweeps:       ann.NumSweeps,
		NumReads:        ann.NumReads,
		NumReplicas:     ann.NumReplicas,
		MinTemp:         ann.MinTemp,
		MaxTemp:         ann.MaxTemp,
		Temps:           ann.Temps,
		ProblemType:     annealer.ProblemIsing,
		Precision:       annealer.Precision(ann.Precision),
		UpdateStrategy:  annealer.UpdateStrategy(ann.UpdateStrategy),
		InitStrategy:    annealer.InitStrategy(ann.InitStrategy),
		RecomputeEnergy: ann.RecomputeEnergy,
		SortOutput:      ann.SortOutput,
		Parallel:        ann.Parallel,
		ReplicaExchange: ann.ReplicaExchange,
	}
	if p.MinTemp == 0 {
		p.MinTemp = bounds.MinTemp
	}
	if p.MaxTemp == 0 {
		p.MaxTemp = bounds.MaxTemp
	}
	return p
}

func buildSpace(params []config.SpaceParameter) tuning.Space {
	space := make(tuning.Space, len(params))
	for i, p := range params {
		space[i] = tuning.Parameter{
			Name: p.Name,
			Dist: tuning.Distribution(p.Dist),
			Low:  p.Low,
			High: p.High,
		}
	}
	return space
}
