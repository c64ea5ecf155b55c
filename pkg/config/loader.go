package config

import (
	"fmt"
	"os"
)

// Defaults for fields omitted from the config file. The scoring defaults
// match the solver-evaluation conventions used across the codebase.
const (
	DefaultLogLevel        = "info"
	DefaultPHot            = 0.5
	DefaultPCold           = 0.01
	DefaultSuccessQuantile = 0.99
	DefaultOptimalityGap   = 0.05
	DefaultFailValue       = 1e10
	DefaultMaxEvals        = 20
)

// LoadConfig loads and parses a configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills omitted fields with their defaults
func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Instance.Form == "" {
		cfg.Instance.Form = "ising"
	}
	if cfg.Schedule.PHot == 0 {
		cfg.Schedule.PHot = DefaultPHot
	}
	if cfg.Schedule.PCold == 0 {
		cfg.Schedule.PCold = DefaultPCold
	}
	if cfg.Scorer.SuccessQuantile == 0 {
		cfg.Scorer.SuccessQuantile = DefaultSuccessQuantile
	}
	if cfg.Scorer.OptimalityGap == nil {
		gap := DefaultOptimalityGap
		cfg.Scorer.OptimalityGap = &gap
	}
	if cfg.Scorer.FailValue == 0 {
		cfg.Scorer.FailValue = DefaultFailValue
	}
	if cfg.Annealer.Precision == "" {
		cfg.Annealer.Precision = "float64"
	}
	if cfg.Annealer.UpdateStrategy == "" {
		cfg.Annealer.UpdateStrategy = "sequential"
	}
	if cfg.Annealer.InitStrategy == "" {
		cfg.Annealer.InitStrategy = "random"
	}
	if cfg.Search.Strategy == "" {
		cfg.Search.Strategy = "random"
	}
	if cfg.Search.MaxEvals == 0 {
		cfg.Search.MaxEvals = DefaultMaxEvals
	}
}

// validateConfig performs validation on the configuration
func validateConfig(cfg *Config) error {
	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if err := validateInstance(&cfg.Instance); err != nil {
		return fmt.Errorf("instance validation failed: %w", err)
	}
	if err := validateSchedule(&cfg.Schedule); err != nil {
		return fmt.Errorf("schedule validation failed: %w", err)
	}
	if err := validateScorer(&cfg.Scorer); err != nil {
		return fmt.Errorf("scorer validation failed: %w", err)
	}
	if err := validateAnnealer(&cfg.Annealer); err != nil {
		return fmt.Errorf("annealer validation failed: %w", err)
	}
	if err := validateSearch(&cfg.Search); err != nil {
		return fmt.Errorf("search validation failed: %w", err)
	}

	return nil
}

// validateInstance validates the problem instance section
func validateInstance(inst *InstanceConfig) error {
	if inst.CouplingsPath == "" {
		return fmt.Errorf("couplings_path is required")
	}
	if inst.ReferencePath == "" {
		return fmt.Errorf("reference_path is required")
	}
	if inst.Form != "ising" && inst.Form != "qubo" {
		return fmt.Errorf("invalid form: %s (must be ising or qubo)", inst.Form)
	}
	return nil
}

// validateSchedule validates the acceptance probabilities
func validateSchedule(sched *ScheduleConfig) error {
	if sched.PHot <= 0 || sched.PHot >= 1 {
		return fmt.Errorf("p_hot must be in (0, 1), got %f", sched.PHot)
	}
	if sched.PCold <= 0 || sched.PCold >= 1 {
		return fmt.Errorf("p_cold must be in (0, 1), got %f", sched.PCold)
	}
	return nil
}

// validateScorer validates the scoring section
func validateScorer(scorer *ScorerConfig) error {
	if scorer.SuccessQuantile <= 0 || scorer.SuccessQuantile >= 1 {
		return fmt.Errorf("success_quantile must be in (0, 1), got %f", scorer.SuccessQuantile)
	}
	if gap := *scorer.OptimalityGap; gap < 0 || gap >= 1 {
		return fmt.Errorf("optimality_gap must be in [0, 1), got %f", gap)
	}
	if scorer.FailValue <= 0 {
		return fmt.Errorf("fail_value must be positive, got %f", scorer.FailValue)
	}
	return nil
}

// validateAnnealer validates the solver section
func validateAnnealer(ann *AnnealerConfig) error {
	if ann.Command == "" {
		return fmt.Errorf("command is required")
	}
	if ann.NumSweeps <= 0 {
		return fmt.Errorf("num_sweeps must be positive, got %d", ann.NumSweeps)
	}
	if ann.NumReads <= 0 {
		return fmt.Errorf("num_reads must be positive, got %d", ann.NumReads)
	}
	if ann.NumReplicas <= 0 {
		return fmt.Errorf("num_replicas must be positive, got %d", ann.NumReplicas)
	}

	if ann.MinTemp < 0 {
		return fmt.Errorf("min_temp cannot be negative, got %f", ann.MinTemp)
	}
	if ann.MaxTemp < 0 {
		return fmt.Errorf("max_temp cannot be negative, got %f", ann.MaxTemp)
	}
	if ann.MinTemp > 0 && ann.MaxTemp > 0 && ann.MaxTemp <= ann.MinTemp {
		return fmt.Errorf("max_temp %f must exceed min_temp %f", ann.MaxTemp, ann.MinTemp)
	}
	for i, temp := range ann.Temps {
		if temp <= 0 {
			return fmt.Errorf("temps[%d] must be positive, got %f", i, temp)
		}
	}

	validPrecisions := map[string]bool{"float32": true, "float64": true}
	if !validPrecisions[ann.Precision] {
		return fmt.Errorf("invalid precision: %s (must be float32 or float64)", ann.Precision)
	}
	validUpdates := map[string]bool{"sequential": true, "random": true}
	if !validUpdates[ann.UpdateStrategy] {
		return fmt.Errorf("invalid update_strategy: %s (must be sequential or random)", ann.UpdateStrategy)
	}
	validInits := map[string]bool{"random": true, "ones": true, "zeros": true}
	if !validInits[ann.InitStrategy] {
		return fmt.Errorf("invalid initialize_strategy: %s (must be random, ones, or zeros)", ann.InitStrategy)
	}

	return nil
}

// validateSearch validates the search section
func validateSearch(search *SearchConfig) error {
	if search.Strategy != "random" {
		return fmt.Errorf("invalid strategy: %s (must be random)", search.Strategy)
	}
	if search.MaxEvals <= 0 {
		return fmt.Errorf("max_evals must be positive, got %d", search.MaxEvals)
	}
	if len(search.Space) == 0 {
		return fmt.Errorf("search space must define at least one parameter")
	}

	validDists := map[string]bool{
		"uniform":         true,
		"log_uniform":     true,
		"uniform_int":     true,
		"log_uniform_int": true,
	}
	// The names the solver boundary accepts as tuned parameters. Anything
	// else would only fail on the first trial, so reject it here.
	tunableNames := map[string]bool{
		"num_sweeps":   true,
		"num_reads":    true,
		"num_replicas": true,
		"min_temp":     true,
		"max_temp":     true,
	}
	names := make(map[string]bool)
	for _, p := range search.Space {
		if p.Name == "" {
			return fmt.Errorf("space parameter name cannot be empty")
		}
		if !tunableNames[p.Name] {
			return fmt.Errorf("unknown tunable parameter: %s", p.Name)
		}
		if names[p.Name] {
			return fmt.Errorf("duplicate space parameter: %s", p.Name)
		}
		names[p.Name] = true
		if !validDists[p.Dist] {
			return fmt.Errorf("parameter %s: invalid dist: %s", p.Name, p.Dist)
		}
		if p.Low > p.High {
			return fmt.Errorf("parameter %s: low %f exceeds high %f", p.Name, p.Low, p.High)
		}
		if (p.Dist == "log_uniform" || p.Dist == "log_uniform_int") && p.Low <= 0 {
			return fmt.Errorf("parameter %s: log-uniform ranges require low > 0, got %f", p.Name, p.Low)
		}
	}

	return nil
}
