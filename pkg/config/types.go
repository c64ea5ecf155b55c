package config

// Config represents the main tuning run configuration
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Instance InstanceConfig `yaml:"instance"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Scorer   ScorerConfig   `yaml:"scorer"`
	Annealer AnnealerConfig `yaml:"annealer"`
	Search   SearchConfig   `yaml:"search"`
}

// InstanceConfig points at the problem instance on disk
type InstanceConfig struct {
	CouplingsPath string `yaml:"couplings_path"`
	ReferencePath string `yaml:"reference_path"`
	Form          string `yaml:"form"` // ising or qubo
	// ScalingCorrection enables the degeneracy correction when estimating
	// the low-temperature energy gap.
	ScalingCorrection bool `yaml:"scaling_correction"`
}

// ScheduleConfig holds the acceptance probabilities behind the temperature bounds
type ScheduleConfig struct {
	PHot  float64 `yaml:"p_hot"`
	PCold float64 `yaml:"p_cold"`
}

// ScorerConfig holds the time-to-solution scoring knobs. OptimalityGap is a
// pointer so an explicit zero (exact ground-state matching) survives
// defaulting.
type ScorerConfig struct {
	SuccessQuantile float64  `yaml:"success_quantile"`
	OptimalityGap   *float64 `yaml:"optimality_gap"`
	FailValue       float64  `yaml:"fail_value"`
}

// AnnealerConfig describes the external solver executable and its fixed
// run parameters. Temperature endpoints left at zero are filled in from
// the computed bounds.
type AnnealerConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`

	NumSweeps   int `yaml:"num_sweeps"`
	NumReads    int `yaml:"num_reads"`
	NumReplicas int `yaml:"num_replicas"`

	MinTemp float64   `yaml:"min_temp,omitempty"`
	MaxTemp float64   `yaml:"max_temp,omitempty"`
	Temps   []float64 `yaml:"temps,omitempty"`

	Precision      string `yaml:"precision"`
	UpdateStrategy string `yaml:"update_strategy"`
	InitStrategy   string `yaml:"initialize_strategy"`

	RecomputeEnergy bool `yaml:"recompute_energy"`
	SortOutput      bool `yaml:"sort_output"`
	Parallel        bool `yaml:"parallel"`
	ReplicaExchange bool `yaml:"replica_exchange"`
}

// SearchConfig describes the parameter search
type SearchConfig struct {
	Strategy string           `yaml:"strategy"` // random
	MaxEvals int              `yaml:"max_evals"`
	Seed     int64            `yaml:"seed,omitempty"`
	Space    []SpaceParameter `yaml:"space"`
}

// SpaceParameter is one tunable solver parameter and its sampling range
type SpaceParameter struct {
	Name string  `yaml:"name"`
	Dist string  `yaml:"dist"` // uniform, log_uniform, uniform_int, log_uniform_int
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}
