package types

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the training hyperparameters. The zero value is not
// usable; start from DefaultConfig and overlay a YAML file or flags.
type Config struct {
	// reward discount
	Gamma float64 `yaml:"gamma"`
	// learning rates for the two Adam optimizers
	ActorLR  float64 `yaml:"actor_lr"`
	CriticLR float64 `yaml:"critic_lr"`
	// clip range of the surrogate objective
	ClipEpsilon float64 `yaml:"clip_epsilon"`
	// gradient norm bound applied to both networks
	MaxGradNorm float64 `yaml:"max_grad_norm"`
	// update passes per epoch
	UpdateSteps int `yaml:"update_steps"`

	// complete episodes collected per epoch
	MemorySize int `yaml:"memory_size"`
	// mini-batch size of the full sweep; 0 means 2*jobs*machines
	BatchSize int `yaml:"batch_size"`
	// hidden layer width; 0 means the state dimension
	HiddenUnits int `yaml:"hidden_units"`

	// priority replay
	Alpha              float64 `yaml:"alpha"`
	AdvantageFloor     float64 `yaml:"advantage_floor"`
	InitSize           int     `yaml:"init_size"`
	ConvergenceEpisode int     `yaml:"convergence_episode"`

	// orchestration bounds
	MaxEpochs         int `yaml:"max_epochs"`
	TimeBudgetSeconds int `yaml:"time_budget_seconds"`
	ConvergenceWindow int `yaml:"convergence_window"`

	Seed uint64 `yaml:"seed"`
}

// DefaultConfig returns the standard hyperparameters.
func DefaultConfig() Config {
	return Config{
		Gamma:              0.999,
		ActorLR:            1e-3,
		CriticLR:           3e-3,
		ClipEpsilon:        0.2,
		MaxGradNorm:        0.5,
		UpdateSteps:        10,
		MemorySize:         9,
		BatchSize:          0,
		HiddenUnits:        0,
		Alpha:              0.6,
		AdvantageFloor:     1e-5,
		InitSize:           1,
		ConvergenceEpisode: 2000,
		MaxEpochs:          4000,
		TimeBudgetSeconds:  3600,
		ConvergenceWindow:  30,
		Seed:               0,
	}
}

// BatchSizeFor resolves the mini-batch size for an instance, defaulting to
// twice the operation count.
func (c Config) BatchSizeFor(jobs, machines int) int {
	if c.BatchSize > 0 {
		return c.BatchSize
	}
	return 2 * jobs * machines
}

// HiddenUnitsFor resolves the hidden layer width, defaulting to the state
// dimension.
func (c Config) HiddenUnitsFor(stateDim int) int {
	if c.HiddenUnits > 0 {
		return c.HiddenUnits
	}
	return stateDim
}

// LoadConfig overlays a YAML file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parsing config: %w", err)
	}
	return config, nil
}
