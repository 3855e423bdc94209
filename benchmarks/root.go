// Package benchmarks holds the command line entry points: training a single
// case, batch-training a directory of cases and evaluating a checkpoint.
package benchmarks

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jssp-rl/jssp-ppo/types"
)

var (
	saveDir    string
	configFile string
	epochs     int
	timeBudget int
	seed       uint64
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "jssp-ppo",
		Short: "PPO trainer for job-shop scheduling",
	}
	rootCommand.PersistentFlags().StringVarP(&saveDir, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Hyperparameter YAML file")
	rootCommand.PersistentFlags().IntVarP(&epochs, "epochs", "e", 0, "Override the epoch bound")
	rootCommand.PersistentFlags().IntVar(&timeBudget, "time-budget", 0, "Override the wall-clock budget in seconds")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 0, "Random seed (0 = time-based)")
	rootCommand.AddCommand(TrainCommand())
	rootCommand.AddCommand(BatchCommand())
	rootCommand.AddCommand(EvalCommand())
	return rootCommand
}

// loadConfig resolves the effective hyperparameters from defaults, the
// optional YAML file and the command line overrides.
func loadConfig() (types.Config, error) {
	config := types.DefaultConfig()
	if configFile != "" {
		loaded, err := types.LoadConfig(configFile)
		if err != nil {
			return config, err
		}
		config = loaded
	}
	if epochs > 0 {
		config.MaxEpochs = epochs
	}
	if timeBudget > 0 {
		config.TimeBudgetSeconds = timeBudget
	}
	if seed != 0 {
		config.Seed = seed
	}
	return config, nil
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}
