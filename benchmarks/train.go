package benchmarks

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jssp-rl/jssp-ppo/jobshop"
	"github.com/jssp-rl/jssp-ppo/ppo"
	"github.com/jssp-rl/jssp-ppo/report"
	"github.com/jssp-rl/jssp-ppo/types"
)

func TrainCommand() *cobra.Command {
	var caseFile string
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a scheduling policy on one problem instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger()
			summary, err := trainCase(caseFile, config, logger)
			if err != nil {
				return err
			}
			return report.WriteSummary(filepath.Join(saveDir, "summary.csv"), []report.CaseSummary{*summary})
		},
	}
	cmd.Flags().StringVar(&caseFile, "case", "", "Problem instance file")
	cmd.MarkFlagRequired("case")
	return cmd
}

// trainCase runs one fresh training run against one instance and writes the
// per-case artifacts.
func trainCase(caseFile string, config types.Config, logger *logrus.Logger) (*report.CaseSummary, error) {
	instance, err := jobshop.ParseInstance(caseFile)
	if err != nil {
		return nil, err
	}
	env := jobshop.NewEnv(instance)
	checkpointer := ppo.DirCheckpointer{Dir: filepath.Join(saveDir, "param", env.CaseName())}

	trainer := ppo.NewTrainer(env, config, checkpointer, logger)
	result, err := trainer.Train()
	if err != nil {
		return nil, fmt.Errorf("training %s: %w", env.CaseName(), err)
	}

	if err := report.WriteCaseReport(saveDir, env.CaseName(), result.Records); err != nil {
		return nil, err
	}
	if err := report.PlotMakeSpans(saveDir, env.CaseName(), result.Records); err != nil {
		logger.WithError(err).Warn("could not plot makespan curve")
	}
	return &report.CaseSummary{
		Case:             env.CaseName(),
		MinMakeSpan:      result.MinMakeSpan,
		ConvergedEpisode: result.ConvergedEpisode,
		Seconds:          result.Elapsed.Seconds(),
	}, nil
}
