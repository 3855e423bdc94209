package benchmarks

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/jssp-rl/jssp-ppo/jobshop"
	"github.com/jssp-rl/jssp-ppo/ppo"
)

func EvalCommand() *cobra.Command {
	var caseFile string
	var paramDir string
	var episodes int
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Roll out a trained policy on a problem instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger()

			instance, err := jobshop.ParseInstance(caseFile)
			if err != nil {
				return err
			}
			env := jobshop.NewEnv(instance)

			evalSeed := config.Seed
			if evalSeed == 0 {
				evalSeed = uint64(time.Now().UnixNano())
			}
			src := rand.NewSource(evalSeed)
			hidden := config.HiddenUnitsFor(env.StateDim())
			actor := ppo.NewActor(env.StateDim(), env.ActionDim(), hidden, config.ActorLR, src)
			critic := ppo.NewCritic(env.StateDim(), hidden, config.CriticLR, src)
			checkpointer := ppo.DirCheckpointer{Dir: paramDir}
			if err := checkpointer.Load(actor, critic); err != nil {
				return err
			}

			collector := ppo.NewRolloutCollector(env, actor, config.Gamma)
			best := -1
			for i := 0; i < episodes; i++ {
				episode, err := collector.CollectEpisode()
				if err != nil {
					return err
				}
				if best < 0 || episode.MakeSpan < best {
					best = episode.MakeSpan
				}
				logger.WithFields(logrus.Fields{
					"case":     env.CaseName(),
					"episode":  i,
					"makespan": episode.MakeSpan,
					"best":     best,
				}).Info("evaluation episode")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&caseFile, "case", "", "Problem instance file")
	cmd.Flags().StringVar(&paramDir, "params", "", "Directory holding actor/critic parameter blobs")
	cmd.Flags().IntVar(&episodes, "episodes", 10, "Number of evaluation episodes")
	cmd.MarkFlagRequired("case")
	cmd.MarkFlagRequired("params")
	return cmd
}
