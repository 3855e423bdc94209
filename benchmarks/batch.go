package benchmarks

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jssp-rl/jssp-ppo/report"
)

func BatchCommand() *cobra.Command {
	var dataDir string
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Train a fresh policy for every problem instance in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger()

			entries, err := os.ReadDir(dataDir)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(entries))
			for _, entry := range entries {
				if !entry.IsDir() {
					names = append(names, entry.Name())
				}
			}
			sort.Strings(names)

			summaries := make([]report.CaseSummary, 0, len(names))
			for _, name := range names {
				logger.WithField("case", name).Info("starting case")
				summary, err := trainCase(filepath.Join(dataDir, name), config, logger)
				if err != nil {
					return err
				}
				summaries = append(summaries, *summary)
			}
			return report.WriteSummary(filepath.Join(saveDir, "summary.csv"), summaries)
		},
	}
	cmd.Flags().StringVar(&dataDir, "data", "", "Directory of problem instance files")
	cmd.MarkFlagRequired("data")
	return cmd
}
