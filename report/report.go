// Package report writes the per-case and cross-case training artifacts.
package report

import (
	"fmt"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/jssp-rl/jssp-ppo/types"
	"github.com/jssp-rl/jssp-ppo/util"
)

// CaseSummary is one row of the cross-case summary.
type CaseSummary struct {
	Case             string
	MinMakeSpan      int
	ConvergedEpisode int
	Seconds          float64
}

// WriteCaseReport writes <case>_data.csv with one row per collected episode.
func WriteCaseReport(dir, caseName string, records []types.EpisodeRecord) error {
	header := []string{"episode", "make_span", "reward", "min_make_span"}
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			strconv.Itoa(r.Episode),
			strconv.Itoa(r.MakeSpan),
			fmt.Sprintf("%.2f", r.Reward),
			strconv.Itoa(r.MinMakeSpan),
		}
	}
	return util.WriteCSV(filepath.Join(dir, caseName+"_data.csv"), header, rows)
}

// PlotMakeSpans writes a makespan-over-episodes line chart next to the CSV.
func PlotMakeSpans(dir, caseName string, records []types.EpisodeRecord) error {
	p := plot.New()
	p.Title.Text = caseName
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Makespan"

	points := make(plotter.XYs, len(records))
	minPoints := make(plotter.XYs, len(records))
	for i, r := range records {
		points[i] = plotter.XY{X: float64(r.Episode), Y: float64(r.MakeSpan)}
		minPoints[i] = plotter.XY{X: float64(r.Episode), Y: float64(r.MinMakeSpan)}
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(0)
	minLine, err := plotter.NewLine(minPoints)
	if err != nil {
		return err
	}
	minLine.Color = plotutil.Color(1)
	p.Add(line, minLine)
	p.Legend.Add("makespan", line)
	p.Legend.Add("min makespan", minLine)
	return p.Save(8*vg.Inch, 8*vg.Inch, filepath.Join(dir, caseName+"_makespan.png"))
}

// WriteSummary writes the cross-case summary CSV.
func WriteSummary(path string, summaries []CaseSummary) error {
	header := []string{"case", "min_make_span", "converged_episode", "total_seconds"}
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			s.Case,
			strconv.Itoa(s.MinMakeSpan),
			strconv.Itoa(s.ConvergedEpisode),
			fmt.Sprintf("%.1f", s.Seconds),
		}
	}
	return util.WriteCSV(path, header, rows)
}
