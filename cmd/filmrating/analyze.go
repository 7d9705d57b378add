package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/maliblgn/imdb-movie-classifier/pkg/data"
	"github.com/maliblgn/imdb-movie-classifier/pkg/dataprep"
	"github.com/maliblgn/imdb-movie-classifier/pkg/pipeline"
	"github.com/maliblgn/imdb-movie-classifier/pkg/plots"
	"github.com/maliblgn/imdb-movie-classifier/pkg/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis: describe, plot and train",
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

// stages selects the parts of the analysis a command runs.
type stages struct {
	describe bool
	plot     bool
	train    bool
}

// analysis is everything a run produced; absent stages stay nil.
type analysis struct {
	Descriptive *report.Descriptive `yaml:"descriptive,omitempty"`
	Charts      []plots.Chart       `yaml:"charts,omitempty"`
	Evaluation  *report.Evaluation  `yaml:"evaluation,omitempty"`
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	return run(cmd, stages{describe: true, plot: true, train: true})
}

func run(cmd *cobra.Command, st stages) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := zap.L().With(zap.String("command", cmd.Name()))

	table, err := loadTable(log)
	if err != nil {
		return err
	}

	a, err := analyze(ctx, log, table, st)
	if err != nil {
		return err
	}
	return writeAnalysis(cmd.OutOrStdout(), a, cfg.Output.Format)
}

// loadTable resolves and reads the CSV, then derives the film table.
func loadTable(log *zap.Logger) (*dataprep.Table, error) {
	path, err := data.ResolvePath(cfg.Data)
	if err != nil {
		return nil, err
	}
	raw, err := data.Load(path)
	if err != nil {
		return nil, err
	}
	table := dataprep.Derive(raw, cfg.Features.RatingThreshold)
	log.Info("data loaded",
		zap.String("path", path),
		zap.Int("rows", len(raw)),
		zap.Int("dropped_runtime", len(raw)-table.Len()),
	)
	return table, nil
}

func analyze(ctx context.Context, log *zap.Logger, table *dataprep.Table, st stages) (*analysis, error) {
	a := &analysis{}

	if st.describe {
		a.Descriptive = report.Describe(table, cfg.Report)
		log.Info("descriptive report done")
	}

	if st.plot {
		if cfg.Plots.Enabled {
			charts, err := plots.Render(table, cfg.Plots, cfg.Report.TopGenres)
			if err != nil {
				return nil, err
			}
			a.Charts = charts
			log.Info("charts rendered", zap.String("dir", cfg.Plots.Dir), zap.Int("charts", len(charts)))
		} else {
			log.Info("charts disabled")
		}
	}

	if st.train {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "analyze: interrupted")
		}
		schema := pipeline.DefaultSchema()
		pipes := pipeline.Build(schema, cfg.Model)
		for _, p := range pipes {
			log.Debug("pipeline built", zap.String("model", p.Name), zap.Stringer("steps", p))
		}
		ev, err := report.Evaluate(ctx, table, schema, pipes, cfg.Split)
		if err != nil {
			return nil, err
		}
		a.Evaluation = ev
		log.Info("models evaluated", zap.Int("models", len(ev.Models)))
	}
	return a, nil
}
