// Package plots renders the exploratory charts of a derived film table as PNG files.
package plots

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/maliblgn/imdb-movie-classifier/pkg/config"
	"github.com/maliblgn/imdb-movie-classifier/pkg/dataprep"
	"github.com/maliblgn/imdb-movie-classifier/pkg/stats"
)

// Chart is one rendered (or failed) chart.
type Chart struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Path  string `yaml:"path,omitempty"`
	Error string `yaml:"error,omitempty"`
}

// chartDef builds one chart from the table.
type chartDef struct {
	name  string
	title string
	build func(t *dataprep.Table, o options) (*plot.Plot, error)
}

type options struct {
	bins int
	topN int
}

// charts lists every chart in rendering order.
var charts = []chartDef{
	{"01_rating_hist", "IMDb rating distribution", ratingHist},
	{"02_class_balance", "Low/medium vs high rated films", classBalance},
	{"03_runtime_hist", "Runtime distribution", runtimeHist},
	{"04_runtime_box", "Runtime boxplot", runtimeBox},
	{"05_votes_hist", "Vote count distribution (raw)", votesHist},
	{"06_votes_log_hist", "Vote count distribution (log)", votesLogHist},
	{"07_genre_means", "Mean IMDb rating by primary genre", genreMeans},
	{"08_rating_vs_votes", "IMDb rating vs vote count (log)", ratingVsVotes},
}

// Names returns the chart names in rendering order.
func Names() []string {
	out := make([]string, len(charts))
	for i, c := range charts {
		out[i] = c.name
	}
	return out
}

// Render draws every chart into cfg.Dir. A chart that cannot be drawn is
// reported with its error and does not stop the others; only failing to
// create the directory is fatal.
func Render(t *dataprep.Table, cfg config.PlotsConfig, topN int) ([]Chart, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "plots: create %s", cfg.Dir)
	}
	w, h := vg.Length(cfg.WidthIn)*vg.Inch, vg.Length(cfg.HeightIn)*vg.Inch
	o := options{bins: cfg.Bins, topN: topN}

	out := make([]Chart, 0, len(charts))
	for _, c := range charts {
		res := Chart{Name: c.name, Title: c.title}
		p, err := c.build(t, o)
		if err == nil {
			p.Title.Text = c.title
			path := filepath.Join(cfg.Dir, c.name+".png")
			if err = p.Save(w, h, path); err == nil {
				res.Path = path
			}
		}
		if err != nil {
			res.Error = err.Error()
			zap.L().Warn("plots: chart failed", zap.String("chart", c.name), zap.Error(err))
		} else {
			zap.L().Debug("plots: saved", zap.String("path", res.Path))
		}
		out = append(out, res)
	}
	return out, nil
}

func column(t *dataprep.Table, name string) (plotter.Values, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if len(col) == 0 {
		return nil, eris.Errorf("plots: column %q is empty", name)
	}
	return plotter.CopyValues(plotter.Values(col))
}

func histogram(t *dataprep.Table, name, xLabel string, bins int) (*plot.Plot, error) {
	vs, err := column(t, name)
	if err != nil {
		return nil, err
	}
	hist, err := plotter.NewHist(vs, bins)
	if err != nil {
		return nil, eris.Wrapf(err, "plots: histogram of %s", name)
	}
	p := plot.New()
	p.Add(plotter.NewGrid(), hist)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Films"
	return p, nil
}

func ratingHist(t *dataprep.Table, o options) (*plot.Plot, error) {
	return histogram(t, dataprep.ColAverageRating, "IMDb rating (averageRating)", o.bins)
}

func runtimeHist(t *dataprep.Table, o options) (*plot.Plot, error) {
	return histogram(t, dataprep.ColRuntimeMinutes, "Runtime (minutes)", o.bins)
}

func votesHist(t *dataprep.Table, o options) (*plot.Plot, error) {
	return histogram(t, dataprep.ColNumVotes, "Votes (numVotes)", o.bins)
}

func votesLogHist(t *dataprep.Table, o options) (*plot.Plot, error) {
	return histogram(t, dataprep.ColNumVotesLog, "log(1 + votes) (numVotes_log)", o.bins)
}

func classBalance(t *dataprep.Table, _ options) (*plot.Plot, error) {
	if t.Len() == 0 {
		return nil, eris.New("plots: no rows to count")
	}
	var counts [2]float64
	for _, y := range t.Labels() {
		counts[y]++
	}
	bars, err := plotter.NewBarChart(plotter.Values(counts[:]), vg.Points(40))
	if err != nil {
		return nil, eris.Wrap(err, "plots: class balance")
	}
	p := plot.New()
	p.Add(plotter.NewGrid(), bars)
	p.NominalX(fmt.Sprintf("Low/medium (<%g)", t.Threshold), fmt.Sprintf("High (>=%g)", t.Threshold))
	p.X.Label.Text = "Class"
	p.Y.Label.Text = "Films"
	return p, nil
}

func runtimeBox(t *dataprep.Table, _ options) (*plot.Plot, error) {
	vs, err := column(t, dataprep.ColRuntimeMinutes)
	if err != nil {
		return nil, err
	}
	box, err := plotter.NewBoxPlot(vg.Points(40), 0, vs)
	if err != nil {
		return nil, eris.Wrap(err, "plots: runtime boxplot")
	}
	box.Horizontal = true
	p := plot.New()
	p.Add(plotter.NewGrid(), box)
	p.HideY()
	p.X.Label.Text = "Runtime (minutes)"
	return p, nil
}

func genreMeans(t *dataprep.Table, o options) (*plot.Plot, error) {
	ratings, err := t.Column(dataprep.ColAverageRating)
	if err != nil {
		return nil, err
	}
	genres, err := t.Categorical(dataprep.ColPrimaryGenre)
	if err != nil {
		return nil, err
	}
	top := stats.TopByMean(stats.MeanBy(genres, ratings), o.topN)
	if len(top) == 0 {
		return nil, eris.New("plots: no genres")
	}
	values := make(plotter.Values, len(top))
	names := make([]string, len(top))
	for i, g := range top {
		values[i] = g.Mean
		names[i] = g.Key
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, eris.Wrap(err, "plots: genre means")
	}
	p := plot.New()
	p.Add(plotter.NewGrid(), bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Label.Text = "Primary genre"
	p.Y.Label.Text = "Mean IMDb rating"
	return p, nil
}

func ratingVsVotes(t *dataprep.Table, _ options) (*plot.Plot, error) {
	x, err := t.Column(dataprep.ColNumVotesLog)
	if err != nil {
		return nil, err
	}
	y, err := t.Column(dataprep.ColAverageRating)
	if err != nil {
		return nil, err
	}
	if len(x) == 0 {
		return nil, eris.New("plots: no rows to scatter")
	}
	s, err := ratingScatter(x, y)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Add(plotter.NewGrid(), s)
	p.X.Label.Text = "log(1 + votes) (numVotes_log)"
	p.Y.Label.Text = "IMDb rating (averageRating)"
	return p, nil
}

// scatterColor is blue at half opacity.
var scatterColor = color.NRGBA{R: 31, G: 119, B: 180, A: 128}

func ratingScatter(x, y []float64) (*plotter.Scatter, error) {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X, pts[i].Y = x[i], y[i]
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, eris.Wrap(err, "plots: scatter")
	}
	s.GlyphStyle.Radius = vg.Points(1.5)
	s.GlyphStyle.Color = scatterColor
	return s, nil
}
