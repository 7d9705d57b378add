// Package report assembles the descriptive and model-evaluation reports.
package report

import (
	"go.uber.org/zap"

	"github.com/maliblgn/imdb-movie-classifier/pkg/config"
	"github.com/maliblgn/imdb-movie-classifier/pkg/dataprep"
	"github.com/maliblgn/imdb-movie-classifier/pkg/stats"
)

// DescribeColumns are the numeric columns summarised and correlated.
var DescribeColumns = []string{
	dataprep.ColAverageRating,
	dataprep.ColRuntimeMinutes,
	dataprep.ColNumVotesLog,
	dataprep.ColStartYear,
}

// GroupColumns are averaged per high_rating class.
var GroupColumns = []string{
	dataprep.ColAverageRating,
	dataprep.ColRuntimeMinutes,
	dataprep.ColNumVotesLog,
}

// ClassCount is the size and share of one high_rating class.
type ClassCount struct {
	Label int     `yaml:"label"`
	Count int     `yaml:"count"`
	Ratio float64 `yaml:"ratio"`
}

// LabelMeans holds the GroupColumns means for one high_rating class.
type LabelMeans struct {
	Label int       `yaml:"label"`
	Count int       `yaml:"count"`
	Means []float64 `yaml:"means"`
}

// ColumnValue pairs a column name with a value.
type ColumnValue struct {
	Column string  `yaml:"column"`
	Value  float64 `yaml:"value"`
}

// Descriptive is the full descriptive report. Each statistic carries its
// own error so one failing column never hides the rest.
type Descriptive struct {
	Rows              int                     `yaml:"rows"`
	Threshold         float64                 `yaml:"threshold"`
	ClassBalance      []ClassCount            `yaml:"class_balance"`
	Summaries         []stats.Summary         `yaml:"summaries"`
	Shapes            []stats.Shape           `yaml:"shapes"`
	RatingModes       []float64               `yaml:"rating_modes"`
	GroupColumns      []string                `yaml:"group_columns"`
	GroupMeans        []LabelMeans            `yaml:"group_means"`
	GenreMeans        []stats.Group           `yaml:"genre_means"`
	Normality         []stats.NormalityResult `yaml:"normality"`
	Alpha             float64                 `yaml:"alpha"`
	Correlation       stats.Correlation       `yaml:"correlation"`
	CorrelationColumn string                  `yaml:"correlation_column"`
	ColumnCorrelation []ColumnValue           `yaml:"column_correlation"`
}

// Describe computes every descriptive statistic over t.
func Describe(t *dataprep.Table, cfg config.ReportConfig) *Descriptive {
	d := &Descriptive{
		Rows:              t.Len(),
		Threshold:         t.Threshold,
		Alpha:             cfg.Alpha,
		GroupColumns:      append([]string(nil), GroupColumns...),
		CorrelationColumn: cfg.CorrelationColumn,
	}
	labels := t.Labels()
	d.ClassBalance = classBalance(labels)

	cols := make([][]float64, len(DescribeColumns))
	for i, name := range DescribeColumns {
		col, err := t.Column(name)
		if err != nil {
			d.Summaries = append(d.Summaries, stats.Summary{Column: name, Error: err.Error()})
			d.Shapes = append(d.Shapes, stats.Shape{Column: name, Error: err.Error()})
			continue
		}
		cols[i] = col
		d.Summaries = append(d.Summaries, stats.Describe(name, col))
		d.Shapes = append(d.Shapes, stats.Dispersion(name, col))
	}

	if ratings, err := t.Column(dataprep.ColAverageRating); err == nil {
		d.RatingModes = stats.Modes(ratings)
		if genres, err := t.Categorical(dataprep.ColPrimaryGenre); err == nil {
			d.GenreMeans = stats.TopByMean(stats.MeanBy(genres, ratings), cfg.TopGenres)
		}
	}
	d.GroupMeans = groupMeans(t, labels)

	for _, name := range cfg.NormalityColumns {
		col, err := t.Column(name)
		if err != nil {
			d.Normality = append(d.Normality, stats.NormalityResult{Column: name, Error: err.Error()})
			continue
		}
		r := stats.NormalityTest(name, col, cfg.Alpha)
		if r.Warning != "" {
			zap.L().Warn("report: normality", zap.String("column", name), zap.String("warning", r.Warning))
		}
		d.Normality = append(d.Normality, r)
	}

	d.Correlation = stats.CorrelationMatrix(DescribeColumns, cols)
	if row, ok := d.Correlation.Row(cfg.CorrelationColumn); ok {
		for i, name := range d.Correlation.Columns {
			d.ColumnCorrelation = append(d.ColumnCorrelation, ColumnValue{Column: name, Value: row[i]})
		}
	}
	return d
}

func classBalance(labels []int) []ClassCount {
	var counts [2]int
	for _, y := range labels {
		counts[y]++
	}
	out := make([]ClassCount, 2)
	for c := range out {
		out[c] = ClassCount{Label: c, Count: counts[c]}
		if len(labels) > 0 {
			out[c].Ratio = float64(counts[c]) / float64(len(labels))
		}
	}
	return out
}

// groupMeans averages GroupColumns within each class present in labels.
func groupMeans(t *dataprep.Table, labels []int) []LabelMeans {
	var counts [2]int
	for _, y := range labels {
		counts[y]++
	}
	var sums [2][]float64
	for c := range sums {
		sums[c] = make([]float64, len(GroupColumns))
	}
	for j, name := range GroupColumns {
		col, err := t.Column(name)
		if err != nil {
			continue
		}
		for i, v := range col {
			sums[labels[i]][j] += v
		}
	}

	var out []LabelMeans
	for c, n := range counts {
		if n == 0 {
			continue
		}
		means := sums[c]
		for j := range means {
			means[j] /= float64(n)
		}
		out = append(out, LabelMeans{Label: c, Count: n, Means: means})
	}
	return out
}
