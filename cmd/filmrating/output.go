package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/maliblgn/imdb-movie-classifier/pkg/model"
	"github.com/maliblgn/imdb-movie-classifier/pkg/plots"
	"github.com/maliblgn/imdb-movie-classifier/pkg/report"
)

// writeAnalysis prints a in the configured format.
func writeAnalysis(out io.Writer, a *analysis, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(a); err != nil {
			return eris.Wrap(err, "output: encode yaml")
		}
		if err := enc.Close(); err != nil {
			return eris.Wrap(err, "output: encode yaml")
		}
		return nil
	case "text", "":
		if a.Descriptive != nil {
			formatDescriptive(out, a.Descriptive)
		}
		if a.Charts != nil {
			formatCharts(out, a.Charts)
		}
		if a.Evaluation != nil {
			formatEvaluation(out, a.Evaluation)
		}
		return nil
	default:
		return eris.Errorf("output: unknown format %q", format)
	}
}

func heading(out io.Writer, title string) {
	_, _ = fmt.Fprintf(out, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
}

// num formats a statistic; NaN reads as "n/a".
func num(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}

func formatDescriptive(out io.Writer, d *report.Descriptive) {
	heading(out, "Dataset")
	_, _ = fmt.Fprintf(out, "Films: %d (runtimeMinutes > 0)\n", d.Rows)
	_, _ = fmt.Fprintf(out, "high_rating = 1 when averageRating >= %g\n", d.Threshold)

	heading(out, "Class balance (high_rating)")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "LABEL\tCOUNT\tRATIO")
	for _, c := range d.ClassBalance {
		_, _ = fmt.Fprintf(w, "%d\t%d\t%.4f\n", c.Label, c.Count, c.Ratio)
	}
	_ = w.Flush()

	heading(out, "Summary statistics")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COLUMN\tCOUNT\tMEAN\tSTD\tMIN\t25%\t50%\t75%\tMAX\tERROR")
	for _, s := range d.Summaries {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Column, s.Count, num(s.Mean), num(s.Std), num(s.Min),
			num(s.Q25), num(s.Q50), num(s.Q75), num(s.Max), s.Error)
	}
	_ = w.Flush()

	heading(out, "Dispersion and shape")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COLUMN\tVARIANCE\tSTD\tMIN\tMAX\tRANGE\tSKEWNESS\tKURTOSIS\tERROR")
	for _, s := range d.Shapes {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Column, num(s.Variance), num(s.Std), num(s.Min), num(s.Max),
			num(s.Range), num(s.Skewness), num(s.Kurtosis), s.Error)
	}
	_ = w.Flush()

	modes := make([]string, len(d.RatingModes))
	for i, m := range d.RatingModes {
		modes[i] = fmt.Sprintf("%g", m)
	}
	_, _ = fmt.Fprintf(out, "\nMode of averageRating: %s\n", strings.Join(modes, ", "))

	heading(out, "Means by high_rating")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "HIGH_RATING\tCOUNT\t%s\n", strings.Join(d.GroupColumns, "\t"))
	for _, g := range d.GroupMeans {
		vals := make([]string, len(g.Means))
		for i, v := range g.Means {
			vals[i] = num(v)
		}
		_, _ = fmt.Fprintf(w, "%d\t%d\t%s\n", g.Label, g.Count, strings.Join(vals, "\t"))
	}
	_ = w.Flush()

	heading(out, "Top genres by mean averageRating")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "GENRE\tFILMS\tMEAN")
	for _, g := range d.GenreMeans {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", g.Key, g.Count, num(g.Mean))
	}
	_ = w.Flush()

	heading(out, fmt.Sprintf("Shapiro-Wilk normality (alpha = %g)", d.Alpha))
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COLUMN\tN\tW\tP-VALUE\tVERDICT\tNOTE")
	for _, r := range d.Normality {
		note := r.Warning
		if r.Error != "" {
			note = r.Error
		}
		w1, p := "-", "-"
		if r.Error == "" {
			w1, p = num(r.Statistic), fmt.Sprintf("%.4g", r.PValue)
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n", r.Column, r.N, w1, p, r.Verdict(), note)
	}
	_ = w.Flush()

	heading(out, "Pearson correlation")
	if d.Correlation.Error != "" {
		_, _ = fmt.Fprintf(out, "note: %s\n", d.Correlation.Error)
	}
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "\t%s\n", strings.Join(d.Correlation.Columns, "\t"))
	for i, name := range d.Correlation.Columns {
		if i >= len(d.Correlation.Values) {
			break
		}
		vals := make([]string, len(d.Correlation.Values[i]))
		for j, v := range d.Correlation.Values[i] {
			vals[j] = num(v)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(vals, "\t"))
	}
	_ = w.Flush()

	if len(d.ColumnCorrelation) > 0 {
		_, _ = fmt.Fprintf(out, "\nCorrelation with %s:\n", d.CorrelationColumn)
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, c := range d.ColumnCorrelation {
			_, _ = fmt.Fprintf(w, "  %s\t%s\n", c.Column, num(c.Value))
		}
		_ = w.Flush()
	}
}

func formatCharts(out io.Writer, charts []plots.Chart) {
	heading(out, "Charts")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CHART\tTITLE\tRESULT")
	for _, c := range charts {
		result := c.Path
		if c.Error != "" {
			result = "failed: " + c.Error
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, c.Title, result)
	}
	_ = w.Flush()
}

func formatEvaluation(out io.Writer, ev *report.Evaluation) {
	heading(out, "Train/test split")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Features:\t%s\n", strings.Join(ev.Features, ", "))
	_, _ = fmt.Fprintf(w, "Stratified:\t%t\n", ev.Stratified)
	_, _ = fmt.Fprintf(w, "Train:\t%d (%d high rated)\n", ev.TrainSize, ev.TrainPositive)
	_, _ = fmt.Fprintf(w, "Test:\t%d (%d high rated)\n", ev.TestSize, ev.TestPositive)
	_ = w.Flush()

	for _, m := range ev.Models {
		heading(out, m.Name)
		_, _ = fmt.Fprintf(out, "%s\n\n", m.Pipeline)

		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		_, _ = fmt.Fprintln(w, "\tPRECISION\tRECALL\tF1-SCORE\tSUPPORT\t")
		for _, c := range m.Report.Classes {
			_, _ = fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%d\t\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
		}
		_, _ = fmt.Fprintf(w, "accuracy\t\t\t%.2f\t%d\t\n", m.Report.Accuracy, m.Report.Support)
		for _, s := range []model.ClassScores{m.Report.MacroAvg, m.Report.WeightedAvg} {
			_, _ = fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%d\t\n", s.Label, s.Precision, s.Recall, s.F1, s.Support)
		}
		_ = w.Flush()

		cm := m.Confusion
		_, _ = fmt.Fprintln(out, "\nConfusion matrix [[TN FP] [FN TP]]:")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "\tPRED 0\tPRED 1")
		_, _ = fmt.Fprintf(w, "TRUE 0\t%d\t%d\n", cm.TN(), cm.FP())
		_, _ = fmt.Fprintf(w, "TRUE 1\t%d\t%d\n", cm.FN(), cm.TP())
		_ = w.Flush()
	}

	heading(out, "Model comparison")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MODEL\tACCURACY\tPRECISION\tRECALL\tF1")
	for _, m := range ev.Models {
		_, _ = fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", m.Name, m.Accuracy, m.Precision, m.Recall, m.F1)
	}
	_ = w.Flush()
}
