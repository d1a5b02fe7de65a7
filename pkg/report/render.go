package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
)

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Render writes the per-fold scores of rec as an ASCII table followed by the
// aggregate.
func Render(w io.Writer, rec *Record) error {
	fmt.Fprintf(w, "%s  %s  %s  %s\n", rec.ID, rec.Strategy, rec.Estimator, rec.Metric)

	table := tablewriter.NewWriter(w)
	table.Header("Fold", "Train", "Test", "Score")
	for i, score := range rec.Scores {
		row := []string{strconv.Itoa(i), "", "", formatScore(score)}
		if i < len(rec.TrainSizes) {
			row[1] = strconv.Itoa(rec.TrainSizes[i])
		}
		if i < len(rec.TestSizes) {
			row[2] = strconv.Itoa(rec.TestSizes[i])
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	table.Footer("", "", "Mean ± Std", formatScore(rec.Mean)+" ± "+formatScore(rec.Std))
	if err := table.Render(); err != nil {
		return err
	}
	if rec.Sampled {
		fmt.Fprintf(w, "%d folds sampled from a larger combination space\n", len(rec.Scores))
	}
	return nil
}

// RenderList writes one summary row per record.
func RenderList(w io.Writer, recs []*Record) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Created", "Strategy", "Estimator", "Metric", "Folds", "Mean", "Std")
	for _, rec := range recs {
		err := table.Append([]string{
			rec.ID,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.Strategy,
			rec.Estimator,
			rec.Metric,
			strconv.Itoa(len(rec.Scores)),
			formatScore(rec.Mean),
			formatScore(rec.Std),
		})
		if err != nil {
			return err
		}
	}
	return table.Render()
}

// Plot saves a bar chart of the fold scores with the mean drawn as a line.
// The image format follows the extension of path (png, svg, pdf, ...).
func Plot(rec *Record, path string) error {
	if len(rec.Scores) == 0 {
		return scierrors.NewEmptyResultError("report.Plot")
	}
	p := plot.New()
	p.Title.Text = rec.Strategy + " " + rec.Metric
	p.X.Label.Text = "fold"
	p.Y.Label.Text = "score"

	bars, err := plotter.NewBarChart(plotter.Values(rec.Scores), vg.Points(8))
	if err != nil {
		return scierrors.Wrap(err, "build bar chart")
	}
	p.Add(bars)

	mean := plotter.NewFunction(func(float64) float64 { return rec.Mean })
	mean.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(mean)
	p.Legend.Add("mean", mean)

	width := vg.Length(len(rec.Scores))*vg.Points(10) + 2*vg.Inch
	if width > 20*vg.Inch {
		width = 20 * vg.Inch
	}
	if err := p.Save(width, 4*vg.Inch, path); err != nil {
		return scierrors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
