// Package visualization plots the results of perturbation runs.
package visualization

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/lynxkite/lynxkite/move/moveerrors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// FeatureEffects draws a bar chart of the effect of every perturbed feature on one continuous
// column. effects has one row per perturbed feature, as returned by perturbation.Effects.
// The image format follows the extension of path.
func FeatureEffects(effects *mat.Dense, features []string, column int, path string) error {
	if effects == nil {
		return moveerrors.InvalidInput(column, "no effects to plot")
	}
	rows, cols := effects.Dims()
	if len(features) != rows {
		return moveerrors.ShapeMismatch("feature names", rows, len(features))
	}
	if column < 0 || column >= cols {
		return moveerrors.InvalidInput(column, "column out of range [0, %d)", cols)
	}
	values := make(plotter.Values, rows)
	mat.Col(values, column, effects)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Effect on column %d", column)
	p.Y.Label.Text = "Mean change"
	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return errors.Annotatef(err, "cannot plot effects")
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars, plotter.NewGrid())
	p.NominalX(features...)
	p.X.Tick.Label.Rotation = 1.2
	p.X.Tick.Label.XAlign = -1
	width := vg.Length(rows)*16 + 2*vg.Inch
	if err := p.Save(width, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("Failed to save %v: %v", path, err)
	}
	return nil
}
