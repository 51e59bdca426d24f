// Measures how the model output moves under each perturbation.

package perturbation

import (
	"context"

	"github.com/juju/errors"
	"github.com/lynxkite/lynxkite/move/dataset"
	"github.com/lynxkite/lynxkite/move/moveerrors"
	"gonum.org/v1/gonum/mat"
)

// Model is a trained model that reconstructs the continuous part of a batch.
// The returned matrix has one row per sample of the batch, in batch order.
type Model interface {
	Reconstruct(ctx context.Context, b dataset.Batch) (*mat.Dense, error)
}

// Effects runs the model on every loader returned by Perturb and compares each perturbation
// with the baseline, which is the last loader. Row i of the result is the per-column mean,
// over samples, of reconstruction(perturbation i) - reconstruction(baseline).
func Effects(ctx context.Context, model Model, loaders []*dataset.Loader) (*mat.Dense, error) {
	if len(loaders) < 2 {
		return nil, errors.NotValidf("%d loaders, need at least one perturbation and a baseline", len(loaders))
	}
	baseline, err := reconstruct(ctx, model, loaders[len(loaders)-1])
	if err != nil {
		return nil, errors.Annotate(err, "baseline")
	}
	rows, cols := baseline.Dims()
	effects := mat.NewDense(len(loaders)-1, cols, nil)
	diff := mat.NewDense(rows, cols, nil)
	for i, l := range loaders[:len(loaders)-1] {
		perturbed, err := reconstruct(ctx, model, l)
		if err != nil {
			return nil, errors.Annotatef(err, "perturbation %d", i)
		}
		if r, c := perturbed.Dims(); r != rows || c != cols {
			return nil, moveerrors.ShapeMismatch("reconstructed values", rows*cols, r*c)
		}
		diff.Sub(perturbed, baseline)
		row := effects.RawRowView(i)
		for j := 0; j < cols; j++ {
			row[j] = mat.Sum(diff.ColView(j)) / float64(rows)
		}
	}
	return effects, nil
}

// reconstruct feeds every batch of l to the model and stacks the outputs by sample index.
func reconstruct(ctx context.Context, model Model, l *dataset.Loader) (*mat.Dense, error) {
	l.Reset()
	var out *mat.Dense
	for b, ok := l.Next(); ok; b, ok = l.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := model.Reconstruct(ctx, b)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if rec == nil {
			return nil, errors.NotValidf("reconstruction without values")
		}
		r, c := rec.Dims()
		if c == 0 {
			return nil, errors.NotValidf("reconstruction without columns")
		}
		if r != len(b.Indices) {
			return nil, moveerrors.ShapeMismatch("reconstructed rows", len(b.Indices), r)
		}
		if out == nil {
			out = mat.NewDense(l.NumSamples(), c, nil)
		}
		for i, idx := range b.Indices {
			out.SetRow(idx, rec.RawRowView(i))
		}
	}
	if out == nil {
		return nil, errors.NotValidf("empty loader")
	}
	return out, nil
}
