// Package perturbation generates counterfactual versions of the unified categorical tensor.
//
// For a target categorical dataset with F features, the i-th perturbation is a copy of the
// tensor where feature i of every sample is overwritten with the same one-hot target value.
// Perturbations are always made on clones: the assembled tensors are never written.
package perturbation

import (
	"context"
	"log"

	"github.com/juju/errors"
	"github.com/lynxkite/lynxkite/move/dataset"
	"github.com/lynxkite/lynxkite/move/moveerrors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// TargetValue returns the one-hot vector of label under mapping.
func TargetValue(mapping map[string]int, label string) ([]float64, error) {
	id, exists := mapping[label]
	if !exists {
		return nil, errors.NotFoundf("label %q", label)
	}
	value := make([]float64, len(mapping))
	value[id] = 1
	return value, nil
}

type target struct {
	shape        dataset.Shape
	start        int
	featureStart int
	value        []float64
}

func resolve(a *dataset.Assembled, name string, value []float64) (*target, error) {
	shape, err := a.CategoricalShapes.Lookup(name)
	if err != nil {
		return nil, err
	}
	if len(value) != shape.Classes {
		return nil, moveerrors.ShapeMismatch("classes of target value for "+name, shape.Classes, len(value))
	}
	start, _, err := a.CategoricalShapes.Offsets(name)
	if err != nil {
		return nil, err
	}
	featureStart, err := a.CategoricalShapes.FeatureOffset(name)
	if err != nil {
		return nil, err
	}
	return &target{shape: shape, start: start, featureStart: featureStart, value: value}, nil
}

// perturbFeature clones the tensors and overwrites one feature of every sample.
func (t *target) perturbFeature(a *dataset.Assembled, feature int) (*mat.Dense, []bool) {
	var cat *mat.Dense
	if a.Categorical != nil {
		cat = mat.DenseCopyOf(a.Categorical)
		from := t.start + feature*t.shape.Classes
		for i := 0; i < a.NumSamples; i++ {
			copy(cat.RawRowView(i)[from:from+t.shape.Classes], t.value)
		}
	}
	defined := append([]bool(nil), a.Defined...)
	numFeatures := a.CategoricalShapes.NumFeatures()
	for i := 0; i < a.NumSamples; i++ {
		defined[i*numFeatures+t.featureStart+feature] = true
	}
	return cat, defined
}

func (t *target) loader(a *dataset.Assembled, feature int) *dataset.Loader {
	cat, defined := t.perturbFeature(a, feature)
	return dataset.NewLoader(cat, a.Continuous, defined, a.NumSamples, false, 0)
}

// Perturb returns one single-batch loader per feature of the target dataset, in feature order,
// followed by the loader of the unmodified tensors.
func Perturb(a *dataset.Assembled, targetName string, value []float64) ([]*dataset.Loader, error) {
	t, err := resolve(a, targetName, value)
	if err != nil {
		return nil, errors.Annotatef(err, "cannot perturb %v", targetName)
	}
	loaders := make([]*dataset.Loader, 0, t.shape.Features+1)
	for i := 0; i < t.shape.Features; i++ {
		loaders = append(loaders, t.loader(a, i))
	}
	loaders = append(loaders, a.FullBatchLoader())
	log.Printf("Created %d perturbations of %v", t.shape.Features, targetName)
	return loaders, nil
}

// Each calls fn for every perturbation of the target dataset using at most workers goroutines.
// Only the clones in flight are kept in memory. The baseline is visited last, with
// index = number of features, after all perturbations have finished.
func Each(ctx context.Context, a *dataset.Assembled, targetName string, value []float64, workers int,
	fn func(ctx context.Context, feature int, l *dataset.Loader) error) error {
	t, err := resolve(a, targetName, value)
	if err != nil {
		return errors.Annotatef(err, "cannot perturb %v", targetName)
	}
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < t.shape.Features; i++ {
		feature := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, feature, t.loader(a, feature))
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(fn(ctx, t.shape.Features, a.FullBatchLoader()))
}
