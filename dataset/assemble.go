// Concatenates encoded datasets into the unified categorical and continuous tensors.

package dataset

import (
	"github.com/juju/errors"
	"github.com/lynxkite/lynxkite/move/moveerrors"
	"gonum.org/v1/gonum/mat"
)

// ShapeMap lists the datasets of a unified tensor in column order.
type ShapeMap []Shape

// Width is the total number of columns.
func (m ShapeMap) Width() int {
	w := 0
	for _, s := range m {
		w += s.Width()
	}
	return w
}

// NumFeatures is the total number of features, regardless of their class count.
func (m ShapeMap) NumFeatures() int {
	n := 0
	for _, s := range m {
		n += s.Features
	}
	return n
}

func (m ShapeMap) Lookup(name string) (Shape, error) {
	for _, s := range m {
		if s.Name == name {
			return s, nil
		}
	}
	return Shape{}, moveerrors.UnknownDataset(name)
}

// Offsets returns the half-open column range [start, end) of the named dataset.
func (m ShapeMap) Offsets(name string) (int, int, error) {
	start := 0
	for _, s := range m {
		if s.Name == name {
			return start, start + s.Width(), nil
		}
		start += s.Width()
	}
	return 0, 0, moveerrors.UnknownDataset(name)
}

// FeatureOffset is the index of the first feature of the named dataset among all features.
func (m ShapeMap) FeatureOffset(name string) (int, error) {
	offset := 0
	for _, s := range m {
		if s.Name == name {
			return offset, nil
		}
		offset += s.Features
	}
	return 0, moveerrors.UnknownDataset(name)
}

func (m ShapeMap) Names() []string {
	names := make([]string, len(m))
	for i, s := range m {
		names[i] = s.Name
	}
	return names
}

// Assembled holds the unified tensors. Either tensor is nil when no dataset contributes
// columns to it. Defined is the (samples, categorical features) missingness mask, row-major.
type Assembled struct {
	NumSamples        int
	Categorical       *mat.Dense
	Continuous        *mat.Dense
	Defined           []bool
	CategoricalShapes ShapeMap
	ContinuousShapes  ShapeMap
	Mappings          map[string]map[string]int
}

// Assemble concatenates the datasets in the given order. All datasets must have the same
// number of samples.
func Assemble(datasets []Dataset) (*Assembled, error) {
	a := &Assembled{
		NumSamples: -1,
		Mappings:   make(map[string]map[string]int),
	}
	var categorical []*Categorical
	var continuous []*Continuous
	seen := make(map[string]bool, len(datasets))
	for _, d := range datasets {
		if seen[d.Name()] {
			return nil, errors.NotValidf("dataset name %q used twice", d.Name())
		}
		seen[d.Name()] = true
		if a.NumSamples == -1 {
			a.NumSamples = d.NumSamples()
		} else if d.NumSamples() != a.NumSamples {
			return nil, moveerrors.ShapeMismatch("samples in "+d.Name(), a.NumSamples, d.NumSamples())
		}
		switch d := d.(type) {
		case *Categorical:
			categorical = append(categorical, d)
			a.CategoricalShapes = append(a.CategoricalShapes, Shape{
				Name:     d.Name(),
				Features: d.OneHot.NumFeatures,
				Classes:  d.OneHot.NumClasses,
			})
			a.Mappings[d.Name()] = d.Mapping
		case *Continuous:
			continuous = append(continuous, d)
			a.ContinuousShapes = append(a.ContinuousShapes, Shape{
				Name:     d.Name(),
				Features: d.NumFeatures(),
				Classes:  1,
			})
		}
	}
	if a.NumSamples == -1 {
		a.NumSamples = 0
	}
	a.Categorical = a.concatCategorical(categorical)
	a.Continuous = a.concatContinuous(continuous)
	return a, nil
}

func (a *Assembled) concatCategorical(datasets []*Categorical) *mat.Dense {
	numFeatures := a.CategoricalShapes.NumFeatures()
	a.Defined = make([]bool, a.NumSamples*numFeatures)
	width := a.CategoricalShapes.Width()
	if width == 0 || a.NumSamples == 0 {
		return nil
	}
	out := mat.NewDense(a.NumSamples, width, nil)
	start, featureStart := 0, 0
	for _, d := range datasets {
		oh := d.OneHot
		for i := 0; i < a.NumSamples; i++ {
			row := out.RawRowView(i)
			src := oh.Values[i*oh.Width() : (i+1)*oh.Width()]
			copy(row[start:start+oh.Width()], src)
			copy(a.Defined[i*numFeatures+featureStart:], oh.Defined[i*oh.NumFeatures:(i+1)*oh.NumFeatures])
		}
		start += oh.Width()
		featureStart += oh.NumFeatures
	}
	return out
}

func (a *Assembled) concatContinuous(datasets []*Continuous) *mat.Dense {
	width := a.ContinuousShapes.Width()
	if width == 0 || a.NumSamples == 0 {
		return nil
	}
	out := mat.NewDense(a.NumSamples, width, nil)
	start := 0
	for _, d := range datasets {
		w := d.NumFeatures()
		if w == 0 {
			continue
		}
		out.Slice(0, a.NumSamples, start, start+w).(*mat.Dense).Copy(d.Scaled.Values)
		start += w
	}
	return out
}

// CategoricalBlock returns a view of the named dataset's columns in the categorical tensor.
func (a *Assembled) CategoricalBlock(name string) (*mat.Dense, error) {
	start, end, err := a.CategoricalShapes.Offsets(name)
	if err != nil {
		return nil, err
	}
	if start == end || a.Categorical == nil {
		return nil, nil
	}
	return a.Categorical.Slice(0, a.NumSamples, start, end).(*mat.Dense), nil
}

// ContinuousBlock returns a view of the named dataset's columns in the continuous tensor.
func (a *Assembled) ContinuousBlock(name string) (*mat.Dense, error) {
	start, end, err := a.ContinuousShapes.Offsets(name)
	if err != nil {
		return nil, err
	}
	if start == end || a.Continuous == nil {
		return nil, nil
	}
	return a.Continuous.Slice(0, a.NumSamples, start, end).(*mat.Dense), nil
}

// Split returns the view of one dataset's columns, whichever tensor holds them.
func (a *Assembled) Split(name string) (*mat.Dense, error) {
	if _, err := a.CategoricalShapes.Lookup(name); err == nil {
		return a.CategoricalBlock(name)
	}
	return a.ContinuousBlock(name)
}

// FullBatchLoader wraps the tensors into a loader with a single, unshuffled batch, so that
// rows of any two such loaders correspond to the same samples.
func (a *Assembled) FullBatchLoader() *Loader {
	return NewLoader(a.Categorical, a.Continuous, a.Defined, a.NumSamples, false, 0)
}

// EstimatedMemUsage is the size of the tensors in bytes.
func (a *Assembled) EstimatedMemUsage() int {
	i := len(a.Defined)
	if a.Categorical != nil {
		r, c := a.Categorical.Dims()
		i += r * c * 8
	}
	if a.Continuous != nil {
		r, c := a.Continuous.Dims()
		i += r * c * 8
	}
	return i
}
