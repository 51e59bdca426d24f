// One-hot encoding of categorical datasets.

package preprocessing

import (
	"sort"

	"github.com/lynxkite/lynxkite/move/moveerrors"
	"gonum.org/v1/gonum/mat"
)

// Mapping assigns each category label its class index.
type Mapping map[string]int

// NewMapping indexes the distinct labels in sorted order, so the same data always yields the
// same mapping.
func NewMapping(labels []string) Mapping {
	unique := make(map[string]bool)
	for _, l := range labels {
		unique[l] = true
	}
	sorted := make([]string, 0, len(unique))
	for l := range unique {
		sorted = append(sorted, l)
	}
	sort.Strings(sorted)
	m := make(Mapping, len(sorted))
	for i, l := range sorted {
		m[l] = i
	}
	return m
}

// Labels returns the labels ordered by class index.
func (m Mapping) Labels() []string {
	labels := make([]string, len(m))
	for l, i := range m {
		labels[i] = l
	}
	return labels
}

// OneHot is a (samples, features, classes) block stored row-major.
// A cell with Defined false has all of its class slots set to zero.
type OneHot struct {
	Values      []float64
	Defined     []bool
	NumSamples  int
	NumFeatures int
	NumClasses  int
}

func NewOneHot(numSamples, numFeatures, numClasses int) *OneHot {
	return &OneHot{
		Values:      make([]float64, numSamples*numFeatures*numClasses),
		Defined:     make([]bool, numSamples*numFeatures),
		NumSamples:  numSamples,
		NumFeatures: numFeatures,
		NumClasses:  numClasses,
	}
}

// Width is the number of columns the block occupies once flattened.
func (o *OneHot) Width() int {
	return o.NumFeatures * o.NumClasses
}

// Slot returns the class slots of one cell. The slice aliases o.Values.
func (o *OneHot) Slot(sample, feature int) []float64 {
	start := (sample*o.NumFeatures + feature) * o.NumClasses
	return o.Values[start : start+o.NumClasses]
}

func (o *OneHot) IsDefined(sample, feature int) bool {
	return o.Defined[sample*o.NumFeatures+feature]
}

// Flatten copies the block into a (samples, features*classes) matrix.
// It returns nil for an empty block, which gonum cannot represent.
func (o *OneHot) Flatten() *mat.Dense {
	if o.NumSamples == 0 || o.Width() == 0 {
		return nil
	}
	data := make([]float64, len(o.Values))
	copy(data, o.Values)
	return mat.NewDense(o.NumSamples, o.Width(), data)
}

// OneHotEncode encodes a (samples, features) matrix of labels. All features of a dataset share
// one mapping. A nil defined matrix means nothing is missing.
func OneHotEncode(values [][]string, defined [][]bool) (*OneHot, Mapping, error) {
	numFeatures, err := checkRectangular(values, defined)
	if err != nil {
		return nil, nil, err
	}
	var labels []string
	for i, row := range values {
		for j, v := range row {
			if isDefined(defined, i, j) {
				labels = append(labels, v)
			}
		}
	}
	mapping := NewMapping(labels)
	oneHot, err := encodeWith(values, defined, numFeatures, mapping)
	if err != nil {
		return nil, nil, err
	}
	return oneHot, mapping, nil
}

// OneHotEncodeWithMapping encodes against an existing mapping, so class indices stay
// comparable with an earlier run. Labels unknown to the mapping are invalid input.
func OneHotEncodeWithMapping(values [][]string, defined [][]bool, mapping Mapping) (*OneHot, error) {
	numFeatures, err := checkRectangular(values, defined)
	if err != nil {
		return nil, err
	}
	return encodeWith(values, defined, numFeatures, mapping)
}

func encodeWith(values [][]string, defined [][]bool, numFeatures int, mapping Mapping) (*OneHot, error) {
	oneHot := NewOneHot(len(values), numFeatures, len(mapping))
	for i, row := range values {
		for j, v := range row {
			if !isDefined(defined, i, j) {
				continue
			}
			id, exists := mapping[v]
			if !exists {
				return nil, moveerrors.InvalidInput(j, "label %q of sample %d is not in the mapping", v, i)
			}
			oneHot.Slot(i, j)[id] = 1
			oneHot.Defined[i*numFeatures+j] = true
		}
	}
	return oneHot, nil
}

func checkRectangular(values [][]string, defined [][]bool) (int, error) {
	if len(values) == 0 {
		return 0, nil
	}
	if defined != nil && len(defined) != len(values) {
		return 0, moveerrors.ShapeMismatch("rows of defined flags", len(values), len(defined))
	}
	numFeatures := len(values[0])
	for i, row := range values {
		if len(row) != numFeatures {
			return 0, moveerrors.ShapeMismatch("features in row", numFeatures, len(row))
		}
		if defined != nil && len(defined[i]) != numFeatures {
			return 0, moveerrors.ShapeMismatch("defined flags in row", numFeatures, len(defined[i]))
		}
	}
	return numFeatures, nil
}

func isDefined(defined [][]bool, i, j int) bool {
	return defined == nil || defined[i][j]
}
