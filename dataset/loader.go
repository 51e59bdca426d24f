// Batch iteration over the unified tensors.

package dataset

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Batch holds the rows Indices of the unified tensors.
type Batch struct {
	Indices     []int
	Categorical *mat.Dense
	Continuous  *mat.Dense
	Defined     []bool
}

// Loader iterates over a pair of unified tensors in batches. Without shuffling, batches are
// contiguous row ranges that share memory with the tensors.
type Loader struct {
	categorical *mat.Dense
	continuous  *mat.Dense
	defined     []bool
	numSamples  int
	batchSize   int
	shuffle     bool
	rng         *rand.Rand
	order       []int
	pos         int
}

// NewLoader creates a loader. Either tensor may be nil. A batchSize below 1 means one batch
// with every sample.
func NewLoader(categorical, continuous *mat.Dense, defined []bool, batchSize int, shuffle bool, seed int64) *Loader {
	l := &Loader{
		categorical: categorical,
		continuous:  continuous,
		defined:     defined,
		numSamples:  numRows(categorical, continuous),
		batchSize:   batchSize,
		shuffle:     shuffle,
		rng:         rand.New(rand.NewSource(seed)),
	}
	if l.batchSize < 1 || l.batchSize > l.numSamples {
		l.batchSize = l.numSamples
	}
	l.Reset()
	return l
}

func numRows(ms ...*mat.Dense) int {
	for _, m := range ms {
		if m != nil {
			r, _ := m.Dims()
			return r
		}
	}
	return 0
}

// Reset starts a new pass. A shuffling loader draws a new order.
func (l *Loader) Reset() {
	l.pos = 0
	l.order = make([]int, l.numSamples)
	for i := range l.order {
		l.order[i] = i
	}
	if l.shuffle {
		l.rng.Shuffle(len(l.order), func(i, j int) {
			l.order[i], l.order[j] = l.order[j], l.order[i]
		})
	}
}

// Len is the number of batches in a pass.
func (l *Loader) Len() int {
	if l.batchSize == 0 {
		return 0
	}
	return (l.numSamples + l.batchSize - 1) / l.batchSize
}

func (l *Loader) NumSamples() int {
	return l.numSamples
}

func (l *Loader) BatchSize() int {
	return l.batchSize
}

func (l *Loader) Categorical() *mat.Dense {
	return l.categorical
}

func (l *Loader) Continuous() *mat.Dense {
	return l.continuous
}

func (l *Loader) Defined() []bool {
	return l.defined
}

// Next returns the next batch, or false at the end of the pass.
func (l *Loader) Next() (Batch, bool) {
	if l.pos >= l.numSamples {
		return Batch{}, false
	}
	end := l.pos + l.batchSize
	if end > l.numSamples {
		end = l.numSamples
	}
	indices := l.order[l.pos:end]
	l.pos = end
	b := Batch{Indices: append([]int(nil), indices...)}
	if l.shuffle {
		b.Categorical = gatherRows(l.categorical, indices)
		b.Continuous = gatherRows(l.continuous, indices)
	} else {
		b.Categorical = sliceRows(l.categorical, indices[0], end)
		b.Continuous = sliceRows(l.continuous, indices[0], end)
	}
	b.Defined = l.gatherDefined(indices)
	return b, true
}

func sliceRows(m *mat.Dense, from, to int) *mat.Dense {
	if m == nil {
		return nil
	}
	_, c := m.Dims()
	return m.Slice(from, to, 0, c).(*mat.Dense)
}

func gatherRows(m *mat.Dense, indices []int) *mat.Dense {
	if m == nil {
		return nil
	}
	_, c := m.Dims()
	out := mat.NewDense(len(indices), c, nil)
	for i, idx := range indices {
		out.SetRow(i, m.RawRowView(idx))
	}
	return out
}

func (l *Loader) gatherDefined(indices []int) []bool {
	if l.numSamples == 0 || len(l.defined) == 0 {
		return nil
	}
	perRow := len(l.defined) / l.numSamples
	out := make([]bool, 0, len(indices)*perRow)
	for _, idx := range indices {
		out = append(out, l.defined[idx*perRow:(idx+1)*perRow]...)
	}
	return out
}
