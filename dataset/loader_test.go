package dataset

import (
	"reflect"
	"sort"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func exampleTensors() (*mat.Dense, *mat.Dense, []bool) {
	cat := mat.NewDense(5, 2, []float64{
		1, 0,
		0, 1,
		1, 0,
		0, 0,
		0, 1,
	})
	con := mat.NewDense(5, 1, []float64{0, 1, 2, 3, 4})
	defined := []bool{true, true, true, false, true}
	return cat, con, defined
}

func TestLoaderFullBatch(t *testing.T) {
	cat, con, defined := exampleTensors()
	l := NewLoader(cat, con, defined, 0, false, 0)
	if l.Len() != 1 {
		t.Errorf("Loader has %v batches instead of 1", l.Len())
	}
	b, ok := l.Next()
	if !ok {
		t.Fatalf("No batch")
	}
	if !reflect.DeepEqual(b.Indices, []int{0, 1, 2, 3, 4}) {
		t.Errorf("Indices are %v", b.Indices)
	}
	if !mat.Equal(b.Categorical, cat) || !mat.Equal(b.Continuous, con) {
		t.Errorf("Full batch differs from the tensors")
	}
	if !reflect.DeepEqual(b.Defined, defined) {
		t.Errorf("Defined is %v instead of %v", b.Defined, defined)
	}
	if _, ok := l.Next(); ok {
		t.Errorf("Loader returned a second batch")
	}
}

func TestLoaderBatches(t *testing.T) {
	cat, con, defined := exampleTensors()
	l := NewLoader(cat, con, defined, 2, false, 0)
	if l.Len() != 3 {
		t.Errorf("Loader has %v batches instead of 3", l.Len())
	}
	var sizes []int
	for b, ok := l.Next(); ok; b, ok = l.Next() {
		r, _ := b.Continuous.Dims()
		sizes = append(sizes, r)
		for i, idx := range b.Indices {
			if b.Continuous.At(i, 0) != float64(idx) {
				t.Errorf("Row %v of batch holds sample %v instead of %v", i, b.Continuous.At(i, 0), idx)
			}
		}
	}
	if !reflect.DeepEqual(sizes, []int{2, 2, 1}) {
		t.Errorf("Batch sizes are %v", sizes)
	}
}

func TestLoaderShuffle(t *testing.T) {
	cat, con, defined := exampleTensors()
	l := NewLoader(cat, con, defined, 2, true, 42)
	var seen []int
	for b, ok := l.Next(); ok; b, ok = l.Next() {
		for i, idx := range b.Indices {
			if b.Continuous.At(i, 0) != float64(idx) {
				t.Errorf("Shuffled row %v holds sample %v instead of %v", i, b.Continuous.At(i, 0), idx)
			}
			if !reflect.DeepEqual(b.Categorical.RawRowView(i), cat.RawRowView(idx)) {
				t.Errorf("Shuffled categorical row %v is not sample %v", i, idx)
			}
			if b.Defined[i] != defined[idx] {
				t.Errorf("Shuffled defined flag %v is not sample %v", i, idx)
			}
		}
		seen = append(seen, b.Indices...)
	}
	sort.Ints(seen)
	if !reflect.DeepEqual(seen, []int{0, 1, 2, 3, 4}) {
		t.Errorf("Shuffled pass visited %v", seen)
	}
	again := NewLoader(cat, con, defined, 2, true, 42)
	l.Reset()
	first, _ := NewLoader(cat, con, defined, 2, true, 42).Next()
	second, _ := again.Next()
	if !reflect.DeepEqual(first.Indices, second.Indices) {
		t.Errorf("Same seed gave %v and %v", first.Indices, second.Indices)
	}
}
