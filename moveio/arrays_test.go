package moveio

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/lynxkite/lynxkite/move/moveerrors"
	"github.com/lynxkite/lynxkite/move/preprocessing"
	"gonum.org/v1/gonum/mat"
)

func TestArrayRoundTrip(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "a.arrow")
	a := &Array{Shape: []int{2, 3}, Values: []float64{1, 2, 3, 4, 5, 6}}
	if err := SaveArray(path, a); err != nil {
		t.Fatalf("SaveArray failed: %v", err)
	}
	if _, err := os.Stat(path + inprogressSuffix); !os.IsNotExist(err) {
		t.Errorf("In-progress file was left behind")
	}
	read, err := LoadArray(path)
	if err != nil {
		t.Fatalf("LoadArray failed: %v", err)
	}
	if !reflect.DeepEqual(read, a) {
		t.Errorf("LoadArray returned %v instead of %v", read, a)
	}
}

func TestOneHotArrayKeepsMissingCells(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "drugs.arrow")
	oneHot, _, err := preprocessing.OneHotEncode(
		[][]string{{"A", "B"}, {"", "A"}},
		[][]bool{{true, true}, {false, true}})
	if err != nil {
		t.Fatalf("OneHotEncode failed: %v", err)
	}
	if err := SaveArray(path, OneHotArray(oneHot)); err != nil {
		t.Fatalf("SaveArray failed: %v", err)
	}
	a, err := LoadArray(path)
	if err != nil {
		t.Fatalf("LoadArray failed: %v", err)
	}
	read, err := a.OneHot()
	if err != nil {
		t.Fatalf("OneHot failed: %v", err)
	}
	if !reflect.DeepEqual(read, oneHot) {
		t.Errorf("Read back %v instead of %v", read, oneHot)
	}
}

func TestDenseArray(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	read, err := DenseArray(m, 2).Dense()
	if err != nil {
		t.Fatalf("Dense failed: %v", err)
	}
	if !mat.Equal(read, m) {
		t.Errorf("Dense returned %v instead of %v", read, m)
	}
	empty := DenseArray(nil, 5)
	if !reflect.DeepEqual(empty.Shape, []int{5, 0}) {
		t.Errorf("Empty matrix has shape %v", empty.Shape)
	}
	if read, _ := empty.Dense(); read != nil {
		t.Errorf("Empty array gave %v instead of nil", read)
	}
}

func TestSaveArrayShapeMismatch(t *testing.T) {
	err := SaveArray("unused.arrow", &Array{Shape: []int{2, 2}, Values: []float64{1}})
	if !moveerrors.IsShapeMismatch(err) {
		t.Errorf("SaveArray returned %v instead of a shape mismatch", err)
	}
	if _, err := (&Array{Shape: []int{4}}).Dense(); !moveerrors.IsShapeMismatch(err) {
		t.Errorf("Dense accepted a one dimensional array")
	}
}
