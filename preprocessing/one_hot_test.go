package preprocessing

import (
	"reflect"
	"testing"

	"github.com/lynxkite/lynxkite/move/moveerrors"
)

func TestOneHotEncodeDisease(t *testing.T) {
	values := [][]string{{"A", "B"}, {"A", "A"}, {"B", "B"}}
	oneHot, mapping, err := OneHotEncode(values, nil)
	if err != nil {
		t.Fatalf("OneHotEncode failed: %v", err)
	}
	if oneHot.NumSamples != 3 || oneHot.NumFeatures != 2 || oneHot.NumClasses != 2 {
		t.Errorf("Shape is (%v, %v, %v) instead of (3, 2, 2)",
			oneHot.NumSamples, oneHot.NumFeatures, oneHot.NumClasses)
	}
	expectedMapping := Mapping{"A": 0, "B": 1}
	if !reflect.DeepEqual(mapping, expectedMapping) {
		t.Errorf("Mapping is %v instead of %v", mapping, expectedMapping)
	}
	expected := []float64{
		1, 0, 0, 1,
		1, 0, 1, 0,
		0, 1, 0, 1,
	}
	if !reflect.DeepEqual(oneHot.Values, expected) {
		t.Errorf("OneHotEncode returned %v instead of %v", oneHot.Values, expected)
	}
}

func TestOneHotEncodeMissing(t *testing.T) {
	values := [][]string{{"x", "y"}, {"", "z"}, {"y", "x"}}
	defined := [][]bool{{true, true}, {false, true}, {true, true}}
	oneHot, mapping, err := OneHotEncode(values, defined)
	if err != nil {
		t.Fatalf("OneHotEncode failed: %v", err)
	}
	if len(mapping) != 3 {
		t.Errorf("Missing label leaked into the mapping: %v", mapping)
	}
	for i := 0; i < oneHot.NumSamples; i++ {
		for j := 0; j < oneHot.NumFeatures; j++ {
			sum := 0.0
			for _, v := range oneHot.Slot(i, j) {
				sum += v
			}
			want := 1.0
			if !defined[i][j] {
				want = 0
			}
			if sum != want {
				t.Errorf("Cell (%v, %v) sums to %v instead of %v", i, j, sum, want)
			}
			if oneHot.IsDefined(i, j) != defined[i][j] {
				t.Errorf("Cell (%v, %v) defined flag is %v", i, j, oneHot.IsDefined(i, j))
			}
		}
	}
}

func TestOneHotEncodeIsDeterministic(t *testing.T) {
	values := [][]string{{"c", "a"}, {"b", "c"}}
	_, first, _ := OneHotEncode(values, nil)
	for i := 0; i < 10; i++ {
		_, m, _ := OneHotEncode(values, nil)
		if !reflect.DeepEqual(first, m) {
			t.Fatalf("Mapping changed between runs: %v vs %v", first, m)
		}
	}
	if !reflect.DeepEqual(first.Labels(), []string{"a", "b", "c"}) {
		t.Errorf("Labels are %v", first.Labels())
	}
}

func TestOneHotEncodeWithMapping(t *testing.T) {
	mapping := Mapping{"A": 0, "B": 1, "C": 2}
	oneHot, err := OneHotEncodeWithMapping([][]string{{"C"}, {"A"}}, nil, mapping)
	if err != nil {
		t.Fatalf("OneHotEncodeWithMapping failed: %v", err)
	}
	expected := []float64{0, 0, 1, 1, 0, 0}
	if !reflect.DeepEqual(oneHot.Values, expected) {
		t.Errorf("OneHotEncodeWithMapping returned %v instead of %v", oneHot.Values, expected)
	}
	_, err = OneHotEncodeWithMapping([][]string{{"D"}}, nil, mapping)
	if !moveerrors.IsInvalidInput(err) {
		t.Errorf("Unknown label gave %v, expected an invalid input error", err)
	}
}

func TestOneHotEncodeRagged(t *testing.T) {
	_, _, err := OneHotEncode([][]string{{"a", "b"}, {"a"}}, nil)
	if !moveerrors.IsShapeMismatch(err) {
		t.Errorf("Ragged rows gave %v, expected a shape mismatch", err)
	}
}

func TestFlatten(t *testing.T) {
	oneHot, _, _ := OneHotEncode([][]string{{"A", "B"}, {"B", "A"}}, nil)
	flat := oneHot.Flatten()
	rows, cols := flat.Dims()
	if rows != 2 || cols != 4 {
		t.Fatalf("Flattened shape is (%v, %v)", rows, cols)
	}
	if flat.At(1, 1) != 1 || flat.At(1, 2) != 1 || flat.At(1, 0) != 0 {
		t.Errorf("Flattened row 1 is %v", flat.RawRowView(1))
	}
	oneHot.Values[0] = 7
	if flat.At(0, 0) == 7 {
		t.Errorf("Flatten aliases the block")
	}
}
