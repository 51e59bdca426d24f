// Encoded arrays on disk. Each array is an Arrow file with a single nullable float64 column
// holding the values in row-major order. The shape is kept in the schema metadata, and null
// marks a missing value.

package moveio

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/arrow"
	"github.com/apache/arrow/go/arrow/array"
	"github.com/apache/arrow/go/arrow/ipc"
	"github.com/apache/arrow/go/arrow/memory"
	"github.com/juju/errors"
	"github.com/lynxkite/lynxkite/move/moveerrors"
	"github.com/lynxkite/lynxkite/move/preprocessing"
	"gonum.org/v1/gonum/mat"
)

const inprogressSuffix = ".inprogress"

var arrowAllocator = memory.NewGoAllocator()

// Array is an n-dimensional float64 array. Defined is nil when nothing is missing.
type Array struct {
	Shape   []int
	Values  []float64
	Defined []bool
}

func (a *Array) size() int {
	n := 1
	for _, d := range a.Shape {
		n *= d
	}
	return n
}

func shapeString(shape []int) string {
	s := make([]string, len(shape))
	for i, d := range shape {
		s[i] = strconv.Itoa(d)
	}
	return strings.Join(s, ",")
}

func parseShape(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	shape := make([]int, len(parts))
	for i, p := range parts {
		d, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("Bad shape %q: %v", s, err)
		}
		shape[i] = d
	}
	return shape, nil
}

// SaveArray writes the array to path. The file only appears once it is complete.
func SaveArray(path string, a *Array) error {
	if a.size() != len(a.Values) {
		return moveerrors.ShapeMismatch("values for shape "+shapeString(a.Shape), a.size(), len(a.Values))
	}
	md := arrow.NewMetadata([]string{"shape"}, []string{shapeString(a.Shape)})
	schema := arrow.NewSchema(
		[]arrow.Field{{Name: "value", Type: arrow.PrimitiveTypes.Float64, Nullable: true}}, &md)
	b := array.NewRecordBuilder(arrowAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.Float64Builder).AppendValues(a.Values, a.Defined)
	rec := b.NewRecord()
	defer rec.Release()

	inProgress := path + inprogressSuffix
	f, err := os.Create(inProgress)
	if err != nil {
		return fmt.Errorf("Failed to create file: %v", err)
	}
	w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema), ipc.WithAllocator(arrowAllocator))
	if err != nil {
		f.Close()
		return fmt.Errorf("Failed to create Arrow writer: %v", err)
	}
	if err = w.Write(rec); err != nil {
		f.Close()
		return fmt.Errorf("Failed to write Arrow file: %v", err)
	}
	if err = w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("Failed to write Arrow file: %v", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("Failed to write Arrow file: %v", err)
	}
	return os.Rename(inProgress, path)
}

// LoadArray reads an array written by SaveArray.
func LoadArray(path string) (*Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := ipc.NewFileReader(f, ipc.WithAllocator(arrowAllocator))
	if err != nil {
		return nil, fmt.Errorf("Failed to open %v: %v", path, err)
	}
	defer r.Close()
	a := &Array{}
	md := r.Schema().Metadata()
	for i, k := range md.Keys() {
		if k == "shape" {
			if a.Shape, err = parseShape(md.Values()[i]); err != nil {
				return nil, errors.Annotate(err, path)
			}
		}
	}
	// Empty arrays may come without any record. We never write more than one.
	if r.NumRecords() == 0 {
		if a.size() != 0 {
			return nil, fmt.Errorf("%v has no records for shape %v", path, a.Shape)
		}
		return a, nil
	} else if r.NumRecords() > 1 {
		return nil, fmt.Errorf("%v has %v records, expected 1.", path, r.NumRecords())
	}
	rec, err := r.Record(0)
	if err != nil {
		return nil, fmt.Errorf("Failed to read %v: %v", path, err)
	}
	defer rec.Release()
	col, ok := rec.Column(0).(*array.Float64)
	if !ok {
		return nil, fmt.Errorf("%v holds %v, not float64 values", path, rec.Column(0).DataType())
	}
	a.Values = append([]float64(nil), col.Float64Values()...)
	if col.NullN() > 0 {
		a.Defined = make([]bool, col.Len())
		for i := range a.Defined {
			a.Defined[i] = col.IsValid(i)
		}
	}
	if a.size() != len(a.Values) {
		return nil, moveerrors.ShapeMismatch("values for shape "+shapeString(a.Shape), a.size(), len(a.Values))
	}
	return a, nil
}

// OneHotArray stores a categorical block. Every class slot of a missing cell is null.
func OneHotArray(o *preprocessing.OneHot) *Array {
	a := &Array{
		Shape:  []int{o.NumSamples, o.NumFeatures, o.NumClasses},
		Values: o.Values,
	}
	for _, d := range o.Defined {
		if !d {
			a.Defined = make([]bool, len(o.Values))
			for i := range a.Defined {
				a.Defined[i] = o.Defined[i/o.NumClasses]
			}
			break
		}
	}
	return a
}

// OneHot converts a three dimensional array back to a categorical block.
// Without classes there is nothing to carry the missing flags, so every cell is missing.
func (a *Array) OneHot() (*preprocessing.OneHot, error) {
	if len(a.Shape) != 3 {
		return nil, moveerrors.ShapeMismatch("dimensions of a one-hot array", 3, len(a.Shape))
	}
	o := preprocessing.NewOneHot(a.Shape[0], a.Shape[1], a.Shape[2])
	copy(o.Values, a.Values)
	for i := range o.Defined {
		o.Defined[i] = o.NumClasses > 0 && (a.Defined == nil || a.Defined[i*o.NumClasses])
	}
	return o, nil
}

// DenseArray stores a matrix. A nil matrix is stored as rows x 0.
func DenseArray(m *mat.Dense, rows int) *Array {
	if m == nil {
		return &Array{Shape: []int{rows, 0}}
	}
	r, c := m.Dims()
	values := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		values = append(values, m.RawRowView(i)...)
	}
	return &Array{Shape: []int{r, c}, Values: values}
}

// Dense converts a two dimensional array back to a matrix. Empty arrays give nil.
func (a *Array) Dense() (*mat.Dense, error) {
	if len(a.Shape) != 2 {
		return nil, moveerrors.ShapeMismatch("dimensions of a matrix array", 2, len(a.Shape))
	}
	if a.Shape[0] == 0 || a.Shape[1] == 0 {
		return nil, nil
	}
	return mat.NewDense(a.Shape[0], a.Shape[1], append([]float64(nil), a.Values...)), nil
}
