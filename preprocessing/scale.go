// Z-score normalization of continuous datasets.

package preprocessing

import (
	"log"
	"math"

	"github.com/lynxkite/lynxkite/move/moveerrors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Columns with a standard deviation at or below this are treated as constant.
const zeroVarianceTolerance = 1e-8

type ScaleOptions struct {
	// Log2 replaces every value v with log2(v+1) before standardizing.
	Log2 bool
}

// Scaled is a z-score normalized continuous block.
// Mask has one entry per input column; Values, Mean and Std only cover the retained ones.
type Scaled struct {
	Values  *mat.Dense // nil if no column was retained
	Rows    int
	Mask    []bool
	Mean    []float64
	Std     []float64
	Dropped int
	Log2    bool
}

// Retained lists the indices of the input columns that survived scaling.
func (s *Scaled) Retained() []int {
	var idx []int
	for j, keep := range s.Mask {
		if keep {
			idx = append(idx, j)
		}
	}
	return idx
}

// Scale standardizes every column of values, where NaN marks a missing value. Moments are
// computed over the non-missing entries only. Constant columns and columns with fewer than
// two non-missing values are dropped. Missing entries become 0.
func Scale(values *mat.Dense, opts ScaleOptions) (*Scaled, error) {
	if values == nil {
		return nil, moveerrors.InvalidInput(-1, "nothing to scale")
	}
	rows, cols := values.Dims()
	scaled := &Scaled{
		Rows: rows,
		Mask: make([]bool, cols),
		Log2: opts.Log2,
	}
	columns := make([][]float64, 0, cols)
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, values)
		if opts.Log2 {
			for i, v := range col {
				col[i] = math.Log2(v + 1)
			}
		}
		mean, std, err := columnMoments(col, j)
		if err != nil {
			if moveerrors.IsInvalidInput(err) {
				log.Printf("Dropping column %d: %v", j, err)
				scaled.Dropped++
				continue
			}
			return nil, err
		}
		if std <= zeroVarianceTolerance {
			scaled.Dropped++
			continue
		}
		for i, v := range col {
			if math.IsNaN(v) {
				col[i] = 0
			} else {
				col[i] = (v - mean) / std
			}
		}
		scaled.Mask[j] = true
		scaled.Mean = append(scaled.Mean, mean)
		scaled.Std = append(scaled.Std, std)
		columns = append(columns, col)
	}
	if len(columns) > 0 && rows > 0 {
		scaled.Values = mat.NewDense(rows, len(columns), nil)
		for j, col := range columns {
			scaled.Values.SetCol(j, col)
		}
	}
	return scaled, nil
}

// columnMoments returns the population mean and standard deviation of the non-missing values.
func columnMoments(col []float64, j int) (float64, float64, error) {
	present := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) < 2 {
		return 0, 0, moveerrors.InvalidInput(j, "%d non-missing values, need at least 2", len(present))
	}
	mean, std := stat.PopMeanStdDev(present, nil)
	return mean, std, nil
}

// Unscale maps scaled values back to the original units. Entries that were missing come back
// as the column mean.
func Unscale(s *Scaled) *mat.Dense {
	if s.Values == nil {
		return nil
	}
	rows, cols := s.Values.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(i, j int, v float64) float64 {
		orig := v*s.Std[j] + s.Mean[j]
		if s.Log2 {
			orig = math.Exp2(orig) - 1
		}
		return orig
	}, s.Values)
	return out
}
