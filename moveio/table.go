// Package moveio reads raw tables and writes the encoded artifacts of the pipeline.
package moveio

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/lynxkite/lynxkite/move/moveerrors"
	"gonum.org/v1/gonum/mat"
)

// Table is a raw dataset with rows in canonical sample order.
type Table struct {
	Features []string
	Values   [][]string
	Defined  [][]bool
}

// IsMissing tells whether a raw cell holds no value.
func IsMissing(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "NA", "NaN", "nan", "NULL":
		return true
	}
	return false
}

// ReadTable reads a raw table from a .tsv or a .parquet file, with rows ordered as samples.
func ReadTable(path string, samples []string) (*Table, error) {
	switch filepath.Ext(path) {
	case ".tsv", ".txt":
		return readTSV(path, samples)
	case ".parquet":
		return readParquet(path, samples)
	default:
		return nil, errors.NotSupportedf("table format of %v", path)
	}
}

// FindTable looks for <dir>/<name>.tsv, then <dir>/<name>.parquet.
func FindTable(dir, name string) (string, error) {
	for _, ext := range []string{".tsv", ".parquet"} {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.NotFoundf("table %v in %v", name, dir)
}

// ReadSampleNames reads the canonical sample order, one name per line.
func ReadSampleNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Failed to open sample names: %v", err)
	}
	defer f.Close()
	var samples []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			samples = append(samples, s)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("Failed to read sample names: %v", err)
	}
	return samples, nil
}

// Floats parses the table as numbers. Missing cells become NaN.
// It returns nil for a table without rows or columns.
func (t *Table) Floats() (*mat.Dense, error) {
	if len(t.Values) == 0 || len(t.Features) == 0 {
		return nil, nil
	}
	out := mat.NewDense(len(t.Values), len(t.Features), nil)
	for i, row := range t.Values {
		for j, v := range row {
			if !t.Defined[i][j] {
				out.Set(i, j, math.NaN())
				continue
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, moveerrors.InvalidInput(j, "%q in column %v is not a number", v, t.Features[j])
			}
			out.Set(i, j, f)
		}
	}
	return out, nil
}

// SelectFeatures keeps the features whose mask entry is true.
func SelectFeatures(names []string, mask []bool) []string {
	var kept []string
	for i, keep := range mask {
		if keep {
			kept = append(kept, names[i])
		}
	}
	return kept
}

// align orders rows by the canonical sample list.
func align(path string, samples []string, rowOf map[string]int, t *Table) (*Table, error) {
	out := &Table{
		Features: t.Features,
		Values:   make([][]string, len(samples)),
		Defined:  make([][]bool, len(samples)),
	}
	for i, s := range samples {
		row, exists := rowOf[s]
		if !exists {
			return nil, moveerrors.MissingSample(s, path)
		}
		out.Values[i] = t.Values[row]
		out.Defined[i] = t.Defined[row]
	}
	return out, nil
}
