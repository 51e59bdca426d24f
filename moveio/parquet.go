// Reading and writing raw tables in Parquet.
// The tables are stored in long format: one row per (sample, feature) cell.

package moveio

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

const numGoRoutines int64 = 4

type CellRow struct {
	Sample  string `parquet:"name=sample, type=UTF8"`
	Feature string `parquet:"name=feature, type=UTF8"`
	Value   string `parquet:"name=value, type=UTF8"`
	Defined bool   `parquet:"name=defined, type=BOOLEAN"`
}

func readParquet(path string, samples []string) (*Table, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("Failed to open file: %v", err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(CellRow), numGoRoutines)
	if err != nil {
		return nil, fmt.Errorf("Failed to create parquet reader: %v", err)
	}
	defer pr.ReadStop()
	numRows := int(pr.GetNumRows())
	rows := make([]CellRow, numRows)
	if err := pr.Read(&rows); err != nil {
		return nil, fmt.Errorf("Failed to read parquet file: %v", err)
	}

	t := &Table{}
	featureIdx := make(map[string]int)
	rowOf := make(map[string]int)
	for _, r := range rows {
		if _, seen := featureIdx[r.Feature]; !seen {
			featureIdx[r.Feature] = len(t.Features)
			t.Features = append(t.Features, r.Feature)
		}
		if _, seen := rowOf[r.Sample]; !seen {
			rowOf[r.Sample] = len(t.Values)
			t.Values = append(t.Values, nil)
			t.Defined = append(t.Defined, nil)
		}
	}
	for i := range t.Values {
		t.Values[i] = make([]string, len(t.Features))
		t.Defined[i] = make([]bool, len(t.Features))
	}
	for _, r := range rows {
		i, j := rowOf[r.Sample], featureIdx[r.Feature]
		t.Values[i][j] = r.Value
		t.Defined[i][j] = r.Defined && !IsMissing(r.Value)
	}
	return align(path, samples, rowOf, t)
}

// WriteParquetTable writes t in long format, with rows ordered as samples.
func WriteParquetTable(path string, t *Table, samples []string) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("Failed to create file: %v", err)
	}
	defer fw.Close()
	pw, err := writer.NewParquetWriter(fw, new(CellRow), numGoRoutines)
	if err != nil {
		return fmt.Errorf("Failed to create parquet writer: %v", err)
	}
	for i, s := range samples {
		for j, f := range t.Features {
			row := CellRow{Sample: s, Feature: f, Value: t.Values[i][j], Defined: t.Defined[i][j]}
			if err := pw.Write(row); err != nil {
				return fmt.Errorf("Failed to write parquet file: %v", err)
			}
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("Parquet WriteStop error: %v", err)
	}
	return nil
}
