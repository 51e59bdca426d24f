package main

import (
	"fmt"
	"path/filepath"

	"github.com/lynxkite/lynxkite/move/dataset"
	"github.com/lynxkite/lynxkite/move/moveio"
)

// loadBatch reads back a batch written by saveLoader.
func loadBatch(dataDir string, guid GUID, index int) (dataset.Batch, error) {
	dirName := filepath.Join(runDir(dataDir, guid), fmt.Sprint(index))
	var b dataset.Batch
	cat, err := moveio.LoadArray(filepath.Join(dirName, "categorical.arrow"))
	if err != nil {
		return b, err
	}
	if b.Categorical, err = cat.Dense(); err != nil {
		return b, err
	}
	con, err := moveio.LoadArray(filepath.Join(dirName, "continuous.arrow"))
	if err != nil {
		return b, err
	}
	if b.Continuous, err = con.Dense(); err != nil {
		return b, err
	}
	defined, err := moveio.LoadArray(filepath.Join(dirName, "defined.arrow"))
	if err != nil {
		return b, err
	}
	b.Defined = make([]bool, len(defined.Values))
	for i, v := range defined.Values {
		b.Defined[i] = v != 0
	}
	b.Indices = make([]int, cat.Shape[0])
	for i := range b.Indices {
		b.Indices[i] = i
	}
	return b, nil
}
