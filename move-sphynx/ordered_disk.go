// Perturbation batches and charts are written to the ordered disk, one directory per GUID.
// A directory is complete once it has a _SUCCESS file.

package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/lynxkite/lynxkite/move/dataset"
	"github.com/lynxkite/lynxkite/move/moveio"
)

func runDir(dataDir string, guid GUID) string {
	return filepath.Join(dataDir, string(guid))
}

func hasOnDisk(dataDir string, guid GUID) (bool, error) {
	filename := filepath.Join(runDir(dataDir, guid), "_SUCCESS")
	_, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func mkdir(dirName string) error {
	if err := os.MkdirAll(dirName, 0775); err != nil {
		return fmt.Errorf("Failed to create %v: %v", dirName, err)
	}
	return nil
}

func markSuccess(dataDir string, guid GUID) error {
	err := ioutil.WriteFile(filepath.Join(runDir(dataDir, guid), "_SUCCESS"), nil, 0775)
	if err != nil {
		return fmt.Errorf("Failed to write success file: %v", err)
	}
	return nil
}

// definedArray stores the per-cell definedness mask as 1 and 0 values.
func definedArray(defined []bool, numSamples int) *moveio.Array {
	values := make([]float64, len(defined))
	for i, d := range defined {
		if d {
			values[i] = 1
		}
	}
	cols := 0
	if numSamples > 0 {
		cols = len(defined) / numSamples
	}
	return &moveio.Array{Shape: []int{numSamples, cols}, Values: values}
}

// saveLoader writes the tensors of a full batch loader to <dataDir>/<guid>/<index>.
func saveLoader(dataDir string, guid GUID, index int, l *dataset.Loader) error {
	dirName := filepath.Join(runDir(dataDir, guid), fmt.Sprint(index))
	if err := mkdir(dirName); err != nil {
		return err
	}
	n := l.NumSamples()
	arrays := map[string]*moveio.Array{
		"categorical.arrow": moveio.DenseArray(l.Categorical(), n),
		"continuous.arrow":  moveio.DenseArray(l.Continuous(), n),
		"defined.arrow":     definedArray(l.Defined(), n),
	}
	for name, a := range arrays {
		if err := moveio.SaveArray(filepath.Join(dirName, name), a); err != nil {
			return fmt.Errorf("Failed to write %v: %v", name, err)
		}
	}
	return nil
}
