// Types used by the MOVE server.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/lynxkite/lynxkite/move/dataset"
	"gonum.org/v1/gonum/mat"
)

type Server struct {
	entityCache EntityCache
	dataDir     string
}
type GUID string
type OperationDescription struct {
	Class string
	Data  map[string]interface{}
}
type OperationInstance struct {
	GUID      GUID
	Inputs    map[string]GUID
	Outputs   map[string]GUID
	Operation OperationDescription
}

type Entity interface {
	typeName() string
	estimatedMemUsage() int
}

// AssembledData is the unified tensors of the encoded datasets of a data config.
type AssembledData struct {
	*dataset.Assembled
}

// Matrix is a dense float64 matrix, such as the effects of a perturbation run.
type Matrix struct {
	*mat.Dense
}

// A scalar is stored as its JSON encoding. If you need the real value, unmarshal it for yourself.
type Scalar []byte

func ScalarFrom(value interface{}) (Scalar, error) {
	jsonEncoding, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("Error while marshaling scalar: %v", err)
	}
	return Scalar(jsonEncoding), nil
}
func (scalar *Scalar) LoadTo(dst interface{}) error {
	if err := json.Unmarshal([]byte(*scalar), dst); err != nil {
		return fmt.Errorf("Error while unmarshaling scalar: %v", err)
	}
	return nil
}

func (e *AssembledData) typeName() string {
	return "AssembledData"
}
func (e *Matrix) typeName() string {
	return "Matrix"
}
func (e *Scalar) typeName() string {
	return "Scalar"
}
