// Package moveerrors holds the error kinds shared by the encoding and perturbation packages.
//
// Structural problems (unknown dataset, shape mismatch, missing sample) are always returned
// to the caller. InvalidInputError is the only kind that is recovered locally: a continuous
// column that cannot be scaled is dropped.
package moveerrors

import (
	"fmt"

	"github.com/juju/errors"
)

// InvalidInputError means a column could not be encoded.
type InvalidInputError struct {
	Column int
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input in column %d: %v", e.Column, e.Reason)
}

// UnknownDatasetError means a dataset name is not part of an assembled layout.
type UnknownDatasetError struct {
	Name string
}

func (e *UnknownDatasetError) Error() string {
	return fmt.Sprintf("unknown dataset %q", e.Name)
}

// ShapeMismatchError means two shapes that must agree do not.
type ShapeMismatchError struct {
	What     string
	Expected int
	Actual   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%v: expected %d, got %d", e.What, e.Expected, e.Actual)
}

// MissingSampleError means a raw table lacks a sample of the canonical sample list.
type MissingSampleError struct {
	Sample string
	Path   string
}

func (e *MissingSampleError) Error() string {
	return fmt.Sprintf("sample %q is missing from %v", e.Sample, e.Path)
}

func InvalidInput(column int, format string, args ...interface{}) error {
	return errors.Trace(&InvalidInputError{Column: column, Reason: fmt.Sprintf(format, args...)})
}

func UnknownDataset(name string) error {
	return errors.Trace(&UnknownDatasetError{Name: name})
}

func ShapeMismatch(what string, expected, actual int) error {
	return errors.Trace(&ShapeMismatchError{What: what, Expected: expected, Actual: actual})
}

func MissingSample(sample, path string) error {
	return errors.Trace(&MissingSampleError{Sample: sample, Path: path})
}

func IsInvalidInput(err error) bool {
	_, ok := errors.Cause(err).(*InvalidInputError)
	return ok
}

func IsUnknownDataset(err error) bool {
	_, ok := errors.Cause(err).(*UnknownDatasetError)
	return ok
}

func IsShapeMismatch(err error) bool {
	_, ok := errors.Cause(err).(*ShapeMismatchError)
	return ok
}

func IsMissingSample(err error) bool {
	_, ok := errors.Cause(err).(*MissingSampleError)
	return ok
}
