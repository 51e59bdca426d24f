// Types used by the dataset assembler.
package dataset

import (
	"github.com/lynxkite/lynxkite/move/preprocessing"
)

// Dataset is an encoded dataset. It is either a *Categorical or a *Continuous.
type Dataset interface {
	Name() string
	NumSamples() int
	kind() string
}

type Categorical struct {
	name    string
	OneHot  *preprocessing.OneHot
	Mapping preprocessing.Mapping
}

type Continuous struct {
	name   string
	Scaled *preprocessing.Scaled
}

func NewCategorical(name string, oneHot *preprocessing.OneHot, mapping preprocessing.Mapping) *Categorical {
	return &Categorical{name: name, OneHot: oneHot, Mapping: mapping}
}

func NewContinuous(name string, scaled *preprocessing.Scaled) *Continuous {
	return &Continuous{name: name, Scaled: scaled}
}

func (d *Categorical) Name() string {
	return d.name
}
func (d *Continuous) Name() string {
	return d.name
}

func (d *Categorical) NumSamples() int {
	return d.OneHot.NumSamples
}
func (d *Continuous) NumSamples() int {
	return d.Scaled.Rows
}

func (d *Categorical) kind() string {
	return "Categorical"
}
func (d *Continuous) kind() string {
	return "Continuous"
}

// NumFeatures is the number of retained columns.
func (d *Continuous) NumFeatures() int {
	if d.Scaled.Values == nil {
		return 0
	}
	_, cols := d.Scaled.Values.Dims()
	return cols
}

// Shape records how many columns a dataset occupies in a unified tensor.
// Continuous datasets have Classes = 1.
type Shape struct {
	Name     string
	Features int
	Classes  int
}

func (s Shape) Width() int {
	return s.Features * s.Classes
}
