// Package tasks runs the encoding and perturbation pipeline on the datasets of a data config.
//
// EncodeData writes these artifacts to the interim data path:
//
//	<name>.txt            retained feature names of the dataset
//	<name>.arrow          the encoded block
//	<name>_scaling.arrow  mean and std of the retained columns of a continuous dataset
//	mappings.json         category mapping of every categorical dataset
package tasks

import (
	"log"
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/lynxkite/lynxkite/move/config"
	"github.com/lynxkite/lynxkite/move/dataset"
	"github.com/lynxkite/lynxkite/move/moveerrors"
	"github.com/lynxkite/lynxkite/move/moveio"
	"github.com/lynxkite/lynxkite/move/perturbation"
	"github.com/lynxkite/lynxkite/move/preprocessing"
)

const mappingsFile = "mappings.json"

func namesPath(cfg config.Data, name string) string {
	return filepath.Join(cfg.InterimDataPath, name+".txt")
}
func arrayPath(cfg config.Data, name string) string {
	return filepath.Join(cfg.InterimDataPath, name+".arrow")
}
func scalingPath(cfg config.Data, name string) string {
	return filepath.Join(cfg.InterimDataPath, name+"_scaling.arrow")
}

// encoded is an encoded dataset with the raw names of its features.
type encoded struct {
	dataset.Dataset
	features []string
}

// encode reads the raw tables of the config and encodes them in config order,
// categorical datasets first.
func encode(cfg config.Data) ([]encoded, error) {
	samples, err := moveio.ReadSampleNames(cfg.SampleNames)
	if err != nil {
		return nil, errors.Trace(err)
	}
	var datasets []encoded
	for _, name := range cfg.CategoricalNames {
		table, err := readRaw(cfg, name, samples)
		if err != nil {
			return nil, err
		}
		oneHot, mapping, err := preprocessing.OneHotEncode(table.Values, table.Defined)
		if err != nil {
			return nil, errors.Annotatef(err, "cannot encode %v", name)
		}
		datasets = append(datasets, encoded{dataset.NewCategorical(name, oneHot, mapping), table.Features})
	}
	for _, name := range cfg.ContinuousNames {
		table, err := readRaw(cfg, name, samples)
		if err != nil {
			return nil, err
		}
		values, err := table.Floats()
		if err != nil {
			return nil, errors.Annotatef(err, "cannot parse %v", name)
		}
		scaled, err := preprocessing.Scale(values, preprocessing.ScaleOptions{Log2: cfg.Log2})
		if err != nil {
			return nil, errors.Annotatef(err, "cannot scale %v", name)
		}
		log.Printf("Dropped %d of %d features of %v", scaled.Dropped, len(table.Features), name)
		datasets = append(datasets, encoded{dataset.NewContinuous(name, scaled), table.Features})
	}
	return datasets, nil
}

func readRaw(cfg config.Data, name string, samples []string) (*moveio.Table, error) {
	path, err := moveio.FindTable(cfg.RawDataPath, name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	table, err := moveio.ReadTable(path, samples)
	if err != nil {
		return nil, errors.Annotatef(err, "cannot read %v", name)
	}
	return table, nil
}

// EncodeData encodes every dataset of the config and writes the artifacts to the interim path.
func EncodeData(cfg config.Data) error {
	datasets, err := encode(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.InterimDataPath, 0775); err != nil {
		return errors.Annotatef(err, "cannot create %v", cfg.InterimDataPath)
	}
	mappings := make(map[string]map[string]int)
	for _, e := range datasets {
		switch d := e.Dataset.(type) {
		case *dataset.Categorical:
			if err := moveio.DumpNames(namesPath(cfg, d.Name()), e.features); err != nil {
				return errors.Trace(err)
			}
			if err := moveio.SaveArray(arrayPath(cfg, d.Name()), moveio.OneHotArray(d.OneHot)); err != nil {
				return errors.Annotatef(err, "cannot save %v", d.Name())
			}
			mappings[d.Name()] = d.Mapping
		case *dataset.Continuous:
			s := d.Scaled
			retained := moveio.SelectFeatures(e.features, s.Mask)
			if err := moveio.DumpNames(namesPath(cfg, d.Name()), retained); err != nil {
				return errors.Trace(err)
			}
			if err := moveio.SaveArray(arrayPath(cfg, d.Name()), moveio.DenseArray(s.Values, s.Rows)); err != nil {
				return errors.Annotatef(err, "cannot save %v", d.Name())
			}
			stats := &moveio.Array{
				Shape:  []int{2, len(s.Mean)},
				Values: append(append([]float64{}, s.Mean...), s.Std...),
			}
			if err := moveio.SaveArray(scalingPath(cfg, d.Name()), stats); err != nil {
				return errors.Annotatef(err, "cannot save scaling of %v", d.Name())
			}
		}
	}
	if err := moveio.DumpMappings(filepath.Join(cfg.InterimDataPath, mappingsFile), mappings); err != nil {
		return errors.Trace(err)
	}
	log.Printf("Encoded %d datasets into %v", len(datasets), cfg.InterimDataPath)
	return nil
}

// LoadInterim reads back the datasets written by EncodeData, categorical datasets first.
func LoadInterim(cfg config.Data) ([]dataset.Dataset, error) {
	mappings, err := moveio.ReadMappings(filepath.Join(cfg.InterimDataPath, mappingsFile))
	if err != nil {
		return nil, errors.Trace(err)
	}
	var datasets []dataset.Dataset
	for _, name := range cfg.CategoricalNames {
		a, err := moveio.LoadArray(arrayPath(cfg, name))
		if err != nil {
			return nil, errors.Annotatef(err, "cannot load %v", name)
		}
		oneHot, err := a.OneHot()
		if err != nil {
			return nil, errors.Annotatef(err, "cannot load %v", name)
		}
		mapping, exists := mappings[name]
		if !exists {
			return nil, errors.NotFoundf("mapping of %v", name)
		}
		datasets = append(datasets, dataset.NewCategorical(name, oneHot, mapping))
	}
	for _, name := range cfg.ContinuousNames {
		scaled, err := loadScaled(cfg, name)
		if err != nil {
			return nil, errors.Annotatef(err, "cannot load %v", name)
		}
		datasets = append(datasets, dataset.NewContinuous(name, scaled))
	}
	return datasets, nil
}

func loadScaled(cfg config.Data, name string) (*preprocessing.Scaled, error) {
	a, err := moveio.LoadArray(arrayPath(cfg, name))
	if err != nil {
		return nil, err
	}
	values, err := a.Dense()
	if err != nil {
		return nil, err
	}
	stats, err := moveio.LoadArray(scalingPath(cfg, name))
	if err != nil {
		return nil, err
	}
	if len(stats.Shape) != 2 || stats.Shape[0] != 2 || stats.Shape[1] != a.Shape[1] {
		return nil, errors.NotValidf("scaling shape %v for %d columns", stats.Shape, a.Shape[1])
	}
	n := stats.Shape[1]
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	return &preprocessing.Scaled{
		Values: values,
		Rows:   a.Shape[0],
		Mask:   mask,
		Mean:   stats.Values[:n],
		Std:    stats.Values[n:],
		Log2:   cfg.Log2,
	}, nil
}

// Assemble loads the interim datasets and concatenates them.
func Assemble(cfg config.Data) (*dataset.Assembled, error) {
	datasets, err := LoadInterim(cfg)
	if err != nil {
		return nil, err
	}
	return dataset.Assemble(datasets)
}

// PerturbData builds one loader per feature of the target categorical dataset, with that
// feature set to label in every sample, followed by the unperturbed baseline.
func PerturbData(cfg config.Data, target, label string) ([]*dataset.Loader, error) {
	a, err := Assemble(cfg)
	if err != nil {
		return nil, err
	}
	mapping, exists := a.Mappings[target]
	if !exists {
		return nil, errors.Annotatef(moveerrors.UnknownDataset(target), "cannot perturb")
	}
	value, err := perturbation.TargetValue(mapping, label)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return perturbation.Perturb(a, target, value)
}

// Loader returns a loader over the assembled data with the batching settings of the config.
func Loader(cfg config.Data, a *dataset.Assembled) *dataset.Loader {
	return dataset.NewLoader(a.Categorical, a.Continuous, a.Defined, cfg.BatchSize, cfg.Shuffle, cfg.Seed)
}
