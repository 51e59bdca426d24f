// Package config holds the data configuration of an encoding and perturbation run.
package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/juju/errors"
)

type Data struct {
	RawDataPath      string   `json:"raw_data_path"`
	InterimDataPath  string   `json:"interim_data_path"`
	SampleNames      string   `json:"sample_names"`
	CategoricalNames []string `json:"categorical_names"`
	ContinuousNames  []string `json:"continuous_names"`
	Log2             bool     `json:"log2"`
	BatchSize        int      `json:"batch_size"`
	Shuffle          bool     `json:"shuffle"`
	Seed             int64    `json:"seed"`
	Workers          int      `json:"workers"`
}

// Load reads a JSON data configuration. Relative paths are resolved against the directory of
// the configuration file.
func Load(path string) (Data, error) {
	var cfg Data
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("Failed to read config: %v", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("Error while unmarshaling config %v: %v", path, err)
	}
	base := filepath.Dir(path)
	for _, p := range []*string{&cfg.RawDataPath, &cfg.InterimDataPath, &cfg.SampleNames} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	if cfg.Workers == 0 {
		cfg.Workers = GetNumericEnv("MOVE_WORKERS", runtime.NumCPU())
	}
	return cfg, cfg.Validate()
}

func (d Data) Validate() error {
	if d.RawDataPath == "" {
		return errors.NotValidf("config without raw_data_path")
	}
	if d.InterimDataPath == "" {
		return errors.NotValidf("config without interim_data_path")
	}
	if d.SampleNames == "" {
		return errors.NotValidf("config without sample_names")
	}
	seen := make(map[string]bool)
	for _, n := range append(append([]string{}, d.CategoricalNames...), d.ContinuousNames...) {
		if seen[n] {
			return errors.NotValidf("dataset name %q used twice", n)
		}
		seen[n] = true
	}
	if d.BatchSize < 0 {
		return errors.NotValidf("batch_size %v", d.BatchSize)
	}
	return nil
}

// GetNumericEnv returns the integer value of an environment variable, or dflt if it is unset.
func GetNumericEnv(key string, dflt int) int {
	s, exists := os.LookupEnv(key)
	if exists {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			pmsg := fmt.Sprintf("Cannot parse environment variable (%v) as int: %v", key, s)
			panic(pmsg)
		}
		return int(v)
	} else {
		return dflt
	}
}
