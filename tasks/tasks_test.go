package tasks

import (
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/lynxkite/lynxkite/move/config"
	"github.com/lynxkite/lynxkite/move/dataset"
	"github.com/lynxkite/lynxkite/move/moveerrors"
	"github.com/lynxkite/lynxkite/move/moveio"
	"gonum.org/v1/gonum/mat"
)

func writeRawData(t *testing.T) config.Data {
	dir, err := ioutil.TempDir("", "tasks")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	raw := filepath.Join(dir, "raw")
	if err := os.MkdirAll(raw, 0775); err != nil {
		t.Fatalf("Failed to create %v: %v", raw, err)
	}
	files := map[string]string{
		"samples.txt": "s1\ns2\ns3\ns4\n",
		"drugs.tsv": "\td1\td2\n" +
			"s1\tA\tB\n" +
			"s2\tA\tA\n" +
			"s3\tB\tNA\n" +
			"s4\tB\tB\n",
		"metabolomics.tsv": "\tm1\tm2\tm3\n" +
			"s4\t4\t1\t7\n" +
			"s3\t3\t1\tNA\n" +
			"s2\t2\t1\t5\n" +
			"s1\t1\t1\t3\n",
	}
	for name, content := range files {
		if err := ioutil.WriteFile(filepath.Join(raw, name), []byte(content), 0664); err != nil {
			t.Fatalf("Failed to write %v: %v", name, err)
		}
	}
	return config.Data{
		RawDataPath:      raw,
		InterimDataPath:  filepath.Join(dir, "interim"),
		SampleNames:      filepath.Join(raw, "samples.txt"),
		CategoricalNames: []string{"drugs"},
		ContinuousNames:  []string{"metabolomics"},
		BatchSize:        2,
	}
}

func TestEncodeData(t *testing.T) {
	cfg := writeRawData(t)
	defer os.RemoveAll(filepath.Dir(cfg.RawDataPath))
	if err := EncodeData(cfg); err != nil {
		t.Fatalf("EncodeData failed: %v", err)
	}
	names, err := moveio.ReadNames(filepath.Join(cfg.InterimDataPath, "metabolomics.txt"))
	if err != nil {
		t.Fatalf("ReadNames failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"m1", "m3"}) {
		t.Errorf("Retained features are %v instead of [m1 m3]", names)
	}
	mappings, err := moveio.ReadMappings(filepath.Join(cfg.InterimDataPath, "mappings.json"))
	if err != nil {
		t.Fatalf("ReadMappings failed: %v", err)
	}
	expected := map[string]map[string]int{"drugs": {"A": 0, "B": 1}}
	if !reflect.DeepEqual(mappings, expected) {
		t.Errorf("Mappings are %v instead of %v", mappings, expected)
	}
}

func TestLoadInterim(t *testing.T) {
	cfg := writeRawData(t)
	defer os.RemoveAll(filepath.Dir(cfg.RawDataPath))
	if err := EncodeData(cfg); err != nil {
		t.Fatalf("EncodeData failed: %v", err)
	}
	datasets, err := LoadInterim(cfg)
	if err != nil {
		t.Fatalf("LoadInterim failed: %v", err)
	}
	if len(datasets) != 2 {
		t.Fatalf("LoadInterim returned %d datasets instead of 2", len(datasets))
	}
	drugs := datasets[0].(*dataset.Categorical)
	if drugs.OneHot.IsDefined(2, 1) {
		t.Errorf("Missing drug cell came back as defined")
	}
	if !reflect.DeepEqual(drugs.OneHot.Slot(0, 1), []float64{0, 1}) {
		t.Errorf("Cell (0, 1) is %v instead of [0 1]", drugs.OneHot.Slot(0, 1))
	}
	metabolomics := datasets[1].(*dataset.Continuous)
	if metabolomics.NumFeatures() != 2 {
		t.Errorf("Metabolomics has %d features instead of 2", metabolomics.NumFeatures())
	}
	// m1 is 1, 2, 3, 4 in canonical sample order.
	if metabolomics.Scaled.Values.At(0, 0) >= metabolomics.Scaled.Values.At(3, 0) {
		t.Errorf("Samples were not reordered: %v", mat.Formatted(metabolomics.Scaled.Values))
	}
	if math.Abs(metabolomics.Scaled.Mean[0]-2.5) > 1e-9 {
		t.Errorf("Mean of m1 is %v instead of 2.5", metabolomics.Scaled.Mean[0])
	}
}

func TestPerturbData(t *testing.T) {
	cfg := writeRawData(t)
	defer os.RemoveAll(filepath.Dir(cfg.RawDataPath))
	if err := EncodeData(cfg); err != nil {
		t.Fatalf("EncodeData failed: %v", err)
	}
	loaders, err := PerturbData(cfg, "drugs", "A")
	if err != nil {
		t.Fatalf("PerturbData failed: %v", err)
	}
	if len(loaders) != 3 {
		t.Fatalf("PerturbData returned %d loaders instead of 3", len(loaders))
	}
	second := loaders[1].Categorical()
	for i := 0; i < 4; i++ {
		if second.At(i, 2) != 1 || second.At(i, 3) != 0 {
			t.Errorf("Sample %d of the second perturbation has d2 = [%v %v]", i, second.At(i, 2), second.At(i, 3))
		}
	}
	if _, err := PerturbData(cfg, "metabolomics", "A"); !moveerrors.IsUnknownDataset(err) {
		t.Errorf("PerturbData returned %v for a continuous target", err)
	}
}

func TestEncodeDataMissingSample(t *testing.T) {
	cfg := writeRawData(t)
	defer os.RemoveAll(filepath.Dir(cfg.RawDataPath))
	if err := ioutil.WriteFile(cfg.SampleNames, []byte("s1\ns5\n"), 0664); err != nil {
		t.Fatalf("Failed to write samples: %v", err)
	}
	if err := EncodeData(cfg); !moveerrors.IsMissingSample(err) {
		t.Errorf("EncodeData returned %v instead of a missing sample error", err)
	}
}

func TestLoaderFollowsConfig(t *testing.T) {
	cfg := writeRawData(t)
	defer os.RemoveAll(filepath.Dir(cfg.RawDataPath))
	if err := EncodeData(cfg); err != nil {
		t.Fatalf("EncodeData failed: %v", err)
	}
	a, err := Assemble(cfg)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	l := Loader(cfg, a)
	if l.BatchSize() != 2 || l.Len() != 2 {
		t.Errorf("Loader has batch size %d and %d batches instead of 2 and 2", l.BatchSize(), l.Len())
	}
}
