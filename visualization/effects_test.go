package visualization

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/lynxkite/lynxkite/move/moveerrors"
	"gonum.org/v1/gonum/mat"
)

func TestFeatureEffects(t *testing.T) {
	dir, err := ioutil.TempDir("", "visualization")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "effects.png")
	effects := mat.NewDense(3, 2, []float64{0.5, -1, 0, 0.25, -0.75, 2})
	if err := FeatureEffects(effects, []string{"d1", "d2", "d3"}, 1, path); err != nil {
		t.Fatalf("FeatureEffects failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Chart was not written: %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("Chart is empty")
	}
}

func TestFeatureEffectsBadInput(t *testing.T) {
	effects := mat.NewDense(2, 2, nil)
	if err := FeatureEffects(effects, []string{"d1"}, 0, "unused.png"); !moveerrors.IsShapeMismatch(err) {
		t.Errorf("FeatureEffects returned %v for too few names", err)
	}
	if err := FeatureEffects(effects, []string{"d1", "d2"}, 2, "unused.png"); !moveerrors.IsInvalidInput(err) {
		t.Errorf("FeatureEffects returned %v for a bad column", err)
	}
}
