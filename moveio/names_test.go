package moveio

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNamesRoundTrip(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "drugs.txt")
	names := []string{"d1", "d 2", "d3"}
	if err := DumpNames(path, names); err != nil {
		t.Fatalf("DumpNames failed: %v", err)
	}
	read, err := ReadNames(path)
	if err != nil {
		t.Fatalf("ReadNames failed: %v", err)
	}
	if !reflect.DeepEqual(read, names) {
		t.Errorf("ReadNames returned %v instead of %v", read, names)
	}
}

func TestMappingsRoundTrip(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "mappings.json")
	mappings := map[string]map[string]int{
		"drugs": {"A": 0, "B": 1},
		"sex":   {"F": 0, "M": 1},
	}
	if err := DumpMappings(path, mappings); err != nil {
		t.Fatalf("DumpMappings failed: %v", err)
	}
	read, err := ReadMappings(path)
	if err != nil {
		t.Fatalf("ReadMappings failed: %v", err)
	}
	if !reflect.DeepEqual(read, mappings) {
		t.Errorf("ReadMappings returned %v instead of %v", read, mappings)
	}
}
