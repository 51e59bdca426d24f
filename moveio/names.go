// Feature name lists and category mappings.

package moveio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"strings"
)

// DumpNames writes one name per line.
func DumpNames(path string, names []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Failed to create %v: %v", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, n := range names {
		if _, err := w.WriteString(n + "\n"); err != nil {
			return fmt.Errorf("Failed to write %v: %v", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("Failed to write %v: %v", path, err)
	}
	return f.Close()
}

func ReadNames(path string) ([]string, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Failed to read %v: %v", path, err)
	}
	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// DumpMappings writes the category mapping of every categorical dataset as JSON.
func DumpMappings(path string, mappings map[string]map[string]int) error {
	data, err := json.MarshalIndent(mappings, "", "  ")
	if err != nil {
		return fmt.Errorf("Error while marshaling mappings: %v", err)
	}
	if err := ioutil.WriteFile(path, data, 0664); err != nil {
		return fmt.Errorf("Failed to write %v: %v", path, err)
	}
	return nil
}

func ReadMappings(path string) (map[string]map[string]int, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Failed to read %v: %v", path, err)
	}
	var mappings map[string]map[string]int
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("Error while unmarshaling mappings: %v", err)
	}
	return mappings, nil
}
