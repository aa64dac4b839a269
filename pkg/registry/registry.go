// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed activities.json
var defaultRegistry []byte

// LoadRegistry reads a registry file from disk.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Default returns the registry compiled into the binary.
func Default() (*ActivityRegistry, error) {
	return Parse(defaultRegistry)
}

// Load returns the registry at path, or the embedded one when path is empty.
func Load(path string) (*ActivityRegistry, error) {
	if path == "" {
		return Default()
	}
	return LoadRegistry(path)
}

func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse activity registry: %w", err)
	}
	return &reg, nil
}

// FindByTaskType returns the activity registered for taskType.
func (r *ActivityRegistry) FindByTaskType(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}
