package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the optional YAML configuration file.
//
//	repositories:
//	  - steinwurf/kodo
//	  - steinwurf/raft
//	backend: gh
//	layout: grouped
type File struct {
	Repositories []string `yaml:"repositories"`
	Backend      string   `yaml:"backend"`
	Layout       string   `yaml:"layout"`
}

// LoadFile reads and decodes a YAML config file. Unknown keys are rejected.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var file File
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	// An empty file decodes to io.EOF and is treated as an empty configuration
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &file, nil
}
