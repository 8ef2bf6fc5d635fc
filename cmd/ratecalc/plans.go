package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/raterudder/rateexplorer/pkg/types"
	"gopkg.in/yaml.v3"
)

// decodeFile decodes a TOML, YAML or JSON file into v based on its extension.
func decodeFile(filePath string, v any) error {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", filePath, err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", filePath, err)
	}

	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".toml":
		if err := toml.Unmarshal(fileData, v); err != nil {
			return fmt.Errorf("error parsing TOML file %s: %w", filePath, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, v); err != nil {
			return fmt.Errorf("error parsing YAML file %s: %w", filePath, err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, v); err != nil {
			return fmt.Errorf("error parsing JSON file %s: %w", filePath, err)
		}
	default:
		return fmt.Errorf("unsupported file format: %s", ext)
	}
	return nil
}

// loadPlan reads and validates a rate plan. Plans without a label are
// labeled with their file name.
func loadPlan(filePath string) (*types.RatePlan, error) {
	var plan types.RatePlan
	if err := decodeFile(filePath, &plan); err != nil {
		return nil, err
	}
	if plan.Label == "" {
		plan.Label = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan %s: %w", filePath, err)
	}
	return &plan, nil
}

type profileFile struct {
	Profile types.UsageProfile `json:"profile" yaml:"profile" toml:"profile"`
}

// loadProfile reads a 24 hour usage profile.
func loadProfile(filePath string) (types.UsageProfile, error) {
	var f profileFile
	if err := decodeFile(filePath, &f); err != nil {
		return nil, err
	}
	if err := f.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", filePath, err)
	}
	return f.Profile, nil
}
