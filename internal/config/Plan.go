package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nativevault/nvm/internal/types"
)

// LoadPlan reads and validates the YAML allocation plan file.
func LoadPlan(path string) (*types.AllocationPlan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read allocation plan %s: %w", path, err)
	}

	var plan types.AllocationPlan
	if err := yaml.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse allocation plan %s: %w", path, err)
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid allocation plan %s: %w", path, err)
	}
	return &plan, nil
}
