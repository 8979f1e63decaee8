package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manager handles loading, validation, and persistence of strategy
// configurations.
type Manager struct {
	validator *StrategyValidator
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{
		validator: NewStrategyValidator(),
	}
}

// Resolve turns the -config argument into a validated configuration.
// The argument may be a built-in preset name ("btc", "eth") or a path
// to a JSON config file. An empty argument returns nil so the caller
// can fall back to asset auto-detection.
func (m *Manager) Resolve(arg string) (*StrategyConfig, error) {
	if arg == "" {
		return nil, nil
	}
	if IsPresetName(arg) {
		cfg, _ := PresetByName(arg)
		return cfg, nil
	}
	return m.LoadFile(arg)
}

// LoadFile loads a configuration from a JSON file. Fields absent from
// the file keep their default values, so partial config files work.
func (m *Manager) LoadFile(path string) (*StrategyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	cfg := NewDefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	if err := m.validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates a configuration using the manager's validator.
func (m *Manager) Validate(cfg *StrategyConfig) error {
	return m.validator.Validate(cfg)
}

// SaveConfig writes a configuration as indented JSON, creating the
// parent directory if needed.
func (m *Manager) SaveConfig(cfg *StrategyConfig, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}
