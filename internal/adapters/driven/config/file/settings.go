// Package file provides TOML-backed application settings.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/askpdf-cli/internal/core/domain"
)

// DefaultFileName is the settings file name inside the config directory.
const DefaultFileName = "config.toml"

// DefaultPath returns the default settings path, ~/.askpdf/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".askpdf", DefaultFileName), nil
}

// Load reads settings from the TOML file at path and applies defaults.
// A missing file yields pure defaults without error; the directory layout
// then defaults relative to the config directory.
func Load(path string) (*domain.Settings, error) {
	var settings domain.Settings

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only
	case err != nil:
		return nil, fmt.Errorf("read settings: %w", err)
	default:
		if err := toml.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("parse settings: %w", err)
		}
	}

	baseDir := filepath.Dir(path)
	if settings.RawDir == "" {
		settings.RawDir = filepath.Join(baseDir, "raw")
	}
	if settings.StagingDir == "" {
		settings.StagingDir = filepath.Join(baseDir, "staged")
	}
	if settings.DataDir == "" {
		settings.DataDir = filepath.Join(baseDir, "data")
	}
	settings.ApplyDefaults()

	return &settings, nil
}

// Save writes settings as TOML to path, creating the directory if needed.
func Save(path string, settings *domain.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
