// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// configFileName is looked for in the working directory.
const configFileName = "playdate-ext.yaml"

// Config holds optional CLI defaults loaded from playdate-ext.yaml.
// Every field has a flag or environment fallback; the file is optional.
type Config struct {
	// SDKPath overrides Playdate SDK discovery.
	SDKPath string `yaml:"sdk_path" validate:"omitempty,dirpath|dir"`

	// GamePath is the built .pdx bundle, e.g. builds/Game.pdx.
	GamePath string `yaml:"game_path"`

	// WorkDir is where language-server installs land.
	// Defaults to ~/.playdate-ext.
	WorkDir string `yaml:"work_dir"`

	// LogLevel is debug, info, warn, or error.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// LogJSON switches stderr logging to JSON.
	LogJSON bool `yaml:"log_json"`
}

var configValidate = validator.New()

// loadConfig reads playdate-ext.yaml when present. A missing file returns
// a zero Config with no error; a malformed one is an error.
func loadConfig() (Config, error) {
	var cfg Config

	data, err := os.ReadFile(configFileName)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read %s: %w", configFileName, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", configFileName, err)
	}
	if err := configValidate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid %s: %w", configFileName, err)
	}
	return cfg, nil
}

// workDir resolves the extension work directory from config or the default.
func (c Config) workDir() (string, error) {
	if c.WorkDir != "" {
		return c.WorkDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".playdate-ext"), nil
}
