// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Defaults maps flag names to the values used when the user does not
// set the flag.
type Defaults map[string]string

// DefaultPath is $GRIDSHARE_CONFIG when set, otherwise
// $XDG_CONFIG_HOME/gridshare/config.yaml (with the usual ~/.config
// fallback).
func DefaultPath() string {
	if path := os.Getenv("GRIDSHARE_CONFIG"); path != "" {
		return path
	}
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "gridshare", "config.yaml")
}

// Load reads a defaults file. The file must exist and hold a flat
// string-to-string mapping.
func Load(path string) (Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	defaults := Defaults{}
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return defaults, nil
}

// LoadOptional is Load, except a missing file yields empty defaults.
// Used for the conventional path, which most users never create.
func LoadOptional(path string) (Defaults, error) {
	defaults, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults{}, nil
	}
	return defaults, err
}

// Apply sets each default on flagSet, skipping flags the user already
// set on the command line. A key that names no flag is an error.
func (d Defaults) Apply(flagSet *pflag.FlagSet) error {
	for key, value := range d {
		flag := flagSet.Lookup(key)
		if flag == nil {
			return fmt.Errorf("config: unknown key %q (keys mirror request flag names)", key)
		}
		if flag.Changed {
			continue
		}
		if err := flagSet.Set(key, value); err != nil {
			return fmt.Errorf("config: value for %q: %w", key, err)
		}
	}
	return nil
}
