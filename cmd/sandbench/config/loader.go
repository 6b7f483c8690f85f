// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked for in the working directory when no
// explicit config path is given.
const DefaultFileName = "sandbench.yaml"

// Load reads a configuration file and returns the merged record.
//
// # Description
//
// Fields absent from the file keep their defaults, so a minimal file
// only has to name what it changes:
//
//	profile: stats
//	toolchain:
//	  reserved_heap: 64MiB
//
// An empty path falls back to DefaultFileName in the working directory;
// if that fallback does not exist the defaults are returned as-is. An
// explicit path that cannot be read is an error.
//
// # Inputs
//
//   - path: Config file location, or "" for the default lookup.
//
// # Outputs
//
//   - Config: Validated configuration.
//   - error: Non-nil on unreadable files, bad YAML, or invalid values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
