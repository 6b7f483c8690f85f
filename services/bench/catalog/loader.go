// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileProgram mirrors Program for YAML decoding. LTO is a pointer so an
// omitted key keeps the built-in default of true rather than decoding false.
type fileProgram struct {
	Name      string   `yaml:"name"`
	Args      []string `yaml:"args"`
	StackHint int      `yaml:"stack_hint"`
	CFlags    []string `yaml:"cflags"`
	LTO       *bool    `yaml:"lto"`
	Stdin     string   `yaml:"stdin"`
}

// catalogFile is the top-level YAML document of a catalog file.
type catalogFile struct {
	Programs []fileProgram `yaml:"programs"`
}

// Load reads a catalog from a YAML file and validates it.
//
// The file holds a `programs` list; each entry carries the same fields as
// Program. Validation runs before the catalog is returned, so a successful
// Load yields a catalog ready to build.
//
// Example file:
//
//	programs:
//	  - name: crc
//	    args: ["./large.pcm"]
//	    cflags: ["-Wno-implicit-int", "-Wno-format"]
//	  - name: adpcm
//	    stdin: large.pcm
//	    lto: false
func Load(path string) ([]Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}

	programs := make([]Program, 0, len(file.Programs))
	for _, fp := range file.Programs {
		p := Program{
			Name:      fp.Name,
			Args:      fp.Args,
			StackHint: fp.StackHint,
			CFlags:    fp.CFlags,
			LTO:       true,
			Stdin:     fp.Stdin,
		}
		if fp.LTO != nil {
			p.LTO = *fp.LTO
		}
		programs = append(programs, p)
	}

	if err := Validate(programs); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	return programs, nil
}
