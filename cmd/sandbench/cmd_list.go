// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/sandbench/pkg/ux"
)

// =============================================================================
// COMMAND IMPLEMENTATIONS
// =============================================================================

// runList implements "sandbench list".
func runList(cmd *cobra.Command, _ []string) {
	os.Exit(listPrograms(cmd))
}

// listPrograms prints the catalog that a run would benchmark, one program
// per line with its non-default settings.
func listPrograms(cmd *cobra.Command) int {
	console := ux.NewConsole(os.Stdout)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		console.Errorf("%v", err)
		return 1
	}

	programs, err := loadCatalog(cfg)
	if err != nil {
		console.Errorf("%v", err)
		return 1
	}

	console.Titlef("Benchmark catalog (%d programs)", len(programs))
	for _, prog := range programs {
		var details []string
		if len(prog.Args) > 0 {
			details = append(details, "args: "+strings.Join(prog.Args, " "))
		}
		if prog.Stdin != "" {
			details = append(details, "stdin: "+prog.Stdin)
		}
		if len(prog.CFlags) > 0 {
			details = append(details, "cflags: "+strings.Join(prog.CFlags, " "))
		}
		if !prog.LTO {
			details = append(details, "lto: off")
		}
		if prog.StackHint > 0 {
			details = append(details, fmt.Sprintf("stack: %d", prog.StackHint))
		}

		if len(details) == 0 {
			console.Printf("  %s", prog.Name)
			continue
		}
		console.Printf("  %-18s %s", prog.Name, strings.Join(details, "  "))
	}
	return 0
}
