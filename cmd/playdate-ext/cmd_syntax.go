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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/playdate-ext/services/playdate/grammar"
)

// runSyntaxCheck reports tree-sitter syntax errors for the given files.
// Exits non-zero when any file fails to parse cleanly.
func runSyntaxCheck(cmd *cobra.Command, args []string) error {
	checker := grammar.NewChecker(grammar.NewRegistry())

	failures := 0
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		result, err := checker.Check(cmd.Context(), content, path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if result.Valid {
			fmt.Printf("%s: ok\n", path)
			continue
		}

		failures++
		for _, diag := range result.Diagnostics {
			fmt.Printf("%s:%d:%d: %s\n", path, diag.Line, diag.Column, diag.Message)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d file(s) with syntax errors", failures)
	}
	return nil
}
