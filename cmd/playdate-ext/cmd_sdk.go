// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/playdate-ext/services/playdate/sdk"
)

// runSDK prints what the extension would discover for this machine.
func runSDK(cmd *cobra.Command, args []string) error {
	worktree, err := newWorktree()
	if err != nil {
		return err
	}
	locator := sdk.NewLocator()

	sdkPath, err := locator.DetectPath(worktree)
	if err != nil {
		return fmt.Errorf("SDK not found: %w", err)
	}
	fmt.Printf("SDK path:  %s\n", sdkPath)
	fmt.Printf("CoreLibs:  %s\n", sdk.CoreLibsPath(sdkPath))

	if simulator, err := locator.SimulatorPath(worktree); err == nil {
		fmt.Printf("Simulator: %s\n", simulator)
	}

	if version, err := locator.CompilerVersion(cmd.Context(), worktree); err == nil {
		fmt.Printf("pdc:       %s\n", version)
	} else {
		fmt.Printf("pdc:       not found (%v)\n", err)
	}
	return nil
}
