// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/playdate-ext/services/playdate/dap"
)

var dapConfigPath string // -c path to a debug config JSON file

func init() {
	dapResolveCmd.Flags().StringVarP(&dapConfigPath, "config", "c", "",
		"Debug configuration JSON file (default: a launch config built from game_path)")
}

// runDAPResolve resolves a debug configuration and prints the adapter
// descriptor the host editor would receive.
func runDAPResolve(cmd *cobra.Command, args []string) error {
	worktree, err := newWorktree()
	if err != nil {
		return err
	}
	ext, err := newExtension()
	if err != nil {
		return err
	}

	var rawConfig json.RawMessage
	if dapConfigPath != "" {
		data, err := os.ReadFile(dapConfigPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		rawConfig = data
	} else {
		launch := dap.Config{Request: "launch", GamePath: config.GamePath}
		rawConfig, err = json.Marshal(launch)
		if err != nil {
			return fmt.Errorf("failed to build default config: %w", err)
		}
	}

	task := dap.TaskDefinition{Label: "playdate-ext resolve", Config: rawConfig}
	binary, err := ext.DebugAdapterBinary(cmd.Context(), dap.AdapterName, task, worktree)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(binary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode descriptor: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
