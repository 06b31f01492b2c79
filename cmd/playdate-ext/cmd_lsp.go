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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/playdate-ext/services/playdate/host"
	"github.com/AleutianAI/playdate-ext/services/playdate/lsp"
)

// cliStatusReporter surfaces install progress on stderr via the logger.
type cliStatusReporter struct{}

func (cliStatusReporter) ReportInstallStatus(serverID string, status host.InstallStatus) {
	logger.Info("install status", "server_id", serverID, "status", status.String())
}

// runLSPInstall installs the language server and prints its path.
func runLSPInstall(cmd *cobra.Command, args []string) error {
	worktree, err := newWorktree()
	if err != nil {
		return err
	}
	workDir, err := config.workDir()
	if err != nil {
		return err
	}

	installer := lsp.NewInstaller(workDir,
		lsp.WithLogger(logger),
		lsp.WithStatusReporter(cliStatusReporter{}),
	)
	binaryPath, err := installer.BinaryPath(cmd.Context(), worktree)
	if err != nil {
		return err
	}

	fmt.Println(binaryPath)
	return nil
}

// runLSPCommand prints the resolved server command as JSON, the shape the
// host editor receives.
func runLSPCommand(cmd *cobra.Command, args []string) error {
	worktree, err := newWorktree()
	if err != nil {
		return err
	}
	ext, err := newExtension()
	if err != nil {
		return err
	}

	command, err := ext.LanguageServerCommand(cmd.Context(), lsp.ServerID, worktree)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(command, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode command: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
