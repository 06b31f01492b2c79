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

	"github.com/AleutianAI/playdate-ext/pkg/logging"
	"github.com/AleutianAI/playdate-ext/services/playdate/extension"
	"github.com/AleutianAI/playdate-ext/services/playdate/host"
	"github.com/AleutianAI/playdate-ext/services/playdate/sdk"
)

// --- Global Command Variables ---
var (
	config Config
	logger *logging.Logger

	flagSDKPath  string // CLI override for sdk_path
	flagLogLevel string // CLI override for log_level

	rootCmd = &cobra.Command{
		Use:   "playdate-ext",
		Short: "Playdate toolchain integration for editors and CI",
		Long: `playdate-ext exposes the Playdate editor integrations on the
command line: SDK discovery, Lua language server installation,
debug adapter configuration, pdxinfo validation, and syntax checks.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			config, err = loadConfig()
			if err != nil {
				return err
			}
			if flagSDKPath != "" {
				config.SDKPath = flagSDKPath
			}
			if flagLogLevel != "" {
				config.LogLevel = flagLogLevel
			}

			logger = logging.New(logging.Config{
				Level:   parseLevel(config.LogLevel),
				Service: "cli",
				JSON:    config.LogJSON,
			})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Close()
			}
		},
	}

	// --- SDK ---
	sdkCmd = &cobra.Command{
		Use:   "sdk",
		Short: "Print the detected Playdate SDK path, simulator, and pdc version",
		RunE:  runSDK, // Defined in cmd_sdk.go
	}

	// --- Language Server ---
	lspCmd = &cobra.Command{
		Use:   "lsp",
		Short: "Manage the Lua language server",
	}
	lspInstallCmd = &cobra.Command{
		Use:   "install",
		Short: "Install the Lua language server for this platform",
		RunE:  runLSPInstall, // Defined in cmd_lsp.go
	}
	lspCommandCmd = &cobra.Command{
		Use:   "command",
		Short: "Print the resolved language server command as JSON",
		RunE:  runLSPCommand, // Defined in cmd_lsp.go
	}

	// --- Debug Adapter ---
	dapCmd = &cobra.Command{
		Use:   "dap",
		Short: "Work with Playdate debug adapter configurations",
	}
	dapResolveCmd = &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a debug configuration into an adapter descriptor",
		RunE:  runDAPResolve, // Defined in cmd_dap.go
	}

	// --- Manifest ---
	manifestCmd = &cobra.Command{
		Use:   "manifest",
		Short: "Work with pdxinfo manifests",
	}
	manifestCheckCmd = &cobra.Command{
		Use:   "check [pdxinfo]",
		Short: "Parse and validate a pdxinfo manifest",
		Args:  cobra.ExactArgs(1),
		RunE:  runManifestCheck, // Defined in cmd_manifest.go
	}

	// --- Syntax ---
	syntaxCmd = &cobra.Command{
		Use:   "syntax",
		Short: "Tree-sitter syntax checks",
	}
	syntaxCheckCmd = &cobra.Command{
		Use:   "check [file...]",
		Short: "Report syntax errors in Lua source files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSyntaxCheck, // Defined in cmd_syntax.go
	}

	// --- Watch ---
	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Watch the built .pdx bundle and log rebuilds",
		RunE:  runWatch, // Defined in cmd_watch.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSDKPath, "sdk", "",
		"Playdate SDK path (overrides PLAYDATE_SDK_PATH and config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "",
		"Log level: debug, info, warn, error")

	lspCmd.AddCommand(lspInstallCmd, lspCommandCmd)
	dapCmd.AddCommand(dapResolveCmd)
	manifestCmd.AddCommand(manifestCheckCmd)
	syntaxCmd.AddCommand(syntaxCheckCmd)

	rootCmd.AddCommand(sdkCmd, lspCmd, dapCmd, manifestCmd, syntaxCmd, watchCmd)
}

// parseLevel maps a config string to a logging level, defaulting to info.
func parseLevel(level string) logging.Level {
	switch level {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

// newWorktree builds a worktree rooted at the working directory. A
// configured SDK path is exposed as PLAYDATE_SDK_PATH so discovery picks
// it up without special-casing.
func newWorktree() (*host.LocalWorktree, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	worktree := &host.LocalWorktree{Root: cwd}
	if config.SDKPath != "" {
		env := worktree.ShellEnv()
		env[sdk.EnvSDKPath] = config.SDKPath
		worktree.Env = env
	}
	return worktree, nil
}

// newExtension builds the extension facade with the CLI's work directory.
func newExtension() (*extension.Extension, error) {
	workDir, err := config.workDir()
	if err != nil {
		return nil, err
	}
	return extension.New(workDir, extension.WithLogger(logger)), nil
}
