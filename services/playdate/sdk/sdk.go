// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package sdk locates the Playdate SDK, the Simulator binary, and the pdc
// compiler on the user's machine.
//
// Resolution order for the SDK root:
//
//  1. PLAYDATE_SDK_PATH from the worktree shell environment. Host-side
//     extension settings are exposed as environment variables, so this
//     also covers per-project configuration.
//  2. The platform's standard install location under the home directory.
//
// Thread Safety:
//
//	Locator is safe for concurrent use; it holds no mutable state.
package sdk

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/AleutianAI/playdate-ext/pkg/validation"
	"github.com/AleutianAI/playdate-ext/services/playdate/host"
)

// EnvSDKPath is the environment variable naming the SDK root.
const EnvSDKPath = "PLAYDATE_SDK_PATH"

// compilerTimeout bounds the `pdc --version` subprocess.
const compilerTimeout = 10 * time.Second

// RunCommand executes a binary and returns its combined stdout.
// Injectable for tests; the default uses os/exec.
type RunCommand func(ctx context.Context, name string, args ...string) ([]byte, error)

// defaultRunCommand runs the binary via exec.CommandContext.
func defaultRunCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// LocatorOption configures a Locator.
type LocatorOption func(*Locator)

// WithPlatform overrides the platform the Locator resolves paths for.
func WithPlatform(p host.Platform) LocatorOption {
	return func(l *Locator) {
		l.platform = p
	}
}

// WithRunCommand overrides subprocess execution (tests).
func WithRunCommand(run RunCommand) LocatorOption {
	return func(l *Locator) {
		if run != nil {
			l.run = run
		}
	}
}

// Locator resolves Playdate toolchain paths for a worktree.
//
// Description:
//
//	A Locator is platform-scoped: it answers for the platform it was
//	constructed with (the running host by default), which keeps path
//	resolution testable on any GOOS.
type Locator struct {
	platform host.Platform
	run      RunCommand
}

// NewLocator creates a Locator for the current platform.
//
// Inputs:
//   - opts: Optional configuration (WithPlatform, WithRunCommand)
//
// Outputs:
//   - *Locator: Configured locator, never nil
func NewLocator(opts ...LocatorOption) *Locator {
	l := &Locator{
		platform: host.CurrentPlatform(),
		run:      defaultRunCommand,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Platform returns the platform this Locator resolves for.
func (l *Locator) Platform() host.Platform {
	return l.platform
}

// DetectPath resolves the Playdate SDK root for a worktree.
//
// Resolution order: PLAYDATE_SDK_PATH from the shell env, then the
// platform default under the home directory:
//
//	mac:     ~/Developer/PlaydateSDK
//	linux:   ~/.local/share/playdate-sdk
//	windows: ~\Documents\PlaydateSDK
//
// Outputs:
//   - string: SDK root path (not checked for existence; the host surfaces
//     missing-SDK failures when it launches the simulator)
//   - error: ErrNoHome when no env var and no home directory exist
func (l *Locator) DetectPath(worktree host.Worktree) (string, error) {
	env := worktree.ShellEnv()

	if path := env[EnvSDKPath]; path != "" {
		return path, nil
	}

	home := env["HOME"]
	if home == "" {
		home = env["USERPROFILE"]
	}
	if home == "" {
		return "", ErrNoHome
	}

	switch l.platform.OS {
	case host.OSMac:
		return filepath.Join(home, "Developer", "PlaydateSDK"), nil
	case host.OSWindows:
		return filepath.Join(home, "Documents", "PlaydateSDK"), nil
	default:
		return filepath.Join(home, ".local", "share", "playdate-sdk"), nil
	}
}

// SimulatorPath resolves the Playdate Simulator executable under the SDK.
//
// Outputs:
//   - string: Simulator executable path for this Locator's platform
//   - error: Propagated from DetectPath
func (l *Locator) SimulatorPath(worktree host.Worktree) (string, error) {
	sdkPath, err := l.DetectPath(worktree)
	if err != nil {
		return "", err
	}

	switch l.platform.OS {
	case host.OSMac:
		return filepath.Join(sdkPath, "bin", "Playdate Simulator.app", "Contents", "MacOS", "Playdate Simulator"), nil
	case host.OSWindows:
		return filepath.Join(sdkPath, "bin", "PlaydateSimulator.exe"), nil
	default:
		return filepath.Join(sdkPath, "bin", "PlaydateSimulator"), nil
	}
}

// CompilerVersion reports the SDK version by running `pdc --version`.
//
// The pdc binary is resolved through the worktree so host-side PATH
// customization applies. Output is sanitized before use: the version is
// later embedded in download URLs and directory names.
//
// Inputs:
//   - ctx: Cancellation context; a 10s timeout is applied on top
//   - worktree: Worktree whose PATH resolves pdc
//
// Outputs:
//   - string: Dotted version like "2.5.0"
//   - error: ErrPdcNotFound, subprocess failure, or malformed output
func (l *Locator) CompilerVersion(ctx context.Context, worktree host.Worktree) (string, error) {
	pdcPath, ok := worktree.Which("pdc")
	if !ok {
		return "", ErrPdcNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, compilerTimeout)
	defer cancel()

	out, err := l.run(ctx, pdcPath, "--version")
	if err != nil {
		return "", fmt.Errorf("failed to run pdc --version: %w", err)
	}

	version, err := validation.SanitizeVersion(string(out))
	if err != nil {
		return "", fmt.Errorf("unexpected pdc --version output: %w", err)
	}

	return version, nil
}

// CoreLibsPath returns the CoreLibs directory under an SDK root.
// The Lua language server adds this to its workspace library.
func CoreLibsPath(sdkPath string) string {
	return filepath.Join(sdkPath, "CoreLibs")
}
