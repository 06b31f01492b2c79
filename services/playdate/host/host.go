// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package host models the editor-facing plugin contract.
//
// The host editor drives every operation: it hands the extension a worktree,
// asks for a language-server command or a debug-adapter descriptor, and
// reports installation progress to the user. This package holds the types
// that cross that boundary, plus a local implementation of Worktree used by
// the CLI and tests.
//
// Thread Safety:
//
//	All types in this package are either immutable values or safe for
//	concurrent reads after construction.
package host

import (
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"
)

// =============================================================================
// PLATFORM
// =============================================================================

// OS identifies the host operating system as the editor reports it.
type OS int

const (
	// OSMac is macOS.
	OSMac OS = iota

	// OSLinux is Linux.
	OSLinux

	// OSWindows is Windows.
	OSWindows
)

// String returns a human-readable OS name.
func (o OS) String() string {
	names := []string{"mac", "linux", "windows"}
	if int(o) < len(names) {
		return names[o]
	}
	return "unknown"
}

// Arch identifies the host CPU architecture.
type Arch int

const (
	// ArchAarch64 is 64-bit ARM.
	ArchAarch64 Arch = iota

	// ArchX8664 is 64-bit x86.
	ArchX8664

	// ArchX86 is 32-bit x86 (unsupported by the Playdate toolchain).
	ArchX86
)

// String returns a human-readable architecture name.
func (a Arch) String() string {
	names := []string{"aarch64", "x86_64", "x86"}
	if int(a) < len(names) {
		return names[a]
	}
	return "unknown"
}

// Platform is the (OS, Arch) pair the extension was asked to serve.
type Platform struct {
	// OS is the operating system.
	OS OS

	// Arch is the CPU architecture.
	Arch Arch
}

// CurrentPlatform derives the Platform from the Go runtime.
//
// Outputs:
//
//	Platform - OS/Arch of the running process. Unknown GOOS values map
//	to Linux, unknown GOARCH values to ArchX86 so callers fail closed.
func CurrentPlatform() Platform {
	p := Platform{OS: OSLinux, Arch: ArchX86}

	switch runtime.GOOS {
	case "darwin":
		p.OS = OSMac
	case "windows":
		p.OS = OSWindows
	case "linux":
		p.OS = OSLinux
	}

	switch runtime.GOARCH {
	case "arm64":
		p.Arch = ArchAarch64
	case "amd64":
		p.Arch = ArchX8664
	}

	return p
}

// =============================================================================
// WORKTREE
// =============================================================================

// Worktree is the host's view of the project the user has open.
//
// The host editor implements this; LocalWorktree provides the same surface
// for the CLI, where the "worktree" is just the working directory.
type Worktree interface {
	// RootPath returns the absolute path of the worktree root.
	RootPath() string

	// Which resolves a binary name against the worktree's PATH.
	// Returns the resolved path and true, or "" and false.
	Which(binary string) (string, bool)

	// ShellEnv returns the user's shell environment as seen by the host.
	// Extension settings are exposed here as environment variables.
	ShellEnv() map[string]string
}

// LocalWorktree is a Worktree backed by the local filesystem and process
// environment. Used by the CLI and by tests with an overridden Env.
type LocalWorktree struct {
	// Root is the worktree root directory.
	Root string

	// Env overrides the process environment when non-nil.
	Env map[string]string

	// LookPath overrides binary resolution when non-nil (tests).
	LookPath func(string) (string, error)
}

// RootPath returns the worktree root directory.
func (w *LocalWorktree) RootPath() string {
	return w.Root
}

// Which resolves a binary using LookPath or exec.LookPath.
func (w *LocalWorktree) Which(binary string) (string, bool) {
	look := w.LookPath
	if look == nil {
		look = exec.LookPath
	}
	path, err := look(binary)
	if err != nil {
		return "", false
	}
	return path, true
}

// ShellEnv returns the configured Env, or the process environment.
func (w *LocalWorktree) ShellEnv() map[string]string {
	if w.Env != nil {
		return w.Env
	}
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// =============================================================================
// COMMANDS
// =============================================================================

// Command describes an executable the host should run on the extension's
// behalf, e.g. the language server process.
type Command struct {
	// Command is the executable path.
	Command string `json:"command"`

	// Args are the command-line arguments.
	Args []string `json:"args,omitempty"`

	// Env is additional environment for the process.
	Env map[string]string `json:"env,omitempty"`
}

// EnvSlice renders Env as sorted KEY=VALUE pairs for exec.Cmd.
func (c Command) EnvSlice() []string {
	if len(c.Env) == 0 {
		return nil
	}
	pairs := make([]string, 0, len(c.Env))
	for k, v := range c.Env {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return pairs
}

// =============================================================================
// INSTALL STATUS
// =============================================================================

// InstallStatus is a language-server installation phase the host surfaces
// to the user.
type InstallStatus int

const (
	// InstallStatusNone clears any visible status.
	InstallStatusNone InstallStatus = iota

	// InstallStatusCheckingForUpdate means a release lookup is in flight.
	InstallStatusCheckingForUpdate

	// InstallStatusDownloading means an asset download is in flight.
	InstallStatusDownloading

	// InstallStatusFailed means the installation failed.
	InstallStatusFailed
)

// String returns a human-readable status name.
func (s InstallStatus) String() string {
	names := []string{"none", "checking-for-update", "downloading", "failed"}
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// StatusReporter receives installation progress for a language server.
// The host editor implements this to drive its status UI; NopStatusReporter
// is used where no host is attached.
type StatusReporter interface {
	// ReportInstallStatus records the current phase for a server ID.
	ReportInstallStatus(serverID string, status InstallStatus)
}

// NopStatusReporter discards all status updates.
type NopStatusReporter struct{}

// ReportInstallStatus discards the update.
func (NopStatusReporter) ReportInstallStatus(string, InstallStatus) {}

var _ StatusReporter = NopStatusReporter{}
