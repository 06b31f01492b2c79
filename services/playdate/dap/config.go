// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package dap builds the debug-adapter launch descriptor for the Playdate
// Simulator.
//
// This is configuration plumbing, not a Debug Adapter Protocol
// implementation: the simulator speaks DAP over TCP and the host editor
// owns the protocol machinery. The extension's job is to say which binary
// to start, with which arguments, and where to connect.
package dap

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AdapterName is the debug adapter this extension serves.
const AdapterName = "Playdate"

// Simulator debug-server connection defaults.
const (
	// DefaultHost is the simulator's debug listener address.
	DefaultHost = "127.0.0.1"

	// DefaultPort is the simulator's debug listener port.
	DefaultPort = 55934

	// DefaultTimeoutMS is the connection timeout in milliseconds.
	DefaultTimeoutMS = 5000
)

// Worktree path placeholders expanded in config values.
const (
	// RootPlaceholder is the host-neutral worktree-root variable.
	RootPlaceholder = "$WORKTREE_ROOT"

	// legacyRootPlaceholder is accepted for configs written for Zed.
	legacyRootPlaceholder = "$ZED_WORKTREE_ROOT"
)

// Config defaults applied when the debug configuration omits a field.
const (
	// DefaultGamePath is the built PDX bundle location.
	DefaultGamePath = RootPlaceholder + "/builds/Game.pdx"

	// DefaultSourcePath is the Lua source directory.
	DefaultSourcePath = RootPlaceholder + "/source"
)

// configValidate validates debug configurations.
var configValidate = validator.New()

// =============================================================================
// REQUEST KIND
// =============================================================================

// RequestKind distinguishes launch from attach debug sessions.
type RequestKind int

const (
	// RequestLaunch starts the simulator with the game loaded.
	RequestLaunch RequestKind = iota

	// RequestAttach connects to an already-running simulator.
	RequestAttach
)

// String returns the wire spelling of the request kind.
func (k RequestKind) String() string {
	if k == RequestAttach {
		return "attach"
	}
	return "launch"
}

// ParseRequestKind maps a config `request` value to a RequestKind.
//
// Outputs:
//   - RequestKind: Launch or attach
//   - error: ErrInvalidRequest (wrapped with the offending value)
func ParseRequestKind(request string) (RequestKind, error) {
	switch request {
	case "launch":
		return RequestLaunch, nil
	case "attach":
		return RequestAttach, nil
	default:
		return 0, fmt.Errorf("%w: got %q", ErrInvalidRequest, request)
	}
}

// =============================================================================
// CONFIG
// =============================================================================

// Config is the user-authored Playdate debug configuration.
//
// Empty fields take defaults during Normalize. The shape matches what the
// host editor passes through from the user's debug task JSON.
type Config struct {
	// Request is "launch" or "attach".
	Request string `json:"request" validate:"required,oneof=launch attach"`

	// GamePath is the built PDX bundle. Default: $WORKTREE_ROOT/builds/Game.pdx
	GamePath string `json:"gamePath,omitempty"`

	// SourcePath is the Lua source directory. Default: $WORKTREE_ROOT/source
	SourcePath string `json:"sourcePath,omitempty"`

	// SDKPath is the Playdate SDK root. Default: SDK discovery.
	SDKPath string `json:"sdkPath,omitempty"`
}

// ParseConfig decodes and validates a raw debug configuration.
//
// Inputs:
//   - raw: JSON object from the host's debug task definition
//
// Outputs:
//   - *Config: Decoded config (defaults NOT yet applied; see Normalize)
//   - error: Decode or validation failure
func ParseConfig(raw json.RawMessage) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse debug configuration: %w", err)
	}
	if err := configValidate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid debug configuration: %w", err)
	}
	return &cfg, nil
}

// Normalize fills defaults and expands worktree-root placeholders in place.
//
// Inputs:
//   - rootPath: The worktree root substituted for $WORKTREE_ROOT (and the
//     legacy $ZED_WORKTREE_ROOT spelling)
//   - sdkPath: Fallback SDK root used when the config omits sdkPath
func (c *Config) Normalize(rootPath, sdkPath string) {
	if c.GamePath == "" {
		c.GamePath = DefaultGamePath
	}
	if c.SourcePath == "" {
		c.SourcePath = DefaultSourcePath
	}
	if c.SDKPath == "" {
		c.SDKPath = sdkPath
	}

	c.GamePath = expandRoot(c.GamePath, rootPath)
	c.SourcePath = expandRoot(c.SourcePath, rootPath)
	c.SDKPath = expandRoot(c.SDKPath, rootPath)
}

// RequestKind returns the parsed request kind.
func (c *Config) RequestKind() (RequestKind, error) {
	return ParseRequestKind(c.Request)
}

// expandRoot substitutes worktree-root placeholders.
func expandRoot(path, rootPath string) string {
	path = strings.ReplaceAll(path, legacyRootPlaceholder, rootPath)
	return strings.ReplaceAll(path, RootPlaceholder, rootPath)
}
