// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dap

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AleutianAI/playdate-ext/pkg/logging"
	"github.com/AleutianAI/playdate-ext/services/playdate/host"
	"github.com/AleutianAI/playdate-ext/services/playdate/sdk"
)

// =============================================================================
// HOST-FACING TYPES
// =============================================================================

// TCPArguments tells the host where the adapter's debug server listens.
type TCPArguments struct {
	// Host is the listener address.
	Host string `json:"host"`

	// Port is the listener port.
	Port int `json:"port"`

	// TimeoutMS is the connection timeout in milliseconds.
	TimeoutMS int `json:"timeout,omitempty"`
}

// TaskDefinition is the host's debug task handed to the extension.
type TaskDefinition struct {
	// Label is the user-visible task name.
	Label string `json:"label,omitempty"`

	// Config is the raw adapter configuration JSON.
	Config json.RawMessage `json:"config"`

	// TCPConnection optionally overrides connection parameters per-field.
	TCPConnection *TCPArguments `json:"tcp_connection,omitempty"`
}

// StartRequest carries the arguments the host sends in the DAP
// startDebugging request.
type StartRequest struct {
	// Configuration is the final adapter configuration, serialized.
	Configuration string `json:"configuration"`

	// Request is "launch" or "attach".
	Request string `json:"request"`
}

// AdapterBinary is the resolved debug-adapter descriptor returned to the
// host: what to start (for launch), and where to connect.
type AdapterBinary struct {
	// Command is the executable to start, empty for attach.
	Command string `json:"command,omitempty"`

	// Arguments are the command arguments.
	Arguments []string `json:"arguments,omitempty"`

	// Env is extra environment for the command.
	Env map[string]string `json:"envs,omitempty"`

	// CWD is the working directory, empty for the host default.
	CWD string `json:"cwd,omitempty"`

	// Connection is where the simulator's debug server listens.
	Connection *TCPArguments `json:"connection"`

	// RequestArgs are the start-request arguments.
	RequestArgs StartRequest `json:"request_args"`
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver turns debug task definitions into adapter descriptors.
//
// Description:
//
//	Resolver owns the glue between the host's debug UI and the Playdate
//	Simulator: config parsing, default substitution, simulator path
//	resolution, and connection parameters. It performs no protocol work.
//
// Thread Safety:
//
//	Resolver is safe for concurrent use; it holds no mutable state.
type Resolver struct {
	locator *sdk.Locator
	logger  *logging.Logger
}

// NewResolver creates a Resolver.
//
// Inputs:
//   - locator: SDK locator; must be non-nil
//   - logger: Logger; nil falls back to the package default
//
// Outputs:
//   - *Resolver: Configured resolver, never nil
func NewResolver(locator *sdk.Locator, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{locator: locator, logger: logger}
}

// Resolve builds the adapter descriptor for a debug task.
//
// Launch tasks get the simulator as the command with the PDX bundle as its
// argument; attach tasks get no command. Either way the host connects to
// the simulator's TCP debug server.
//
// Inputs:
//   - ctx: Cancellation context (spans/metrics only; resolution is local)
//   - adapterName: Must be AdapterName
//   - task: The host's debug task definition
//   - worktree: Worktree for root path and SDK discovery
//
// Outputs:
//   - *AdapterBinary: Descriptor for the host; nil on error
//   - error: ErrUnsupportedAdapter, config errors, or SDK discovery failure
func (r *Resolver) Resolve(ctx context.Context, adapterName string, task TaskDefinition, worktree host.Worktree) (*AdapterBinary, error) {
	ctx, span := startResolveSpan(ctx, adapterName)
	defer span.End()

	binary, err := r.resolve(ctx, adapterName, task, worktree)
	recordResolve(ctx, adapterName, err == nil)
	if err != nil {
		return nil, err
	}
	return binary, nil
}

// resolve is the un-instrumented body of Resolve.
func (r *Resolver) resolve(ctx context.Context, adapterName string, task TaskDefinition, worktree host.Worktree) (*AdapterBinary, error) {
	if adapterName != AdapterName {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAdapter, adapterName)
	}

	cfg, err := ParseConfig(task.Config)
	if err != nil {
		return nil, err
	}

	sdkPath := cfg.SDKPath
	if sdkPath == "" {
		sdkPath, err = r.locator.DetectPath(worktree)
		if err != nil {
			return nil, err
		}
	}
	cfg.Normalize(worktree.RootPath(), sdkPath)

	kind, err := cfg.RequestKind()
	if err != nil {
		return nil, err
	}

	connection := &TCPArguments{
		Host:      DefaultHost,
		Port:      DefaultPort,
		TimeoutMS: DefaultTimeoutMS,
	}
	if task.TCPConnection != nil {
		if task.TCPConnection.Host != "" {
			connection.Host = task.TCPConnection.Host
		}
		if task.TCPConnection.Port != 0 {
			connection.Port = task.TCPConnection.Port
		}
		if task.TCPConnection.TimeoutMS != 0 {
			connection.TimeoutMS = task.TCPConnection.TimeoutMS
		}
	}

	binary := &AdapterBinary{Connection: connection}

	if kind == RequestLaunch {
		simulatorPath, err := r.locator.SimulatorPath(worktree)
		if err != nil {
			return nil, err
		}
		if cfg.GamePath == "" {
			return nil, ErrMissingGamePath
		}
		binary.Command = simulatorPath
		binary.Arguments = []string{cfg.GamePath}

		r.logger.Info("resolved launch configuration",
			"simulator", simulatorPath,
			"game_path", cfg.GamePath,
			"port", connection.Port,
		)
	} else {
		r.logger.Info("resolved attach configuration", "port", connection.Port)
	}

	finalConfig, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize final config: %w", err)
	}
	binary.RequestArgs = StartRequest{
		Configuration: string(finalConfig),
		Request:       kind.String(),
	}

	return binary, nil
}

// RequestKindFor reports whether a raw adapter config launches or attaches.
//
// This is the host's cheap pre-flight question; it validates the adapter
// name and config shape but resolves no paths.
func (r *Resolver) RequestKindFor(adapterName string, raw json.RawMessage) (RequestKind, error) {
	if adapterName != AdapterName {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedAdapter, adapterName)
	}
	cfg, err := ParseConfig(raw)
	if err != nil {
		return 0, err
	}
	return cfg.RequestKind()
}
