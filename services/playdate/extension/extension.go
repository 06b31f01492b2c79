// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package extension is the host-facing surface of the Playdate extension.
//
// The Extension type answers every question the host editor asks: which
// language server command to run, what settings to send it, how to render
// completion and symbol labels, and how to start the Playdate debug
// adapter. It owns no protocol machinery; it composes the sdk, lsp, and
// dap packages into one facade the host calls.
//
// Thread Safety:
//
//	Extension is safe for concurrent use. Its own fields are immutable
//	after construction and the composed installer guards its caches.
package extension

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AleutianAI/playdate-ext/pkg/logging"
	"github.com/AleutianAI/playdate-ext/services/playdate/dap"
	"github.com/AleutianAI/playdate-ext/services/playdate/host"
	"github.com/AleutianAI/playdate-ext/services/playdate/lsp"
	"github.com/AleutianAI/playdate-ext/services/playdate/sdk"
)

// Extension composes the Playdate toolchain integrations behind the host
// plugin contract.
type Extension struct {
	installer *lsp.Installer
	locator   *sdk.Locator
	resolver  *dap.Resolver
	logger    *logging.Logger
}

// Option configures an Extension.
type Option func(*Extension)

// WithInstaller overrides the language-server installer.
func WithInstaller(installer *lsp.Installer) Option {
	return func(e *Extension) {
		if installer != nil {
			e.installer = installer
		}
	}
}

// WithLocator overrides the SDK locator.
func WithLocator(locator *sdk.Locator) Option {
	return func(e *Extension) {
		if locator != nil {
			e.locator = locator
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Extension) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Extension whose downloads land under workDir.
//
// Inputs:
//   - workDir: Directory owned by the extension for server and stub installs
//   - opts: Optional configuration
//
// Outputs:
//   - *Extension: Configured extension, never nil
func New(workDir string, opts ...Option) *Extension {
	e := &Extension{
		locator: sdk.NewLocator(),
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.installer == nil {
		e.installer = lsp.NewInstaller(workDir,
			lsp.WithLocator(e.locator),
			lsp.WithLogger(e.logger),
		)
	}
	e.resolver = dap.NewResolver(e.locator, e.logger)
	return e
}

// =============================================================================
// LANGUAGE SERVER
// =============================================================================

// LanguageServerCommand resolves the command the host should run for a
// language server.
//
// Only ServerID playdate-lua-language-server is served. Resolution falls
// through PATH, the cached install, then a GitHub release download.
//
// Inputs:
//   - ctx: Cancellation context
//   - serverID: Host language server identifier
//   - worktree: Worktree whose PATH is consulted
//
// Outputs:
//   - host.Command: The executable descriptor
//   - error: lsp.ErrUnsupportedServer for unknown IDs, else install failures
func (e *Extension) LanguageServerCommand(ctx context.Context, serverID string, worktree host.Worktree) (host.Command, error) {
	if serverID != lsp.ServerID {
		return host.Command{}, fmt.Errorf("%w: %q", lsp.ErrUnsupportedServer, serverID)
	}

	binaryPath, err := e.installer.BinaryPath(ctx, worktree)
	if err != nil {
		return host.Command{}, err
	}
	return lsp.Command(binaryPath), nil
}

// InitializationOptions returns the settings sent with the LSP initialize
// request. Unknown server IDs get nil options with no error, matching the
// host contract for servers the extension does not configure.
func (e *Extension) InitializationOptions(serverID string, worktree host.Worktree) (map[string]any, error) {
	if serverID != lsp.ServerID {
		return nil, nil
	}
	return lsp.InitializationOptions(), nil
}

// WorkspaceConfiguration returns the settings re-sent once library paths
// are resolvable: the SDK's CoreLibs directory when the SDK is found, and
// the playdate-luacats stub library for the installed pdc version.
//
// Inputs:
//   - ctx: Cancellation context
//   - serverID: Host language server identifier
//   - worktree: Worktree for SDK discovery and pdc lookup
//
// Outputs:
//   - map[string]any: Settings payload; nil for unknown server IDs
//   - error: Stub download failure. A missing SDK is not an error, its
//     library path is just omitted.
func (e *Extension) WorkspaceConfiguration(ctx context.Context, serverID string, worktree host.Worktree) (map[string]any, error) {
	if serverID != lsp.ServerID {
		return nil, nil
	}

	var libraryPaths []string
	if sdkPath, err := e.locator.DetectPath(worktree); err == nil {
		libraryPaths = append(libraryPaths, sdk.CoreLibsPath(sdkPath))
	} else {
		e.logger.Debug("SDK not found, omitting CoreLibs from library paths", "error", err)
	}

	luacatsPath, err := e.installer.LuacatsLibraryPath(ctx, worktree)
	if err != nil {
		return nil, err
	}
	libraryPaths = append(libraryPaths, luacatsPath)

	return lsp.WorkspaceConfiguration(libraryPaths), nil
}

// =============================================================================
// DEBUG ADAPTER
// =============================================================================

// DebugAdapterBinary builds the adapter descriptor for a debug task.
// Only the Playdate adapter is served.
func (e *Extension) DebugAdapterBinary(ctx context.Context, adapterName string, task dap.TaskDefinition, worktree host.Worktree) (*dap.AdapterBinary, error) {
	return e.resolver.Resolve(ctx, adapterName, task, worktree)
}

// DebugRequestKind reports whether a raw adapter config launches or
// attaches, without resolving any paths.
func (e *Extension) DebugRequestKind(adapterName string, raw json.RawMessage) (dap.RequestKind, error) {
	return e.resolver.RequestKindFor(adapterName, raw)
}
