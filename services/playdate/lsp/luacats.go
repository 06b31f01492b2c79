// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lsp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/AleutianAI/playdate-ext/services/playdate/host"
)

const (
	// luacatsRepo publishes LuaCATS type stubs for the Playdate SDK.
	luacatsRepo = "notpeter/playdate-luacats"

	// luacatsSuffix is the stub release suffix appended to SDK versions:
	// SDK 2.5.0 pairs with tag v2.5.0-luacats1.
	luacatsSuffix = "luacats1"
)

// LuacatsLibraryPath resolves the playdate-luacats stub library for the
// SDK version the worktree's pdc reports.
//
// The stubs are published as GitHub source tarballs tagged
// v{sdkVersion}-{luacatsSuffix}; the tarball's root directory is
// playdate-luacats-{sdkVersion}-{luacatsSuffix}, and its library/
// subdirectory is what lua-language-server consumes. The download is
// skipped when that directory already exists, and the resolved path is
// cached per Installer.
//
// Inputs:
//   - ctx: Cancellation context
//   - worktree: Worktree whose PATH resolves pdc
//
// Outputs:
//   - string: Absolute path of the stub library directory
//   - error: pdc lookup/version failure or download failure
func (i *Installer) LuacatsLibraryPath(ctx context.Context, worktree host.Worktree) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.cachedLuacatsPath != "" {
		return i.cachedLuacatsPath, nil
	}

	sdkVersion, err := i.locator.CompilerVersion(ctx, worktree)
	if err != nil {
		return "", err
	}

	opLogger := i.logger.With("operation_id", uuid.NewString(), "sdk_version", sdkVersion)

	tag := fmt.Sprintf("v%s-%s", sdkVersion, luacatsSuffix)
	versionDir := fmt.Sprintf("playdate-luacats-%s-%s", sdkVersion, luacatsSuffix)
	targetDir := filepath.Join(i.workDir, versionDir)

	if _, err := os.Stat(targetDir); err != nil {
		tarballURL := fmt.Sprintf("%s/%s/archive/refs/tags/%s.tar.gz", i.luacatsBaseURL, luacatsRepo, tag)
		if err := i.downloader.DownloadAndExtract(ctx, tarballURL, i.workDir, FormatGzipTar); err != nil {
			return "", fmt.Errorf("failed to download playdate-luacats tag %s: %w", tag, err)
		}
		opLogger.Info("luacats stubs installed", "tag", tag)
	} else {
		opLogger.Debug("luacats stubs already present", "dir", targetDir)
	}

	libraryPath, err := filepath.Abs(filepath.Join(targetDir, "library"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve luacats library path: %w", err)
	}

	i.cachedLuacatsPath = libraryPath
	return libraryPath, nil
}
