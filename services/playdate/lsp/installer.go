// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package lsp discovers and installs the Lua language server the Playdate
// extension registers with the host editor.
//
// No Language Server Protocol machinery lives here: the host editor owns
// the protocol. This package answers "which binary should the host run"
// (PATH lookup, then a cached install, then a GitHub release download) and
// supplies the lua-language-server settings JSON tuned for the Playdate SDK.
package lsp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"

	"github.com/AleutianAI/playdate-ext/pkg/logging"
	"github.com/AleutianAI/playdate-ext/pkg/validation"
	"github.com/AleutianAI/playdate-ext/services/playdate/host"
	"github.com/AleutianAI/playdate-ext/services/playdate/sdk"
)

const (
	// ServerID is the language server identifier this extension serves.
	ServerID = "playdate-lua-language-server"

	// ServerBinaryName is the executable resolved on PATH before any
	// download is attempted.
	ServerBinaryName = "lua-language-server"

	// serverRepo is the GitHub repository releases are installed from.
	serverRepo = "LuaLS/lua-language-server"

	// serverDirPrefix prefixes versioned install directories.
	serverDirPrefix = "lua-language-server-"
)

// Installer resolves and installs the Lua language server.
//
// Description:
//
//	Resolution order mirrors what users expect from editor extensions:
//	a binary already on PATH always wins, then a previously installed
//	version, then the latest GitHub release for this platform. Installs
//	land in versioned directories under the work directory; stale
//	versions are removed after a successful install.
//
// Thread Safety:
//
//	Installer is safe for concurrent use. The path caches are guarded by
//	a mutex; concurrent first-time installs are serialized.
type Installer struct {
	workDir    string
	platform   host.Platform
	releases   *ReleaseClient
	downloader *Downloader
	locator    *sdk.Locator
	status     host.StatusReporter
	logger     *logging.Logger

	// luacatsBaseURL is overridable for tests.
	luacatsBaseURL string

	mu                sync.Mutex
	cachedBinaryPath  string
	cachedLuacatsPath string
}

// InstallerOption configures an Installer.
type InstallerOption func(*Installer)

// WithReleaseClient overrides the GitHub release client.
func WithReleaseClient(client *ReleaseClient) InstallerOption {
	return func(i *Installer) {
		if client != nil {
			i.releases = client
		}
	}
}

// WithDownloader overrides the archive downloader.
func WithDownloader(d *Downloader) InstallerOption {
	return func(i *Installer) {
		if d != nil {
			i.downloader = d
		}
	}
}

// WithLocator overrides the SDK locator.
func WithLocator(l *sdk.Locator) InstallerOption {
	return func(i *Installer) {
		if l != nil {
			i.locator = l
		}
	}
}

// WithStatusReporter wires the host's installation status UI.
func WithStatusReporter(r host.StatusReporter) InstallerOption {
	return func(i *Installer) {
		if r != nil {
			i.status = r
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *logging.Logger) InstallerOption {
	return func(i *Installer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithPlatform overrides the platform assets are selected for.
func WithPlatform(p host.Platform) InstallerOption {
	return func(i *Installer) {
		i.platform = p
	}
}

// WithLuacatsBaseURL overrides the luacats tarball host (tests).
func WithLuacatsBaseURL(url string) InstallerOption {
	return func(i *Installer) {
		i.luacatsBaseURL = url
	}
}

// NewInstaller creates an Installer rooted at workDir.
//
// Inputs:
//   - workDir: Directory owned by the extension where installs land
//   - opts: Optional configuration
//
// Outputs:
//   - *Installer: Configured installer, never nil
func NewInstaller(workDir string, opts ...InstallerOption) *Installer {
	i := &Installer{
		workDir:        workDir,
		platform:       host.CurrentPlatform(),
		releases:       NewReleaseClient(),
		locator:        sdk.NewLocator(),
		status:         host.NopStatusReporter{},
		logger:         logging.Default(),
		luacatsBaseURL: "https://github.com",
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.downloader == nil {
		i.downloader = NewDownloader(nil, i.logger)
	}
	return i
}

// BinaryPath resolves the language server executable.
//
// Resolution order:
//
//  1. lua-language-server on the worktree PATH
//  2. The cached install from a previous call
//  3. Download of the latest GitHub release for this platform
//
// Inputs:
//   - ctx: Cancellation context
//   - worktree: Worktree whose PATH is consulted first
//
// Outputs:
//   - string: Executable path
//   - error: ErrUnsupportedPlatform, ErrAssetNotFound, lookup or
//     download failures
func (i *Installer) BinaryPath(ctx context.Context, worktree host.Worktree) (string, error) {
	if path, ok := worktree.Which(ServerBinaryName); ok {
		i.logger.Debug("language server found on PATH", "path", path)
		return path, nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.cachedBinaryPath != "" {
		if _, err := os.Stat(i.cachedBinaryPath); err == nil {
			return i.cachedBinaryPath, nil
		}
		i.cachedBinaryPath = ""
	}

	path, err := i.installServer(ctx)
	if err != nil {
		i.status.ReportInstallStatus(ServerID, host.InstallStatusFailed)
		return "", err
	}

	i.cachedBinaryPath = path
	i.status.ReportInstallStatus(ServerID, host.InstallStatusNone)
	return path, nil
}

// installServer downloads the latest release and returns the binary path.
// Caller holds i.mu.
func (i *Installer) installServer(ctx context.Context) (string, error) {
	opLogger := i.logger.With("operation_id", uuid.NewString(), "server_id", ServerID)

	i.status.ReportInstallStatus(ServerID, host.InstallStatusCheckingForUpdate)
	ctx, span := startInstallSpan(ctx, ServerID)
	defer span.End()

	release, err := i.releases.LatestRelease(ctx, serverRepo)
	if err != nil {
		recordInstall(ctx, false)
		return "", err
	}

	// The tag is embedded in directory names and the asset filename
	version, err := validation.SanitizeVersion(release.TagName)
	if err != nil {
		recordInstall(ctx, false)
		return "", fmt.Errorf("unexpected release tag %q: %w", release.TagName, err)
	}
	opLogger.Info("latest release resolved", "version", version)

	assetName, err := i.assetName(version)
	if err != nil {
		recordInstall(ctx, false)
		return "", err
	}

	var asset *ReleaseAsset
	for idx := range release.Assets {
		if release.Assets[idx].Name == assetName {
			asset = &release.Assets[idx]
			break
		}
	}
	if asset == nil {
		recordInstall(ctx, false)
		return "", fmt.Errorf("%w: %q", ErrAssetNotFound, assetName)
	}

	versionDir := filepath.Join(i.workDir, serverDirPrefix+version)
	binaryPath := filepath.Join(versionDir, "bin", ServerBinaryName+i.executableSuffix())

	// A prior install of the same version is reused as-is
	if _, err := os.Stat(binaryPath); err == nil {
		opLogger.Debug("release already installed", "path", binaryPath)
		recordInstall(ctx, true)
		return binaryPath, nil
	}

	i.status.ReportInstallStatus(ServerID, host.InstallStatusDownloading)
	format := FormatGzipTar
	if i.platform.OS == host.OSWindows {
		format = FormatZip
	}
	if err := i.downloader.DownloadAndExtract(ctx, asset.DownloadURL, versionDir, format); err != nil {
		recordInstall(ctx, false)
		return "", fmt.Errorf("failed to download file: %w", err)
	}

	if _, err := os.Stat(binaryPath); err != nil {
		recordInstall(ctx, false)
		return "", fmt.Errorf("release %s extracted but binary missing at %s", version, binaryPath)
	}

	i.cleanupStaleVersions(version, opLogger)
	opLogger.Info("language server installed", "path", binaryPath)
	recordInstall(ctx, true)
	return binaryPath, nil
}

// assetName builds the release asset filename for this platform.
//
// LuaLS publishes assets as
// lua-language-server-{version}-{os}-{arch}.{tar.gz|zip} with os one of
// darwin/linux/win32 and arch one of arm64/x64.
func (i *Installer) assetName(version string) (string, error) {
	var osName, extension string
	switch i.platform.OS {
	case host.OSMac:
		osName, extension = "darwin", "tar.gz"
	case host.OSWindows:
		osName, extension = "win32", "zip"
	default:
		osName, extension = "linux", "tar.gz"
	}

	var archName string
	switch i.platform.Arch {
	case host.ArchAarch64:
		archName = "arm64"
	case host.ArchX8664:
		archName = "x64"
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, i.platform.Arch)
	}

	return fmt.Sprintf("lua-language-server-%s-%s-%s.%s", version, osName, archName, extension), nil
}

// executableSuffix returns ".exe" on Windows, "" elsewhere.
func (i *Installer) executableSuffix() string {
	if i.platform.OS == host.OSWindows {
		return ".exe"
	}
	return ""
}

// cleanupStaleVersions removes older versioned install directories.
// Unrecognized directory names are left alone.
func (i *Installer) cleanupStaleVersions(current string, logger *logging.Logger) {
	entries, err := os.ReadDir(i.workDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), serverDirPrefix) {
			continue
		}
		version := strings.TrimPrefix(entry.Name(), serverDirPrefix)
		if version == current || !semver.IsValid("v"+version) {
			continue
		}
		if semver.Compare("v"+version, "v"+current) >= 0 {
			continue
		}
		stale := filepath.Join(i.workDir, entry.Name())
		if err := os.RemoveAll(stale); err != nil {
			logger.Warn("failed to remove stale version", "path", stale, "error", err)
			continue
		}
		logger.Info("removed stale version", "version", version)
	}
}

// Command builds the host command for a resolved server binary.
func Command(binaryPath string) host.Command {
	return host.Command{Command: binaryPath}
}
