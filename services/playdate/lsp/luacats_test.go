package lsp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/playdate-ext/pkg/logging"
	"github.com/AleutianAI/playdate-ext/services/playdate/host"
	"github.com/AleutianAI/playdate-ext/services/playdate/sdk"
)

// pdcWorktree resolves pdc on PATH and nothing else.
func pdcWorktree() *host.LocalWorktree {
	return &host.LocalWorktree{
		Root: "/work/game",
		Env:  map[string]string{},
		LookPath: func(name string) (string, error) {
			if name == "pdc" {
				return "/sdk/bin/pdc", nil
			}
			return "", errors.New("not found")
		},
	}
}

// fakePdcLocator reports the given SDK version from pdc --version.
func fakePdcLocator(version string) *sdk.Locator {
	return sdk.NewLocator(sdk.WithRunCommand(
		func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte(version + "\n"), nil
		},
	))
}

// newLuacatsServer serves the stub tarball for the given tag and counts
// downloads.
func newLuacatsServer(t *testing.T, tag string, archive []byte) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var downloads atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/notpeter/playdate-luacats/archive/refs/tags/"+tag+".tar.gz",
		func(w http.ResponseWriter, r *http.Request) {
			downloads.Add(1)
			_, _ = w.Write(archive)
		})
	return httptest.NewServer(mux), &downloads
}

func TestLuacatsLibraryPath_DownloadsStubs(t *testing.T) {
	archive := buildTarGz(t, []tarEntry{
		{name: "playdate-luacats-2.5.0-luacats1", dir: true},
		{name: "playdate-luacats-2.5.0-luacats1/library", dir: true},
		{name: "playdate-luacats-2.5.0-luacats1/library/playdate.lua", body: "---@meta\n"},
	})
	server, downloads := newLuacatsServer(t, "v2.5.0-luacats1", archive)
	defer server.Close()

	workDir := t.TempDir()
	quiet := logging.New(logging.Config{Quiet: true})
	installer := NewInstaller(workDir,
		WithLocator(fakePdcLocator("2.5.0")),
		WithDownloader(NewDownloader(nil, quiet)),
		WithLuacatsBaseURL(server.URL),
		WithLogger(quiet),
	)

	path, err := installer.LuacatsLibraryPath(context.Background(), pdcWorktree())
	require.NoError(t, err)

	want, err := filepath.Abs(filepath.Join(workDir, "playdate-luacats-2.5.0-luacats1", "library"))
	require.NoError(t, err)
	assert.Equal(t, want, path)
	if _, err := os.Stat(filepath.Join(path, "playdate.lua")); err != nil {
		t.Fatalf("stub file missing: %v", err)
	}

	// Second call returns the cached path without a second download
	again, err := installer.LuacatsLibraryPath(context.Background(), pdcWorktree())
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, int64(1), downloads.Load())
}

func TestLuacatsLibraryPath_SkipsExistingInstall(t *testing.T) {
	workDir := t.TempDir()
	existing := filepath.Join(workDir, "playdate-luacats-2.5.0-luacats1", "library")
	require.NoError(t, os.MkdirAll(existing, 0755))

	quiet := logging.New(logging.Config{Quiet: true})
	installer := NewInstaller(workDir,
		WithLocator(fakePdcLocator("2.5.0")),
		WithDownloader(NewDownloader(nil, quiet)),
		// No server is wired; a download attempt would fail
		WithLuacatsBaseURL("http://127.0.0.1:0"),
		WithLogger(quiet),
	)

	path, err := installer.LuacatsLibraryPath(context.Background(), pdcWorktree())
	require.NoError(t, err)

	want, err := filepath.Abs(existing)
	require.NoError(t, err)
	assert.Equal(t, want, path)
}

func TestLuacatsLibraryPath_VersionedTag(t *testing.T) {
	archive := buildTarGz(t, []tarEntry{
		{name: "playdate-luacats-2.6.2-luacats1/library/playdate.lua", body: "---@meta\n"},
	})
	server, _ := newLuacatsServer(t, "v2.6.2-luacats1", archive)
	defer server.Close()

	quiet := logging.New(logging.Config{Quiet: true})
	installer := NewInstaller(t.TempDir(),
		WithLocator(fakePdcLocator("2.6.2")),
		WithDownloader(NewDownloader(nil, quiet)),
		WithLuacatsBaseURL(server.URL),
		WithLogger(quiet),
	)

	path, err := installer.LuacatsLibraryPath(context.Background(), pdcWorktree())
	require.NoError(t, err)
	assert.Contains(t, path, "playdate-luacats-2.6.2-luacats1")
}

func TestLuacatsLibraryPath_NoPdc(t *testing.T) {
	installer := NewInstaller(t.TempDir(),
		WithLocator(sdk.NewLocator()),
		WithLogger(logging.New(logging.Config{Quiet: true})),
	)

	_, err := installer.LuacatsLibraryPath(context.Background(), noPathWorktree())
	assert.ErrorIs(t, err, sdk.ErrPdcNotFound)
}
