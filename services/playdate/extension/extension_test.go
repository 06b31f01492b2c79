package extension

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/playdate-ext/pkg/logging"
	"github.com/AleutianAI/playdate-ext/services/playdate/dap"
	"github.com/AleutianAI/playdate-ext/services/playdate/host"
	"github.com/AleutianAI/playdate-ext/services/playdate/lsp"
	"github.com/AleutianAI/playdate-ext/services/playdate/sdk"
)

// newTestExtension pins the platform to Linux/x64 with an SDK at /sdk and
// every binary resolvable on PATH.
func newTestExtension(t *testing.T) *Extension {
	t.Helper()
	quiet := logging.New(logging.Config{Quiet: true})
	locator := sdk.NewLocator(
		sdk.WithPlatform(host.Platform{OS: host.OSLinux, Arch: host.ArchX8664}),
		sdk.WithRunCommand(func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("2.5.0\n"), nil
		}),
	)
	return New(t.TempDir(),
		WithLocator(locator),
		WithLogger(quiet),
	)
}

// stubLuacatsDir pre-seeds an installed luacats stub library and returns
// its absolute path.
func stubLuacatsDir(t *testing.T, workDir, sdkVersion string) string {
	t.Helper()
	dir := filepath.Join(workDir, "playdate-luacats-"+sdkVersion+"-luacats1", "library")
	require.NoError(t, os.MkdirAll(dir, 0755))
	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	return abs
}

func testWorktree() *host.LocalWorktree {
	return &host.LocalWorktree{
		Root: "/work/game",
		Env:  map[string]string{"PLAYDATE_SDK_PATH": "/sdk"},
		LookPath: func(name string) (string, error) {
			return "/usr/local/bin/" + name, nil
		},
	}
}

func TestLanguageServerCommand(t *testing.T) {
	ext := newTestExtension(t)

	cmd, err := ext.LanguageServerCommand(context.Background(), lsp.ServerID, testWorktree())
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/lua-language-server", cmd.Command)
	assert.Empty(t, cmd.Args)
}

func TestLanguageServerCommand_UnknownServer(t *testing.T) {
	ext := newTestExtension(t)

	_, err := ext.LanguageServerCommand(context.Background(), "gopls", testWorktree())
	assert.ErrorIs(t, err, lsp.ErrUnsupportedServer)
	assert.Contains(t, err.Error(), "gopls")
}

func TestInitializationOptions(t *testing.T) {
	ext := newTestExtension(t)

	opts, err := ext.InitializationOptions(lsp.ServerID, testWorktree())
	require.NoError(t, err)
	require.Contains(t, opts, "Lua")

	unknown, err := ext.InitializationOptions("gopls", testWorktree())
	require.NoError(t, err)
	assert.Nil(t, unknown)
}

func TestWorkspaceConfiguration_LibraryPaths(t *testing.T) {
	workDir := t.TempDir()
	quiet := logging.New(logging.Config{Quiet: true})
	locator := sdk.NewLocator(
		sdk.WithPlatform(host.Platform{OS: host.OSLinux, Arch: host.ArchX8664}),
		sdk.WithRunCommand(func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("2.5.0\n"), nil
		}),
	)
	ext := New(workDir, WithLocator(locator), WithLogger(quiet))

	// Pre-seed the luacats install so no download happens
	stubs := stubLuacatsDir(t, workDir, "2.5.0")

	cfg, err := ext.WorkspaceConfiguration(context.Background(), lsp.ServerID, testWorktree())
	require.NoError(t, err)

	lua, ok := cfg["Lua"].(map[string]any)
	require.True(t, ok)
	workspace, ok := lua["workspace"].(map[string]any)
	require.True(t, ok)
	library, ok := workspace["library"].([]string)
	require.True(t, ok)

	require.Len(t, library, 2)
	assert.Equal(t, "/sdk/CoreLibs", library[0])
	assert.Equal(t, stubs, library[1])
}

func TestWorkspaceConfiguration_MissingSDKOmitsCoreLibs(t *testing.T) {
	workDir := t.TempDir()
	quiet := logging.New(logging.Config{Quiet: true})
	locator := sdk.NewLocator(
		sdk.WithPlatform(host.Platform{OS: host.OSLinux, Arch: host.ArchX8664}),
		sdk.WithRunCommand(func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("2.5.0\n"), nil
		}),
	)
	ext := New(workDir, WithLocator(locator), WithLogger(quiet))
	stubs := stubLuacatsDir(t, workDir, "2.5.0")

	// No SDK env and no HOME means SDK detection fails
	worktree := &host.LocalWorktree{
		Root: "/work/game",
		Env:  map[string]string{},
		LookPath: func(name string) (string, error) {
			return "/usr/local/bin/" + name, nil
		},
	}

	cfg, err := ext.WorkspaceConfiguration(context.Background(), lsp.ServerID, worktree)
	require.NoError(t, err)

	library := cfg["Lua"].(map[string]any)["workspace"].(map[string]any)["library"].([]string)
	require.Len(t, library, 1)
	assert.Equal(t, stubs, library[0])
}

func TestWorkspaceConfiguration_UnknownServer(t *testing.T) {
	ext := newTestExtension(t)

	cfg, err := ext.WorkspaceConfiguration(context.Background(), "gopls", testWorktree())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestDebugAdapterBinary(t *testing.T) {
	ext := newTestExtension(t)

	task := dap.TaskDefinition{
		Label:  "debug game",
		Config: json.RawMessage(`{"request": "launch", "gamePath": "/work/game/builds/Game.pdx"}`),
	}
	binary, err := ext.DebugAdapterBinary(context.Background(), dap.AdapterName, task, testWorktree())
	require.NoError(t, err)
	assert.Equal(t, "/sdk/bin/PlaydateSimulator", binary.Command)
	assert.Equal(t, []string{"/work/game/builds/Game.pdx"}, binary.Arguments)
	require.NotNil(t, binary.Connection)
	assert.Equal(t, dap.DefaultPort, binary.Connection.Port)
}

func TestDebugAdapterBinary_UnknownAdapter(t *testing.T) {
	ext := newTestExtension(t)

	task := dap.TaskDefinition{Config: json.RawMessage(`{"request": "attach"}`)}
	_, err := ext.DebugAdapterBinary(context.Background(), "lldb", task, testWorktree())
	assert.ErrorIs(t, err, dap.ErrUnsupportedAdapter)
}

func TestDebugRequestKind(t *testing.T) {
	ext := newTestExtension(t)

	kind, err := ext.DebugRequestKind(dap.AdapterName, json.RawMessage(`{"request": "attach"}`))
	require.NoError(t, err)
	assert.Equal(t, dap.RequestAttach, kind)

	_, err = ext.DebugRequestKind(dap.AdapterName, json.RawMessage(`{"request": "step"}`))
	require.Error(t, err)
	assert.False(t, errors.Is(err, dap.ErrUnsupportedAdapter))
}
