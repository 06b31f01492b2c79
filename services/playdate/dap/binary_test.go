package dap

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/playdate-ext/pkg/logging"
	"github.com/AleutianAI/playdate-ext/services/playdate/host"
	"github.com/AleutianAI/playdate-ext/services/playdate/sdk"
)

// newTestResolver builds a Resolver pinned to Linux with a fixed SDK.
func newTestResolver() (*Resolver, *host.LocalWorktree) {
	locator := sdk.NewLocator(sdk.WithPlatform(host.Platform{OS: host.OSLinux, Arch: host.ArchX8664}))
	wt := &host.LocalWorktree{
		Root: "/work/game",
		Env:  map[string]string{sdk.EnvSDKPath: "/sdk"},
		LookPath: func(string) (string, error) {
			return "", errors.New("not found")
		},
	}
	return NewResolver(locator, logging.New(logging.Config{Quiet: true})), wt
}

func TestResolve_Launch_Defaults(t *testing.T) {
	r, wt := newTestResolver()

	binary, err := r.Resolve(context.Background(), AdapterName, TaskDefinition{
		Config: json.RawMessage(`{"request":"launch"}`),
	}, wt)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/sdk", "bin", "PlaydateSimulator"), binary.Command)
	assert.Equal(t, []string{"/work/game/builds/Game.pdx"}, binary.Arguments)
	assert.Empty(t, binary.CWD)

	require.NotNil(t, binary.Connection)
	assert.Equal(t, DefaultHost, binary.Connection.Host)
	assert.Equal(t, DefaultPort, binary.Connection.Port)
	assert.Equal(t, DefaultTimeoutMS, binary.Connection.TimeoutMS)

	assert.Equal(t, "launch", binary.RequestArgs.Request)

	// The serialized config carries the applied defaults
	var final Config
	require.NoError(t, json.Unmarshal([]byte(binary.RequestArgs.Configuration), &final))
	assert.Equal(t, "/work/game/builds/Game.pdx", final.GamePath)
	assert.Equal(t, "/work/game/source", final.SourcePath)
	assert.Equal(t, "/sdk", final.SDKPath)
}

func TestResolve_Attach_NoCommand(t *testing.T) {
	r, wt := newTestResolver()

	binary, err := r.Resolve(context.Background(), AdapterName, TaskDefinition{
		Config: json.RawMessage(`{"request":"attach"}`),
	}, wt)
	require.NoError(t, err)

	assert.Empty(t, binary.Command)
	assert.Empty(t, binary.Arguments)
	assert.Equal(t, "attach", binary.RequestArgs.Request)
	require.NotNil(t, binary.Connection)
	assert.Equal(t, DefaultPort, binary.Connection.Port)
}

func TestResolve_TCPOverride(t *testing.T) {
	r, wt := newTestResolver()

	binary, err := r.Resolve(context.Background(), AdapterName, TaskDefinition{
		Config:        json.RawMessage(`{"request":"attach"}`),
		TCPConnection: &TCPArguments{Port: 6001},
	}, wt)
	require.NoError(t, err)

	// Overridden field wins, unset fields keep defaults
	assert.Equal(t, 6001, binary.Connection.Port)
	assert.Equal(t, DefaultHost, binary.Connection.Host)
	assert.Equal(t, DefaultTimeoutMS, binary.Connection.TimeoutMS)
}

func TestResolve_UnsupportedAdapter(t *testing.T) {
	r, wt := newTestResolver()

	_, err := r.Resolve(context.Background(), "lldb", TaskDefinition{
		Config: json.RawMessage(`{"request":"launch"}`),
	}, wt)
	assert.ErrorIs(t, err, ErrUnsupportedAdapter)
}

func TestResolve_InvalidRequest(t *testing.T) {
	r, wt := newTestResolver()

	_, err := r.Resolve(context.Background(), AdapterName, TaskDefinition{
		Config: json.RawMessage(`{"request":"step"}`),
	}, wt)
	assert.Error(t, err)
}

func TestResolve_ExplicitSDKPathSkipsDetection(t *testing.T) {
	locator := sdk.NewLocator(sdk.WithPlatform(host.Platform{OS: host.OSLinux, Arch: host.ArchX8664}))
	// No SDK env and no home: detection would fail
	wt := &host.LocalWorktree{
		Root:     "/work/game",
		Env:      map[string]string{},
		LookPath: func(string) (string, error) { return "", errors.New("not found") },
	}
	r := NewResolver(locator, logging.New(logging.Config{Quiet: true}))

	binary, err := r.Resolve(context.Background(), AdapterName, TaskDefinition{
		Config: json.RawMessage(`{"request":"launch","sdkPath":"/explicit/sdk"}`),
	}, wt)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/explicit/sdk", "bin", "PlaydateSimulator"), binary.Command)
}

func TestRequestKindFor(t *testing.T) {
	r, _ := newTestResolver()

	kind, err := r.RequestKindFor(AdapterName, json.RawMessage(`{"request":"attach"}`))
	require.NoError(t, err)
	assert.Equal(t, RequestAttach, kind)

	_, err = r.RequestKindFor("gdb", json.RawMessage(`{"request":"attach"}`))
	assert.ErrorIs(t, err, ErrUnsupportedAdapter)

	_, err = r.RequestKindFor(AdapterName, json.RawMessage(`{"request":"bogus"}`))
	assert.Error(t, err)
}
