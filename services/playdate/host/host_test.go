package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformStrings(t *testing.T) {
	assert.Equal(t, "mac", OSMac.String())
	assert.Equal(t, "linux", OSLinux.String())
	assert.Equal(t, "windows", OSWindows.String())
	assert.Equal(t, "aarch64", ArchAarch64.String())
	assert.Equal(t, "x86_64", ArchX8664.String())
	assert.Equal(t, "x86", ArchX86.String())
}

func TestCurrentPlatform(t *testing.T) {
	p := CurrentPlatform()
	// Whatever the test runs on must map to a named value
	assert.NotEqual(t, "unknown", p.OS.String())
	assert.NotEqual(t, "unknown", p.Arch.String())
}

func TestLocalWorktree_Which(t *testing.T) {
	wt := &LocalWorktree{
		Root: "/work",
		LookPath: func(name string) (string, error) {
			if name == "pdc" {
				return "/sdk/bin/pdc", nil
			}
			return "", errors.New("not found")
		},
	}

	path, ok := wt.Which("pdc")
	assert.True(t, ok)
	assert.Equal(t, "/sdk/bin/pdc", path)

	_, ok = wt.Which("missing")
	assert.False(t, ok)
}

func TestLocalWorktree_ShellEnv(t *testing.T) {
	wt := &LocalWorktree{Env: map[string]string{"PLAYDATE_SDK_PATH": "/sdk"}}
	assert.Equal(t, "/sdk", wt.ShellEnv()["PLAYDATE_SDK_PATH"])

	// Without an override the process environment is surfaced
	t.Setenv("PLAYDATE_HOST_TEST", "1")
	real := &LocalWorktree{}
	assert.Equal(t, "1", real.ShellEnv()["PLAYDATE_HOST_TEST"])
}

func TestCommandEnvSlice(t *testing.T) {
	cmd := Command{Env: map[string]string{"B": "2", "A": "1"}}
	assert.Equal(t, []string{"A=1", "B=2"}, cmd.EnvSlice())

	assert.Nil(t, Command{}.EnvSlice())
}

func TestInstallStatusString(t *testing.T) {
	assert.Equal(t, "none", InstallStatusNone.String())
	assert.Equal(t, "checking-for-update", InstallStatusCheckingForUpdate.String())
	assert.Equal(t, "downloading", InstallStatusDownloading.String())
	assert.Equal(t, "failed", InstallStatusFailed.String())
}

func TestSpanHelpers(t *testing.T) {
	code := SpanCodeRange(2, 7)
	require.NotNil(t, code.CodeRange)
	assert.Nil(t, code.Literal)
	assert.Equal(t, 5, code.CodeRange.Len())

	lit := SpanLiteral("width", "property")
	require.NotNil(t, lit.Literal)
	assert.Nil(t, lit.CodeRange)
	assert.Equal(t, "width", lit.Literal.Text)
	assert.Equal(t, "property", lit.Literal.Highlight)
}
