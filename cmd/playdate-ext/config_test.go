package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/playdate-ext/pkg/logging"
)

// inDir runs the test body with the working directory switched to dir.
func inDir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadConfig_MissingFileIsZero(t *testing.T) {
	inDir(t, t.TempDir())

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadConfig_ReadsYAML(t *testing.T) {
	dir := t.TempDir()
	sdkDir := filepath.Join(dir, "sdk")
	require.NoError(t, os.MkdirAll(sdkDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(
		"sdk_path: "+sdkDir+"\n"+
			"game_path: builds/Game.pdx\n"+
			"log_level: debug\n"+
			"log_json: true\n",
	), 0644))
	inDir(t, dir)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, sdkDir, cfg.SDKPath)
	assert.Equal(t, "builds/Game.pdx", cfg.GamePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
}

func TestLoadConfig_RejectsBadLevel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName),
		[]byte("log_level: loud\n"), 0644))
	inDir(t, dir)

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_RejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName),
		[]byte("sdk_path: [unclosed\n"), 0644))
	inDir(t, dir)

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestConfigWorkDir(t *testing.T) {
	cfg := Config{WorkDir: "/custom/work"}
	dir, err := cfg.workDir()
	require.NoError(t, err)
	assert.Equal(t, "/custom/work", dir)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	dir, err = Config{}.workDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".playdate-ext"), dir)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logging.LevelDebug, parseLevel("debug"))
	assert.Equal(t, logging.LevelInfo, parseLevel("info"))
	assert.Equal(t, logging.LevelWarn, parseLevel("warn"))
	assert.Equal(t, logging.LevelError, parseLevel("error"))
	assert.Equal(t, logging.LevelInfo, parseLevel(""))
	assert.Equal(t, logging.LevelInfo, parseLevel("loud"))
}
