package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRC(t *testing.T, content string) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".sketchpadrc")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestParseRC(t *testing.T) {
	f := writeRC(t, `
# sketchpad settings
savedir = ~/drawings
db=/tmp/pad.db
confirm = false
cell_width = 8
cellheight = -4
multi_select_stroke = 2.5
chainradius = nope
LogLevel = DEBUG
not a setting
`)
	config := defaultConfig()
	parseRC(config, f, "/home/pat")

	assert.Equal(t, "/home/pat/drawings", config.SaveDirectory)
	assert.Equal(t, "/tmp/pad.db", config.DBPath)
	assert.False(t, config.Confirmations)
	assert.Equal(t, 8.0, config.CellWidth)
	assert.Equal(t, 20.0, config.CellHeight, "non-positive values are ignored")
	assert.Equal(t, 2.5, config.MultiSelectStroke)
	assert.Equal(t, defaultChainRadius, config.ChainRadius)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestExpandPath(t *testing.T) {
	assert.Equal(t, "/home/pat/x.png", expandPath("~/x.png", "/home/pat"))
	assert.Equal(t, "/abs/y.png", expandPath("/abs/y.png", "/home/pat"))
	assert.True(t, filepath.IsAbs(expandPath("rel.png", "")))
}

func TestApplyEnv(t *testing.T) {
	config := defaultConfig()
	env := map[string]string{"SKETCHPAD_SAVE_DIR": "/srv/pads", "SKETCHPAD_DB": "/srv/pads.db"}
	applyEnv(config, func(k string) string { return env[k] })
	assert.Equal(t, "/srv/pads", config.SaveDirectory)
	assert.Equal(t, "/srv/pads.db", config.DBPath)

	applyEnv(config, func(string) string { return "" })
	assert.Equal(t, "/srv/pads", config.SaveDirectory, "unset variables keep earlier layers")
}

func TestApplyFlags(t *testing.T) {
	config := defaultConfig()
	config.SaveDirectory = "/from/rc"
	require.NoError(t, applyFlags(config, []string{"--db", "/x.db", "--cell-width=12", "--log-level", "warn"}))
	assert.Equal(t, "/from/rc", config.SaveDirectory)
	assert.Equal(t, "/x.db", config.DBPath)
	assert.Equal(t, 12.0, config.CellWidth)
	assert.Equal(t, "warn", config.LogLevel)

	assert.Error(t, applyFlags(defaultConfig(), []string{"--cell-height=0"}))
	assert.Error(t, applyFlags(defaultConfig(), []string{"--bogus"}))
}

func TestSavePaths(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	config := defaultConfig()
	config.SaveDirectory = dir

	assert.Equal(t, filepath.Join(dir, "a.png"), config.GetSavePath("a.png"))
	_, err := os.Stat(dir)
	assert.NoError(t, err, "save directory is created")
	assert.Equal(t, filepath.Join(dir, "sketchpad.db"), config.databasePath())

	config.DBPath = "/elsewhere.db"
	assert.Equal(t, "/elsewhere.db", config.databasePath())

	assert.Equal(t, "b.txt", defaultConfig().GetSavePath("b.txt"))
}
