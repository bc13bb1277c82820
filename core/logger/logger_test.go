package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/stickerbot/core/config"
)

func TestBuildOutputsStdoutOnly(t *testing.T) {
	writers, closers, err := buildOutputs(nil)
	require.NoError(t, err)
	assert.Len(t, writers, 1)
	assert.Empty(t, closers)
}

func TestBuildOutputsOpensFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	cfg := &coreconfig.Config{}
	cfg.Logging.Dir = dir
	cfg.Logging.File = "bot.log"

	writers, closers, err := buildOutputs(cfg)
	require.NoError(t, err)
	assert.Len(t, writers, 2)
	require.Len(t, closers, 1)
	for _, c := range closers {
		require.NoError(t, c.Close())
	}

	_, statErr := os.Stat(filepath.Join(dir, "bot.log"))
	assert.NoError(t, statErr)
}

func TestBuildOutputsReportsUnusableDir(t *testing.T) {
	// A regular file where the log dir should be makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := &coreconfig.Config{}
	cfg.Logging.Dir = blocker
	cfg.Logging.File = "bot.log"

	_, _, err := buildOutputs(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log dir")
}
