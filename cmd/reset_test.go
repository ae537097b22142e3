package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/docchat/internal/config"
	"github.com/abhisek/docchat/internal/store"
)

func TestRemoveDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docchat.db")
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	}

	removed, err := removeDatabase(path)
	require.NoError(t, err)
	assert.True(t, removed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	removed, err = removeDatabase(path)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestAvgLatency(t *testing.T) {
	assert.Equal(t, int64(0), avgLatency(store.LLMUsage{}))
	assert.Equal(t, int64(250), avgLatency(store.LLMUsage{Requests: 4, LatencyMs: 1000}))
}

func TestFormatCost(t *testing.T) {
	tests := []struct {
		usd  float64
		want string
	}{
		{0, "$0.0000"},
		{0.0042, "$0.0042"},
		{0.01, "$0.01"},
		{1.5, "$1.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCost(tt.usd))
	}
}

func TestResolveDBPath(t *testing.T) {
	dir := t.TempDir()
	cmd := &cobra.Command{}
	cmd.Flags().String("db", "", "")

	cfg := &config.Config{Database: config.DatabaseConfig{Path: filepath.Join(dir, "cfg", "docchat.db")}}
	p, err := resolveDBPath(cmd, cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Database.Path, p)
	assert.DirExists(t, filepath.Join(dir, "cfg"))

	flagPath := filepath.Join(dir, "flag", "docchat.db")
	require.NoError(t, cmd.Flags().Set("db", flagPath))
	p, err = resolveDBPath(cmd, cfg)
	require.NoError(t, err)
	assert.Equal(t, flagPath, p)
	assert.DirExists(t, filepath.Join(dir, "flag"))
}
