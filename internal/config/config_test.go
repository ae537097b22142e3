package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup at an empty temp tree so the developer's own
// config, .env and API keys do not leak into tests.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	for _, k := range []string{
		"DOCCHAT_CONFIG", "DOCCHAT_DB", "DOCCHAT_LOG_LEVEL", "DOCCHAT_LOG_FILE",
		"DOCCHAT_MAX_UPLOAD_MB", "DOCCHAT_LLM_PROVIDER", "DOCCHAT_GEMINI_API_KEY",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.Path)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 10, cfg.Upload.MaxSizeMB)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Database.Path)
}

func TestLoad_FromDefaultPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config", "docchat", "config.toml")
	writeFile(t, path, `
[llm]
provider = "anthropic"

[llm.anthropic]
api_key = "sk-test"
model = "claude-sonnet"

[llm.retry]
max_attempts = 3
initial_wait = "250ms"

[upload]
max_size_mb = 25

[log]
level = "debug"

[database]
path = "/tmp/docs.db"

[extra]
colour = "blue"
`)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.Anthropic.APIKey)
	assert.Equal(t, "claude-sonnet", cfg.LLM.Anthropic.Model)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.LLM.Retry.InitialWait)
	assert.Equal(t, 10*time.Second, cfg.LLM.Retry.MaxWait, "unset keys keep defaults")
	assert.Equal(t, 25, cfg.Upload.MaxSizeMB)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/docs.db", cfg.Database.Path)
	assert.Contains(t, cfg.Unknown, "extra.colour")
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err, "an explicit path must exist")

	path := filepath.Join(dir, "custom.toml")
	writeFile(t, path, "[upload]\nmax_size_mb = 2\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Upload.MaxSizeMB)

	t.Setenv("DOCCHAT_CONFIG", path)
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config", "docchat", "config.toml"), "[upload\nmax_size_mb = ")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config", "docchat", "config.toml"), "[upload]\nmax_size_mb = 25\n")

	t.Setenv("DOCCHAT_MAX_UPLOAD_MB", "5")
	t.Setenv("DOCCHAT_DB", "/tmp/env.db")
	t.Setenv("DOCCHAT_LOG_LEVEL", "warn")
	t.Setenv("DOCCHAT_LOG_FILE", "/tmp/env.log")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Upload.MaxSizeMB)
	assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/tmp/env.log", cfg.Log.File)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "GEMINI_API_KEY=from-dotenv\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "from-dotenv", cfg.LLM.Gemini.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero upload limit", func(c *Config) { c.Upload.MaxSizeMB = 0 }, true},
		{"negative retries", func(c *Config) { c.LLM.Retry.MaxAttempts = -1 }, true},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "llama" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, true},
		{"empty log level", func(c *Config) { c.Log.Level = "" }, false},
		{"mock provider", func(c *Config) { c.LLM.Provider = "mock" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_NamesTOMLKeys(t *testing.T) {
	cfg := Default()
	cfg.Upload.MaxSizeMB = 0
	cfg.LLM.Provider = "llama"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload.max_size_mb must be greater than 0")
	assert.Contains(t, err.Error(), `llm.provider must be one of`)
	assert.Contains(t, err.Error(), `"llama"`)
}
