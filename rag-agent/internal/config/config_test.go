package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"LLM_PROVIDER", "ANTHROPIC_MODEL", "PORT", "REDIS_URL", "REDIS_PASSWORD", "REDIS_DB", "PLAN_GRAPH_PATH", "PLAN_JSON_PATH", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.LLM.Model)
	assert.Equal(t, 4096, cfg.LLM.MaxTokens)
	assert.Equal(t, "8001", cfg.Server.Port)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "agent.toml")
	content := `
[llm]
provider = "ollama"
model = "llama3"
base_url = "http://localhost:11434"
timeout = "30s"

[cache]
enabled = true
ttl = "5m"

[plan]
graph_path = "graph.dot"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, 4096, cfg.LLM.MaxTokens, "unset fields keep defaults")
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "graph.dot", cfg.Plan.GraphPath)

	timeout, err := cfg.LLMTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)

	ttl, err := cfg.CacheTTL()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, ttl)
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.toml")
	require.NoError(t, os.WriteFile(path, []byte("[llm\nprovider="), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "8001", cfg.Server.Port)
}

func TestLoad_UnreadablePathFails(t *testing.T) {
	clearEnv(t)
	file := filepath.Join(t.TempDir(), "agent.toml")
	require.NoError(t, os.WriteFile(file, []byte(""), 0o644))

	// a path beneath a regular file fails with ENOTDIR, not ErrNotExist
	_, err := Load(filepath.Join(file, "agent.toml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestLoadFile_MissingFails(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "typo.toml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_MODEL", "claude-test")
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_URL", "cache:6379")
	t.Setenv("PLAN_GRAPH_PATH", "/tmp/graph.dot")
	t.Setenv("PLAN_JSON_PATH", "/tmp/plan.json")

	cfg := New()
	cfg.ApplyEnv()

	assert.Equal(t, "claude-test", cfg.LLM.Model)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Cache.DB)
	assert.Equal(t, "cache:6379", cfg.Cache.RedisURL)
	assert.Equal(t, "/tmp/graph.dot", cfg.Plan.GraphPath)
	assert.Equal(t, "/tmp/plan.json", cfg.Plan.PlanPath)
}

func TestApplyEnv_BadRedisDBIgnored(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := New()
	cfg.Cache.DB = 1
	cfg.ApplyEnv()

	assert.Equal(t, 1, cfg.Cache.DB)
}

func TestGetAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-default")
	t.Setenv("CUSTOM_KEY", "sk-custom")

	cfg := New()
	assert.Equal(t, "sk-default", cfg.GetAPIKey())

	cfg.LLM.APIKeyEnv = "CUSTOM_KEY"
	assert.Equal(t, "sk-custom", cfg.GetAPIKey())

	cfg.LLM.APIKeyEnv = ""
	cfg.LLM.Provider = "ollama"
	assert.Empty(t, cfg.GetAPIKey())
}

func TestParseDuration_Invalid(t *testing.T) {
	cfg := New()
	cfg.LLM.Timeout = "soon"

	_, err := cfg.LLMTimeout()
	assert.ErrorContains(t, err, "llm.timeout")
}
