package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"CASEDRILL_DB", "CASEDRILL_ADDR", "CASEDRILL_SHUTDOWN_TIMEOUT", "CASEDRILL_CORS_ORIGINS",
	"CASEDRILL_TRACING", "CASEDRILL_OTLP_ENDPOINT", "CASEDRILL_LLM_PROVIDER", "CASEDRILL_LLM_MODEL",
	"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY",
}

// isolate runs the test in an empty directory with every known variable
// cleared, so neither the developer's shell nor a stray .env leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.DBPath)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.False(t, cfg.LLMEnabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("CASEDRILL_ADDR", "127.0.0.1:9000")
	t.Setenv("CASEDRILL_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("CASEDRILL_CORS_ORIGINS", "http://localhost:3000, https://drill.example.com")
	t.Setenv("CASEDRILL_TRACING", "true")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.ServerAddress)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "https://drill.example.com"}, cfg.CORSOrigins)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.True(t, cfg.LLMEnabled)
	assert.Equal(t, "openai", cfg.LLM.Provider)
}

func TestLoadRejectsBadValues(t *testing.T) {
	isolate(t)
	t.Setenv("CASEDRILL_SHUTDOWN_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("CASEDRILL_SHUTDOWN_TIMEOUT", "")
	t.Setenv("CASEDRILL_TRACING", "maybe")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := isolate(t)
	// godotenv never overrides variables that are already set, even to the
	// empty string, so the key under test must be absent.
	os.Unsetenv("CASEDRILL_ADDR")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CASEDRILL_ADDR=:7070\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CASEDRILL_ADDR") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.ServerAddress)
}
