package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CONFIG_FILE", filepath.Join(dir, "missing.toml"))
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
	assert.Equal(t, 5, cfg.Upload.MaxFiles)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxFileSize)
	assert.Equal(t, []string{".docx", ".pdf", ".txt", ".csv"}, cfg.Upload.AcceptedTypes)
	assert.Equal(t, "http://127.0.0.1:8000/api/analyze", cfg.Analyzer.Endpoint)
	assert.Equal(t, 90, cfg.Analyzer.TimeoutSeconds)
	assert.Equal(t, "meta-llama/llama-3-2-1b-instruct", cfg.LLM.Model)
	assert.Equal(t, 1024, cfg.LLM.MaxNewTokens)
	assert.InDelta(t, 0.1, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, "gochannel", cfg.Bus.Driver)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.App.CORSOrigins)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[app]
port = 9090

[llm]
model = "file-model"
temperature = 0.5

[bus]
buffer = 8
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("LLM_TEMPERATURE", "0.3")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "env-model", cfg.LLM.Model)
	assert.InDelta(t, 0.3, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, int64(8), cfg.Bus.Buffer)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.CORSOrigins)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)

	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("ANALYZER_TIMEOUT_SECONDS=30\n"), 0o600))
	t.Setenv("ENV_FILE", envPath)
	t.Cleanup(func() { _ = os.Unsetenv("ANALYZER_TIMEOUT_SECONDS") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Analyzer.TimeoutSeconds)
}

func TestInvalidEnvNumberKeepsFallback(t *testing.T) {
	isolate(t)
	t.Setenv("APP_PORT", "not-a-port")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown bus driver", func(c *Config) { c.Bus.Driver = "kafka" }},
		{"rabbitmq without url", func(c *Config) { c.Bus.Driver = "rabbitmq"; c.RabbitMQ.URL = "" }},
		{"accepted type without dot", func(c *Config) { c.Upload.AcceptedTypes = []string{"pdf"} }},
		{"zero max files", func(c *Config) { c.Upload.MaxFiles = 0 }},
		{"unknown analyzer mode", func(c *Config) { c.Analyzer.Mode = "grpc" }},
		{"remote without endpoint", func(c *Config) { c.Analyzer.Endpoint = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
