package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
port: "9090"
ai_provider: "gemini"
embedding:
  dimensions: 768
store:
  driver: "postgres"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "gemini", cfg.AIProvider)
	assert.Equal(t, 768, cfg.Embedding.Dimensions)
	assert.Equal(t, "postgres", cfg.Store.Driver)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "port: \"8081\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "openai", cfg.AIProvider)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 1536, cfg.Embedding.Dimensions)
	assert.Equal(t, 100, cfg.Embedding.BatchSize)
	assert.Equal(t, 100, cfg.Embedding.BatchDelay)
	assert.Equal(t, 1000, cfg.Chunking.MaxChunkSize)
	assert.Equal(t, 100, cfg.Chunking.OverlapSize)
	assert.Equal(t, "uxmentor", cfg.Store.Database)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("POSTGRES_URI", "postgres://localhost:5432/uxmentor")

	cfg, err := LoadConfig(writeConfig(t, "port: \"8080\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "postgres://localhost:5432/uxmentor", cfg.Store.PostgresURI)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
