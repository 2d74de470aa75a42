package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "9020", cfg.Port)
	assert.Equal(t, 5, cfg.SearchTopK)
	assert.Equal(t, 768, cfg.EmbeddingDim)
	assert.Equal(t, 4, cfg.IngestParallelism)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SEARCH_TOP_K", "10")
	t.Setenv("INGEST_RATE_PER_SEC", "2.5")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.SearchTopK)
	assert.Equal(t, 2.5, cfg.IngestRatePerSec)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("SEARCH_TOP_K", "not-a-number")
	cfg := Load()
	assert.Equal(t, 5, cfg.SearchTopK)
}

func TestLoad_SecretFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db_password")
	assert.NoError(t, os.WriteFile(path, []byte("s3cret\n"), 0o600))

	t.Setenv("DB_PASSWORD_FILE", path)
	cfg := Load()
	assert.Equal(t, "s3cret", cfg.DBPassword)
}

func TestLoad_DirectSecretWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db_password")
	assert.NoError(t, os.WriteFile(path, []byte("from-file"), 0o600))

	t.Setenv("DB_PASSWORD", "direct")
	t.Setenv("DB_PASSWORD_FILE", path)
	cfg := Load()
	assert.Equal(t, "direct", cfg.DBPassword)
}
