package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	for _, k := range []string{"APP_ADDR", "STORAGE_BACKEND", "CATALOG_RPS", "CATALOG_TIMEOUT", "ALLOWED_ORIGINS", "ENV"} {
		t.Setenv(k, "")
	}

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, BackendFile, c.StorageBackend)
	assert.Equal(t, 5, c.CatalogRPS)
	assert.Equal(t, 15*time.Second, c.CatalogTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, c.AllowedOrigins)
	assert.False(t, c.Production())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("ENV", "production")
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CATALOG_TIMEOUT", "2s")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	c, err := Load()
	require.NoError(t, err)

	assert.True(t, c.Production())
	assert.Equal(t, BackendRedis, c.StorageBackend)
	assert.Equal(t, 3, c.RedisDB)
	assert.Equal(t, 2*time.Second, c.CatalogTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": ""}},
		{"bad backend", map[string]string{"JWT_SECRET": "s", "STORAGE_BACKEND": "sqlite"}},
		{"bad int", map[string]string{"JWT_SECRET": "s", "CATALOG_RPS": "fast"}},
		{"bad duration", map[string]string{"JWT_SECRET": "s", "CATALOG_TIMEOUT": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORAGE_BACKEND", "")
			t.Setenv("CATALOG_RPS", "")
			t.Setenv("CATALOG_TIMEOUT", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	content := []byte("DB_DSN=from_file\nREDIS_PREFIX=from_file\n")
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), content, 0o644))

	t.Setenv("DB_DSN", "from_env")
	t.Setenv("REDIS_PREFIX", "")
	require.NoError(t, os.Unsetenv("REDIS_PREFIX"))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	LoadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("DB_DSN"))
	assert.Equal(t, "from_file", os.Getenv("REDIS_PREFIX"))
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "postgres://***@db:5432/x", RedactDSN("postgres://u:p@db:5432/x"))
	assert.Equal(t, "no-scheme", RedactDSN("no-scheme"))
}
