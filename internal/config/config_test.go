package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":80", cfg.HTTPAddr)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "gallerydb", cfg.Database.Name)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, "s3", cfg.Blob.Driver)
	assert.Equal(t, "photo-gallery", cfg.Blob.Bucket)
	assert.Equal(t, "https://storage.googleapis.com", cfg.Blob.PublicURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "gallery")
	t.Setenv("BLOB_DRIVER", "minio")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "gallery", cfg.Database.User)
	assert.Equal(t, "minio", cfg.Blob.Driver)
	assert.Equal(t, 0, cfg.RateLimitPerMinute)
}

func TestLoadCORSOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.SecureCookies)
}

func TestLoadLegacyBucketVariable(t *testing.T) {
	t.Setenv("GCS_BUCKET", "my-terraform-gcs")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "my-terraform-gcs", cfg.Blob.Bucket)
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DB_NAME=fromfile\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("DB_NAME") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.Database.Name)
}
