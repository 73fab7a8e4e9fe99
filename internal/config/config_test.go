package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.StorageBackend)
	assert.Equal(t, "local", cfg.MediaBackend)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
}

func TestLoadRejectsUnknownBackends(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "etcd")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("MEDIA_BACKEND", "gcs")
	t.Setenv("GCS_BUCKET", "")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("MEDIA_BACKEND", "local")
	t.Setenv("STORAGE_BACKEND", "firestore")
	t.Setenv("FIRESTORE_PROJECT_ID", "")
	_, err = Load()
	require.Error(t, err)
}
