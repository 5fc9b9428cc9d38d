package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	infraconfig "github.com/oms/backend/internal/infrastructure/config"
)

func testStorageConfig() *infraconfig.StorageConfig {
	return &infraconfig.StorageConfig{
		Endpoint:     "localhost:9000",
		Bucket:       "receipts",
		AccessKey:    "test-access",
		SecretKey:    "test-secret",
		UsePathStyle: true,
	}
}

func TestNewS3Store(t *testing.T) {
	t.Run("rejects nil config", func(t *testing.T) {
		_, err := NewS3Store(nil, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("rejects missing credentials", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.SecretKey = ""
		_, err := NewS3Store(cfg, zap.NewNop())
		assert.ErrorContains(t, err, "secret key")
	})

	t.Run("rejects missing bucket", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.Bucket = ""
		_, err := NewS3Store(cfg, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("builds a store from a bare host endpoint", func(t *testing.T) {
		store, err := NewS3Store(testStorageConfig(), zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "receipts", store.bucket)
		assert.Equal(t, defaultPresignTTL, store.presignTTL)
	})
}

func TestPresignDownload(t *testing.T) {
	store, err := NewS3Store(testStorageConfig(), zap.NewNop())
	require.NoError(t, err)

	t.Run("signs a download link for a receipt", func(t *testing.T) {
		before := time.Now()
		url, expiresAt, err := store.PresignDownload(context.Background(), "tenant-a/receipts/R-1001.pdf", time.Hour)
		require.NoError(t, err)

		assert.Contains(t, url, "receipts")
		assert.Contains(t, url, "R-1001.pdf")
		assert.Contains(t, url, "X-Amz-Signature")
		assert.WithinDuration(t, before.Add(time.Hour), expiresAt, 5*time.Second)
	})

	t.Run("falls back to the store default ttl", func(t *testing.T) {
		before := time.Now()
		_, expiresAt, err := store.PresignDownload(context.Background(), "tenant-a/receipts/R-1002.pdf", 0)
		require.NoError(t, err)
		assert.WithinDuration(t, before.Add(defaultPresignTTL), expiresAt, 5*time.Second)
	})

	t.Run("requires an object key", func(t *testing.T) {
		_, _, err := store.PresignDownload(context.Background(), "", time.Minute)
		assert.Error(t, err)
	})
}
