package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitfindr/fitfindr-server/internal/config"
	filestore "github.com/fitfindr/fitfindr-server/internal/storage/file"
	memstore "github.com/fitfindr/fitfindr-server/internal/storage/memory"
)

func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{Port: 8000, RequestTimeoutSeconds: 60},
		Pinterest: config.PinterestConfig{
			Endpoint:        "https://api.scrapecreators.com/v1/pinterest/search",
			APIKey:          "test-key",
			TimeoutSeconds:  10,
			DefaultMaxItems: 20,
		},
		Storage: config.StorageConfig{Backend: config.StorageBackendMemory},
		Archive: config.ArchiveConfig{Backend: config.ArchiveBackendMemory},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func TestNewWiresServices(t *testing.T) {
	a, err := New(context.Background(), testConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Logger())
	assert.NotNil(t, a.Store())
	assert.NotNil(t, a.Pipeline())
	assert.NotNil(t, a.Server())
	assert.NotNil(t, a.archiver)
	assert.NotNil(t, a.hub)
	assert.Equal(t, 8000, a.Config().Server.Port)
}

func TestNewFailsWithoutPinterestKey(t *testing.T) {
	cfg := testConfig()
	cfg.Pinterest.APIKey = ""

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pinterest client")
}

func TestNewStoreBackends(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg := testConfig()
		s, err := newStore(ctx, cfg)
		require.NoError(t, err)
		assert.IsType(t, &memstore.Store{}, s)
	})

	t.Run("file", func(t *testing.T) {
		cfg := testConfig()
		cfg.Storage.Backend = config.StorageBackendFile
		cfg.Storage.DataDir = t.TempDir()
		s, err := newStore(ctx, cfg)
		require.NoError(t, err)
		assert.IsType(t, &filestore.Store{}, s)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := testConfig()
		cfg.Storage.Backend = "etcd"
		_, err := newStore(ctx, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown storage backend")
	})
}

func TestNewArchiverBackends(t *testing.T) {
	ctx := context.Background()

	t.Run("none", func(t *testing.T) {
		cfg := testConfig()
		cfg.Archive.Backend = config.ArchiveBackendNone
		a := &App{}
		blob, err := a.newArchiver(ctx, cfg)
		require.NoError(t, err)
		assert.Nil(t, blob)
	})

	t.Run("local", func(t *testing.T) {
		cfg := testConfig()
		cfg.Archive.Backend = config.ArchiveBackendLocal
		cfg.Archive.Dir = t.TempDir()
		a := &App{}
		blob, err := a.newArchiver(ctx, cfg)
		require.NoError(t, err)
		assert.NotNil(t, blob)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := testConfig()
		cfg.Archive.Backend = "tape"
		a := &App{}
		_, err := a.newArchiver(ctx, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown archive backend")
	})
}

func TestCloseIsIdempotent(t *testing.T) {
	a, err := New(context.Background(), testConfig())
	require.NoError(t, err)

	a.Close()
	a.Close()
}
