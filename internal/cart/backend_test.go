package cart

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ecomsuite/storefront/pkg/config"
	"github.com/ecomsuite/storefront/pkg/redis"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMemoryBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	lines, err := backend.Load(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, lines, "missing key should load as nil, not error")

	saved := []Line{{Product: product(1, 50, 10), Quantity: 2}}
	require.NoError(t, backend.Save(ctx, "k", saved))

	loaded, err := backend.Load(ctx, "k")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, 2, loaded[0].Quantity)
	require.Equal(t, 1, loaded[0].Product.ID)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cart_test.db")
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	return conn
}

func TestGormBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewGormBackend(openTestDB(t))
	require.NoError(t, backend.Migrate())

	lines, err := backend.Load(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, lines)

	saved := []Line{
		{Product: product(1, 50, 10), Quantity: 2},
		{Product: product(2, 30, 5), Quantity: 1},
	}
	require.NoError(t, backend.Save(ctx, "visitor-1", saved))

	loaded, err := backend.Load(ctx, "visitor-1")
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// overwrite for the same key, not append
	require.NoError(t, backend.Save(ctx, "visitor-1", saved[:1]))
	loaded, err = backend.Load(ctx, "visitor-1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
}

func TestRedisBackendRoundTrip(t *testing.T) {
	url := os.Getenv("STOREFRONT_REDIS_URL")
	if url == "" {
		t.Skip("STOREFRONT_REDIS_URL is not set")
	}

	ctx := context.Background()
	client, err := redis.New(ctx, config.RedisConfig{URL: url})
	require.NoError(t, err)
	defer client.Close()

	backend := NewRedisBackend(client, 0)

	saved := []Line{{Product: product(1, 50, 10), Quantity: 3}}
	require.NoError(t, backend.Save(ctx, "test-session", saved))

	loaded, err := backend.Load(ctx, "test-session")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, 3, loaded[0].Quantity)
}
