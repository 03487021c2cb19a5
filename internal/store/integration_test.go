//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/Rithari/url-shortener/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestPostgresStoreIntegration(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:16-alpine"),
		postgres.WithDatabase("shortener"),
		postgres.WithUsername("shortener"),
		postgres.WithPassword("shortener"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Skipf("PostgreSQL container not available: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)

	s := store.NewPostgresStore(pool)
	t.Cleanup(func() { _ = s.Shutdown() })

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx), "migrate is idempotent")
	require.NoError(t, s.Ping(ctx))

	testBackend(t, s)
}

func TestMongoStoreIntegration(t *testing.T) {
	ctx := context.Background()

	container, err := mongodb.RunContainer(ctx, testcontainers.WithImage("mongo:6"))
	if err != nil {
		t.Skipf("MongoDB container not available: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://"+host+":"+port.Port()))
	require.NoError(t, err)

	s := store.NewMongoStore(client, "urlshortener_test")
	t.Cleanup(func() { _ = s.Shutdown() })

	require.NoError(t, s.EnsureIndexes(ctx))
	require.NoError(t, s.Ping(ctx))

	testBackend(t, s)
}

func TestRedisCacheIntegration(t *testing.T) {
	ctx := context.Background()

	container, err := tcredis.RunContainer(ctx, testcontainers.WithImage("docker.io/redis:7"))
	if err != nil {
		t.Skipf("Redis container not available: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	t.Run("miss then hit", func(t *testing.T) {
		c := store.NewRedisCache(client, time.Minute)

		_, ok, err := c.Get(ctx, "miss123")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, c.Set(ctx, "hit1234", "https://example.com"))

		got, ok, err := c.Get(ctx, "hit1234")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "https://example.com", got)
	})

	t.Run("uses prefixed keys with ttl", func(t *testing.T) {
		c := store.NewRedisCache(client, time.Minute)
		require.NoError(t, c.Set(ctx, "ttl1234", "https://example.com"))

		ttl, err := client.TTL(ctx, "shortUrls::ttl1234").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		c := store.NewRedisCache(client, 0)
		require.NoError(t, c.Set(ctx, "keep123", "https://example.com"))

		ttl, err := client.TTL(ctx, "shortUrls::keep123").Result()
		require.NoError(t, err)
		assert.Equal(t, time.Duration(-1), ttl)
	})

	t.Run("closed client surfaces errors", func(t *testing.T) {
		closed := redis.NewClient(opts)
		require.NoError(t, closed.Close())

		_, _, err := store.NewRedisCache(closed, time.Minute).Get(ctx, "abc1234")
		assert.Error(t, err)
	})
}
