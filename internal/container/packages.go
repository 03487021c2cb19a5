package container

import (
	"context"
	"fmt"
	"time"

	"github.com/Rithari/url-shortener/internal/bootstrap"
	"github.com/Rithari/url-shortener/internal/handlers"
	"github.com/Rithari/url-shortener/internal/health"
	"github.com/Rithari/url-shortener/internal/hits"
	"github.com/Rithari/url-shortener/internal/messaging"
	"github.com/Rithari/url-shortener/internal/metrics"
	"github.com/Rithari/url-shortener/internal/middleware"
	"github.com/Rithari/url-shortener/internal/shortener"
	"github.com/Rithari/url-shortener/internal/store"
	"github.com/Rithari/url-shortener/internal/users"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	dependencyAttempts = 8
	dependencyBackoff  = 250 * time.Millisecond

	componentStore = "store"
	componentRedis = "redis"
)

// Backend is the durable store behind both repositories.
type Backend interface {
	shortener.Repository
	users.Repository
	health.Checker
}

// RedisConnection owns the shared Redis client.
type RedisConnection struct {
	Client *redis.Client
}

func (c *RedisConnection) Shutdown() error {
	return c.Client.Close()
}

func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

func MetricsPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*prometheus.Registry, error) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		return reg, nil
	})

	do.Provide(i, func(i *do.Injector) (*metrics.Metrics, error) {
		return metrics.New(do.MustInvoke[*prometheus.Registry](i)), nil
	})
}

func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*RedisConnection, error) {
		opts := do.MustInvoke[*Options](i)

		return &RedisConnection{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// StorePackage provides the Backend selected by Options.Store. Connections are
// lazy so an unreachable database does not stop the process from starting.
func StorePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (Backend, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Store {
		case StorePostgres:
			pool, err := pgxpool.New(context.Background(), opts.DatabaseURL)
			if err != nil {
				return nil, fmt.Errorf("postgres pool: %w", err)
			}

			return store.NewPostgresStore(pool), nil
		case StoreMongo:
			client, err := mongo.Connect(context.Background(), mongooptions.Client().ApplyURI(opts.MongoURI))
			if err != nil {
				return nil, fmt.Errorf("mongo client: %w", err)
			}

			return store.NewMongoStore(client, opts.MongoDatabase), nil
		case StoreMemory:
			return store.NewMemoryStore(), nil
		default:
			return nil, fmt.Errorf("unknown store %q", opts.Store)
		}
	})
}

func CachePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (shortener.Cache, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Cache {
		case CacheRedis:
			conn := do.MustInvoke[*RedisConnection](i)

			return store.NewRedisCache(conn.Client, opts.cacheTTL()), nil
		case CacheMemory:
			return store.NewMemoryCache(), nil
		default:
			return nil, fmt.Errorf("unknown cache %q", opts.Cache)
		}
	})
}

// HitsPackage provides the HitRecorder selected by Options.HitMode.
func HitsPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		conn := do.MustInvoke[*RedisConnection](i)
		logger := do.MustInvoke[*zap.Logger](i)

		publisher, err := messaging.NewRedisPublisher(conn.Client, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("hit publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(i, func(i *do.Injector) (shortener.HitRecorder, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.HitMode {
		case HitModeSync:
			return shortener.NewStoreHitRecorder(do.MustInvoke[Backend](i)), nil
		case HitModeAsync:
			group := do.MustInvoke[*messaging.PublisherGroup](i)
			publish := messaging.NewPublishFunc[hits.HitEvent](group.Publisher(), hits.TopicLinkHit)

			return hits.NewPublishRecorder(publish), nil
		default:
			return nil, fmt.Errorf("unknown hit mode %q", opts.HitMode)
		}
	})
}

func ServicePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)

		generate, err := shortener.NewNanoidGenerator(shortener.CodeLength)
		if err != nil {
			return nil, err
		}

		return shortener.NewService(
			do.MustInvoke[Backend](i),
			do.MustInvoke[shortener.Cache](i),
			do.MustInvoke[shortener.HitRecorder](i),
			generate,
			do.MustInvoke[*zap.Logger](i),
			shortener.WithMaxAttempts(opts.MaxAttempts),
			shortener.WithTimeout(opts.requestTimeout()),
			shortener.WithCountCacheHits(opts.CountCacheHits),
			shortener.WithMetrics(do.MustInvoke[*metrics.Metrics](i)),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*users.Service, error) {
		return users.NewService(do.MustInvoke[Backend](i), do.MustInvoke[*zap.Logger](i)), nil
	})
}

// HealthPackage provides the dependencies reported on /health and awaited at startup.
func HealthPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) ([]health.Component, error) {
		opts := do.MustInvoke[*Options](i)

		components := []health.Component{
			{Name: componentStore, Checker: do.MustInvoke[Backend](i)},
		}

		if opts.Cache == CacheRedis || opts.HitMode == HitModeAsync {
			conn := do.MustInvoke[*RedisConnection](i)
			components = append(components, health.Component{Name: componentRedis, Checker: health.NewRedisChecker(conn.Client)})
		}

		return components, nil
	})
}

// BootstrapPackage provides the startup runner. Schema setup is required and
// retried until the store answers; the cache preload is best effort.
func BootstrapPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*bootstrap.Runner, error) {
		opts := do.MustInvoke[*Options](i)
		backend := do.MustInvoke[Backend](i)
		svc := do.MustInvoke[*shortener.Service](i)

		return bootstrap.NewRunner(
			do.MustInvoke[[]health.Component](i),
			startupTasks(opts, backend, svc),
			dependencyAttempts,
			dependencyBackoff,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

func startupTasks(opts *Options, backend Backend, svc *shortener.Service) []bootstrap.Task {
	var tasks []bootstrap.Task

	switch s := backend.(type) {
	case *store.PostgresStore:
		tasks = append(tasks, bootstrap.Task{
			Name:     "postgres-schema",
			Requires: []string{componentStore},
			Required: true,
			Run:      s.Migrate,
		})
	case *store.MongoStore:
		tasks = append(tasks, bootstrap.Task{
			Name:     "mongo-indexes",
			Requires: []string{componentStore},
			Required: true,
			Run:      s.EnsureIndexes,
		})
	}

	preloadRequires := []string{componentStore}
	if opts.Cache == CacheRedis {
		preloadRequires = append(preloadRequires, componentRedis)
	}

	return append(tasks, bootstrap.Task{
		Name:     "cache-preload",
		Requires: preloadRequires,
		Run: func(ctx context.Context) error {
			svc.Preload(ctx, opts.PreloadCount)

			return nil
		},
	})
}

func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		reg := do.MustInvoke[*prometheus.Registry](i)

		router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

		api := humachi.New(router, huma.DefaultConfig("URL Shortener", "1.0.0"))
		api.UseMiddleware(middleware.AccessLog(logger, do.MustInvoke[*metrics.Metrics](i)))

		urlHandler := handlers.NewURLHandler(do.MustInvoke[*shortener.Service](i), opts.publicBaseURL(), logger)
		userHandler := handlers.NewUserHandler(do.MustInvoke[*users.Service](i), urlHandler, logger)

		handlers.RegisterRoutes(api, urlHandler, userHandler)
		health.RegisterRoutes(api, health.NewHandler(do.MustInvoke[[]health.Component](i)...))

		return api, nil
	})
}

// ConsumerGroupPackage provides the consumers of the hit counter process.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		conn := do.MustInvoke[*RedisConnection](i)
		logger := do.MustInvoke[*zap.Logger](i)
		backend := do.MustInvoke[Backend](i)

		subscriber, err := messaging.NewRedisSubscriber(conn.Client, hits.ConsumerGroup, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("hit subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(subscriber, hits.TopicLinkHit, hits.NewIncrementHandler(backend, logger), logger))

		return group, nil
	})
}
