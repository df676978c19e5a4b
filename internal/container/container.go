// Package container wires the application together. Every component is
// constructed exactly once here and injected where needed; nothing in
// the core reaches for globals.
package container

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/pocketlink/internal/analytics"
	analyticsstore "github.com/serroba/pocketlink/internal/analytics/store"
	"github.com/serroba/pocketlink/internal/applog"
	"github.com/serroba/pocketlink/internal/handlers"
	"github.com/serroba/pocketlink/internal/kv"
	"github.com/serroba/pocketlink/internal/messaging"
	"github.com/serroba/pocketlink/internal/middleware"
	"github.com/serroba/pocketlink/internal/shortener"
	"github.com/serroba/pocketlink/internal/store"
	"go.uber.org/zap"
)

// Options configures the application.
type Options struct {
	Port        int    `default:"8888"           help:"Port to listen on"                                   short:"p"`
	BaseURL     string `default:""               help:"Public base URL, defaults to http://localhost:PORT"`
	Storage     string `default:"file"           enum:"memory,file,redis,postgres"                          help:"Persistence substrate"`
	DataDir     string `default:"./data"         help:"Data directory for the file substrate"`
	RedisAddr   string `default:"localhost:6379" help:"Redis server address"                                short:"r"`
	PostgresDSN string `default:""               help:"PostgreSQL connection string"`
	Broker      string `default:"channel"        enum:"channel,redis"                                       help:"Analytics event transport"`
	LogFormat   string `default:"console"        enum:"console,json"                                        help:"Log output format"`
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// StoragePackage provides the kv substrate, its backing clients and the
// persisted observer log.
func StoragePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{Addr: options.RedisAddr}), nil
	})

	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		return pgxpool.New(context.Background(), options.PostgresDSN)
	})

	do.Provide(injector, func(i *do.Injector) (kv.Store, error) {
		options := do.MustInvoke[*Options](i)

		switch options.Storage {
		case "memory":
			return kv.NewMemoryStore(), nil
		case "file":
			return kv.NewFileStore(options.DataDir)
		case "redis":
			return kv.NewRedisStore(do.MustInvoke[*redis.Client](i)), nil
		case "postgres":
			substrate := kv.NewPostgresStore(do.MustInvoke[*pgxpool.Pool](i))
			if err := substrate.Setup(context.Background()); err != nil {
				return nil, fmt.Errorf("setup postgres substrate: %w", err)
			}

			return substrate, nil
		default:
			return nil, fmt.Errorf("unknown storage backend %q", options.Storage)
		}
	})

	do.Provide(injector, func(i *do.Injector) (*applog.Logger, error) {
		return applog.New(
			do.MustInvoke[kv.Store](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// MessagingPackage provides the analytics event transport.
func MessagingPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*gochannel.GoChannel, error) {
		return gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false)), nil
	})

	do.Provide(injector, func(i *do.Injector) (message.Publisher, error) {
		options := do.MustInvoke[*Options](i)

		if options.Broker == "redis" {
			return redisstream.NewPublisher(redisstream.PublisherConfig{
				Client: do.MustInvoke[*redis.Client](i),
			}, watermill.NewStdLogger(false, false))
		}

		return do.MustInvoke[*gochannel.GoChannel](i), nil
	})

	do.Provide(injector, func(i *do.Injector) (message.Subscriber, error) {
		options := do.MustInvoke[*Options](i)

		if options.Broker == "redis" {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        do.MustInvoke[*redis.Client](i),
				ConsumerGroup: "pocketlink-analytics",
			}, watermill.NewStdLogger(false, false))
		}

		return do.MustInvoke[*gochannel.GoChannel](i), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		return messaging.NewPublisherGroup(do.MustInvoke[message.Publisher](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.LinkCreatedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.LinkCreatedEvent](group.Publisher(), analytics.TopicLinkCreated), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.LinkClickedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.LinkClickedEvent](group.Publisher(), analytics.TopicLinkClicked), nil
	})
}

// ShortenerPackage provides the lifecycle core: record store, generator,
// submission service, click recorder and resolver.
func ShortenerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*shortener.Generator, error) {
		return shortener.NewGenerator(), nil
	})

	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		return store.NewRecordStore(
			do.MustInvoke[kv.Store](i),
			do.MustInvoke[*applog.Logger](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		return shortener.NewService(
			do.MustInvoke[shortener.Repository](i),
			do.MustInvoke[*shortener.Generator](i),
			do.MustInvoke[messaging.Publish[analytics.LinkCreatedEvent]](i),
			do.MustInvoke[*applog.Logger](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.ClickRecorder, error) {
		return shortener.NewClickRecorder(
			do.MustInvoke[shortener.Repository](i),
			shortener.UniformSampler{},
			do.MustInvoke[messaging.Publish[analytics.LinkClickedEvent]](i),
			do.MustInvoke[*applog.Logger](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Resolver, error) {
		return shortener.NewResolver(
			do.MustInvoke[shortener.Repository](i),
			do.MustInvoke[*shortener.ClickRecorder](i),
			do.MustInvoke[*applog.Logger](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// HTTPPackage provides the router and the huma API with all routes
// registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		router := do.MustInvoke[*chi.Mux](i)

		api := humachi.New(router, huma.DefaultConfig("pocketlink", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api))

		baseURL := options.BaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("http://localhost:%d", options.Port)
		}

		urlHandler := handlers.NewURLHandler(
			do.MustInvoke[*shortener.Service](i),
			do.MustInvoke[*shortener.Resolver](i),
			baseURL,
			do.MustInvoke[*zap.Logger](i),
		)
		healthHandler := handlers.NewHealthHandler(
			handlers.NewSubstrateHealthChecker(do.MustInvoke[kv.Store](i)),
		)

		handlers.RegisterRoutes(api, urlHandler, healthHandler)

		return api, nil
	})
}

// ConsumerGroupPackage provides the analytics consumers aggregating the
// event feed into the substrate.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		return analyticsstore.NewKVCounts(do.MustInvoke[kv.Store](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		subscriber := do.MustInvoke[message.Subscriber](i)
		logger := do.MustInvoke[*zap.Logger](i)

		group := messaging.NewConsumerGroup(subscriber, logger)
		analytics.AddConsumers(group, subscriber, do.MustInvoke[analytics.Store](i), logger)

		return group, nil
	})
}
