package container

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-address-dispatch/config"
	"github.com/oksasatya/go-address-dispatch/internal/application"
	repo "github.com/oksasatya/go-address-dispatch/internal/domain/repository"
	pginfra "github.com/oksasatya/go-address-dispatch/internal/infrastructure/postgres"
	"github.com/oksasatya/go-address-dispatch/internal/infrastructure/search"
	gcsinfra "github.com/oksasatya/go-address-dispatch/internal/infrastructure/storage"
	"github.com/oksasatya/go-address-dispatch/pkg/helpers"
)

// Container holds the components built once at startup. It is passed by
// reference to the router and the commands; nothing here is global.
type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	PGPool  *pgxpool.Pool
	Redis   *redis.Client
	GCS     *storage.Client
	ES      *elasticsearch.Client
	Rabbit  *helpers.RabbitPublisher
	JWT     *helpers.JWTManager
	Metrics *prometheus.Registry

	Users     repo.UserRepository
	Addresses repo.AddressRepository

	AuthSvc    *application.AuthService
	AddressSvc *application.AddressService
}

// New opens the store and the optional backends named in cfg. Optional
// backends that fail to come up are logged and left nil.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		JWT:     helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL),
		Metrics: prometheus.NewRegistry(),
	}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	c.PGPool = pool
	c.Users = pginfra.NewUserRepository(pool, cfg.StoreTimeout)
	c.Addresses = pginfra.NewAddressRepository(pool, cfg.StoreTimeout)

	c.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			helpers.LogError(logger, "redis unreachable, stats cache and rate limits disabled", err, logrus.Fields{"addr": cfg.RedisAddr})
			_ = c.Redis.Close()
			c.Redis = nil
		}
	}

	if cfg.EventsEnabled && cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue)
		if err != nil {
			helpers.LogError(logger, "rabbitmq unavailable, events disabled", err, nil)
		} else {
			c.Rabbit = pub
		}
	}

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		helpers.LogError(logger, "elasticsearch client init failed, search disabled", err, nil)
	} else {
		c.ES = es
	}

	gcs, err := helpers.NewGCSClient(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSONPath)
	if err != nil {
		helpers.LogError(logger, "gcs client init failed, export disabled", err, nil)
	} else {
		c.GCS = gcs
	}

	c.Wire()
	return c, nil
}

// Wire builds the application services from whatever is set on c. Tests set
// Users and Addresses to fakes and call Wire directly.
func (c *Container) Wire() {
	if c.Logger == nil {
		c.Logger = helpers.NewNopLogger()
	}
	if c.Metrics == nil {
		c.Metrics = prometheus.NewRegistry()
	}

	var pub application.EventPublisher
	if c.Rabbit != nil {
		pub = c.Rabbit
	}

	c.AuthSvc = application.NewAuthService(c.Users, c.JWT, pub, c.Logger)
	c.AddressSvc = application.NewAddressService(c.Addresses, c.Redis, c.Config.StatsCacheTTL, pub, c.Logger)
	if c.ES != nil {
		c.AddressSvc.Search = search.NewAddressIndex(c.ES, c.Config.ESAddressesIndex)
	}
	if c.GCS != nil {
		c.AddressSvc.Uploader = gcsinfra.NewGCSUploader(c.GCS, c.Config.GCSBucket)
	}
}

// Close releases every backend that was opened.
func (c *Container) Close() {
	if c.Rabbit != nil {
		c.Rabbit.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
}
