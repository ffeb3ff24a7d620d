package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes every storefront environment variable.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Catalog source kinds, mirroring the switchable product backends.
const (
	CatalogSourceMock = "mock"
	CatalogSourceREST = "rest"
)

// Cart storage kinds.
const (
	CartStorageMemory = "memory"
	CartStorageRedis  = "redis"
	CartStorageDB     = "db"
)

type Config struct {
	App     AppConfig
	Catalog CatalogConfig
	Cart    CartConfig
	Redis   RedisConfig
	DB      DBConfig
	CORS    CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Catalog.Source {
	case CatalogSourceMock:
	case CatalogSourceREST:
		if c.Catalog.RESTBaseURL == "" {
			return fmt.Errorf("STOREFRONT_CATALOG_REST_BASE_URL is required when catalog source is %q", CatalogSourceREST)
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}

	switch c.Cart.Storage {
	case CartStorageMemory:
	case CartStorageRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("redis url or address is required when cart storage is %q", CartStorageRedis)
		}
	case CartStorageDB:
		if c.DB.Driver == DBDriverPostgres && c.DB.DSN == "" {
			return fmt.Errorf("STOREFRONT_DB_DSN is required when db driver is %q", DBDriverPostgres)
		}
	default:
		return fmt.Errorf("unknown cart storage %q", c.Cart.Storage)
	}
	return nil
}

type AppConfig struct {
	Env      string `envconfig:"STOREFRONT_APP_ENV" default:"development"`
	Port     string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig selects where the product collection is fetched from.
type CatalogConfig struct {
	Source          string        `envconfig:"STOREFRONT_CATALOG_SOURCE" default:"mock"`
	RESTBaseURL     string        `envconfig:"STOREFRONT_CATALOG_REST_BASE_URL"`
	RequestTimeout  time.Duration `envconfig:"STOREFRONT_CATALOG_REQUEST_TIMEOUT" default:"10s"`
	RefreshInterval time.Duration `envconfig:"STOREFRONT_CATALOG_REFRESH_INTERVAL" default:"0"`
}

// CartConfig selects the durable slot carts are persisted to.
type CartConfig struct {
	Storage     string        `envconfig:"STOREFRONT_CART_STORAGE" default:"memory"`
	SnapshotTTL time.Duration `envconfig:"STOREFRONT_CART_SNAPSHOT_TTL" default:"720h"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

type DBConfig struct {
	Driver          string        `envconfig:"STOREFRONT_DB_DRIVER" default:"sqlite"`
	DSN             string        `envconfig:"STOREFRONT_DB_DSN"`
	SQLitePath      string        `envconfig:"STOREFRONT_DB_SQLITE_PATH" default:"storefront.db"`
	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
