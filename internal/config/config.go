// Package config loads the service configuration from a file and AUCTION_*
// environment variables through viper.
package config

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	"github.com/goliatone/go-auction-query/cache"
	"github.com/goliatone/go-auction-query/internal/cacheinfra"
	"github.com/goliatone/go-auction-query/pkg/logger"
	"github.com/goliatone/go-auction-query/query"
)

// EnvPrefix prefixes every environment override, e.g. AUCTION_CACHE_BACKEND.
const EnvPrefix = "AUCTION"

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Log      LogConfig      `mapstructure:"log"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Database DatabaseConfig `mapstructure:"database"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type CacheConfig struct {
	Backend            string        `mapstructure:"backend"` // memory | redis
	Codec              string        `mapstructure:"codec"`   // json | msgpack
	Capacity           int           `mapstructure:"capacity"`
	NumShards          int           `mapstructure:"num_shards"`
	EvictionPercentage int           `mapstructure:"eviction_percentage"`
	MaxTTL             time.Duration `mapstructure:"max_ttl"`
	ListItemsTTL       time.Duration `mapstructure:"list_items_ttl"`
	CategoriesTTL      time.Duration `mapstructure:"categories_ttl"`
	PriceRangeTTL      time.Duration `mapstructure:"price_range_ttl"`
	SlidingExpiration  time.Duration `mapstructure:"sliding_expiration"`
	Redis              RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
	PoolSize  int    `mapstructure:"pool_size"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // memory | sqlite3 | postgres
	DSN    string `mapstructure:"dsn"`
	Seed   bool   `mapstructure:"seed"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	sturdy := cacheinfra.DefaultConfig()
	queries := query.DefaultConfig()
	redis := cacheinfra.DefaultRedisConfig()
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.codec", "json")
	v.SetDefault("cache.capacity", sturdy.Capacity)
	v.SetDefault("cache.num_shards", sturdy.NumShards)
	v.SetDefault("cache.eviction_percentage", sturdy.EvictionPercentage)
	v.SetDefault("cache.max_ttl", sturdy.TTL)
	v.SetDefault("cache.list_items_ttl", queries.ListItemsTTL)
	v.SetDefault("cache.categories_ttl", queries.CategoriesTTL)
	v.SetDefault("cache.price_range_ttl", queries.PriceRangeTTL)
	v.SetDefault("cache.sliding_expiration", time.Duration(0))
	v.SetDefault("cache.redis.addr", redis.Addr)
	v.SetDefault("cache.redis.username", "")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", redis.DB)
	v.SetDefault("cache.redis.key_prefix", redis.KeyPrefix)
	v.SetDefault("cache.redis.pool_size", redis.PoolSize)

	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.seed", true)
}

// Load reads path (any format viper understands) when it is not empty,
// applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	err := validation.Errors{
		"http.addr":         validation.Validate(c.HTTP.Addr, validation.Required),
		"cache.backend":     validation.Validate(c.Cache.Backend, validation.Required, validation.In("memory", "redis")),
		"cache.codec":       validation.Validate(c.Cache.Codec, validation.Required, validation.In("json", "msgpack")),
		"cache.redis.addr":  validation.Validate(c.Cache.Redis.Addr, validation.When(c.Cache.Backend == "redis", validation.Required)),
		"database.driver":   validation.Validate(c.Database.Driver, validation.Required, validation.In("memory", "sqlite3", "postgres")),
		"database.dsn":      validation.Validate(c.Database.DSN, validation.When(c.Database.Driver != "memory", validation.Required)),
		"cache.sliding_expiration": validation.Validate(c.Cache.SlidingExpiration, validation.Min(time.Duration(0))),
	}.Filter()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Logger returns the logger settings.
func (c Config) Logger() logger.Config {
	return logger.Config{Level: c.Log.Level, Development: c.Log.Development}
}

// Store returns the in-process store settings.
func (c CacheConfig) Store() cacheinfra.Config {
	cfg := cacheinfra.DefaultConfig()
	cfg.Capacity = c.Capacity
	cfg.NumShards = c.NumShards
	cfg.EvictionPercentage = c.EvictionPercentage
	cfg.TTL = c.MaxTTL
	return cfg
}

// RedisStore returns the redis store settings.
func (c CacheConfig) RedisStore() cacheinfra.RedisConfig {
	cfg := cacheinfra.DefaultRedisConfig()
	cfg.Addr = c.Redis.Addr
	cfg.Username = c.Redis.Username
	cfg.Password = c.Redis.Password
	cfg.DB = c.Redis.DB
	cfg.KeyPrefix = c.Redis.KeyPrefix
	cfg.PoolSize = c.Redis.PoolSize
	return cfg
}

// Queries returns the caching policy of the query handlers.
func (c CacheConfig) Queries() query.Config {
	return query.Config{
		ListItemsTTL:      c.ListItemsTTL,
		CategoriesTTL:     c.CategoriesTTL,
		PriceRangeTTL:     c.PriceRangeTTL,
		SlidingExpiration: c.SlidingExpiration,
		Codec:             cache.CodecByName(c.Codec),
	}
}
