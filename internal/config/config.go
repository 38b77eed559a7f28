package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	defaultAddress       = ":9090"
	defaultTimeout       = 30
	defaultDriver        = "mysql"
	defaultCacheDB       = 0
	defaultKeyPrefix     = "tweet"
	defaultRecentIndex   = "tweets:recent"
	defaultWarmInterval  = 60
	defaultBloomBitSize  = 10000000
	defaultFlushInterval = 5
	defaultLikeRateLimit = 200
	defaultLogLevel      = "info"
	defaultLogFormat     = "json"
)

type Server struct {
	Address        string        `validate:"required"`
	ContextTimeout time.Duration `validate:"gt=0"`
}

type Database struct {
	Driver      string `validate:"oneof=mysql postgres"`
	Host        string `validate:"required"`
	Port        string `validate:"required,numeric"`
	User        string `validate:"required"`
	Pass        string
	Name        string `validate:"required"`
	AutoMigrate bool
}

type Cache struct {
	Host        string `validate:"required"`
	Port        string `validate:"required,numeric"`
	Pass        string
	DB          int    `validate:"gte=0"`
	KeyPrefix   string `validate:"required"`
	RecentIndex string `validate:"required"`

	// WarmInterval 检查索引和布隆过滤器是否需要重新预热的周期
	WarmInterval time.Duration `validate:"gt=0"`
}

func (c Cache) Addr() string {
	return c.Host + ":" + c.Port
}

type Like struct {
	FlushInterval    time.Duration `validate:"gt=0"`
	RequeueOnFailure bool
	RateLimit        int `validate:"gt=0"`
}

type Log struct {
	Level  string `validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `validate:"oneof=json text"`
}

type Config struct {
	Server       Server
	Database     Database
	Cache        Cache
	Like         Like
	Log          Log
	BloomBitSize uint64 `validate:"gt=0"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env file loaded: %v", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Server: Server{
			Address:        stringEnv("SERVER_ADDRESS", defaultAddress),
			ContextTimeout: time.Duration(intEnv("CONTEXT_TIMEOUT", defaultTimeout)) * time.Second,
		},
		Database: Database{
			Driver:      stringEnv("DATABASE_DRIVER", defaultDriver),
			Host:        os.Getenv("DATABASE_HOST"),
			Port:        os.Getenv("DATABASE_PORT"),
			User:        os.Getenv("DATABASE_USER"),
			Pass:        os.Getenv("DATABASE_PASS"),
			Name:        os.Getenv("DATABASE_NAME"),
			AutoMigrate: boolEnv("DATABASE_AUTO_MIGRATE", true),
		},
		Cache: Cache{
			Host:         os.Getenv("CACHE_HOST"),
			Port:         os.Getenv("CACHE_PORT"),
			Pass:         os.Getenv("CACHE_PASS"),
			DB:           intEnv("CACHE_DB", defaultCacheDB),
			KeyPrefix:    stringEnv("CACHE_KEY_PREFIX", defaultKeyPrefix),
			RecentIndex:  stringEnv("CACHE_RECENT_INDEX", defaultRecentIndex),
			WarmInterval: time.Duration(intEnv("CACHE_WARM_INTERVAL", defaultWarmInterval)) * time.Second,
		},
		Like: Like{
			FlushInterval:    time.Duration(intEnv("LIKE_FLUSH_INTERVAL", defaultFlushInterval)) * time.Second,
			RequeueOnFailure: boolEnv("LIKE_REQUEUE_ON_FAILURE", false),
			RateLimit:        intEnv("LIKE_RATE_LIMIT", defaultLikeRateLimit),
		},
		Log: Log{
			Level:  stringEnv("LOG_LEVEL", defaultLogLevel),
			Format: stringEnv("LOG_FORMAT", defaultLogFormat),
		},
		BloomBitSize: uint64Env("BLOOM_FILTER_SIZE", defaultBloomBitSize),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("failed to parse %s, using default %d", key, def)
		return def
	}
	return n
}

func uint64Env(key string, def uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		logrus.Warnf("failed to parse %s, using default %d", key, def)
		return def
	}
	return n
}

func boolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logrus.Warnf("failed to parse %s, using default %t", key, def)
		return def
	}
	return b
}
