// Package config loads service configuration from the environment so main
// stays lean. Every backend has an in-memory default; production deployments
// opt into postgres/redis, GCS or local disk, and Kafka via env vars.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	strutil "vouch/pkg/platform/strings"
)

// Backend names accepted by VOUCH_STORE_BACKEND.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Backend names accepted by VOUCH_BLOB_BACKEND.
const (
	BlobMemory  = "memory"
	BlobLocalFS = "localfs"
	BlobGCS     = "gcs"
)

// Config is the full service configuration.
type Config struct {
	Addr     string
	LogLevel string

	StoreBackend string
	PostgresDSN  string
	Redis        RedisConfig

	BlobBackend string
	LocalDir    string
	GCSBucket   string

	Kafka KafkaConfig

	ShutdownTimeout time.Duration
}

// RedisConfig tunes the go-redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the audit event sink. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables, applying defaults that
// let the service run with no external dependencies.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:            envOr("VOUCH_ADDR", ":8080"),
		LogLevel:        envOr("VOUCH_LOG_LEVEL", "info"),
		StoreBackend:    envOr("VOUCH_STORE_BACKEND", StoreMemory),
		PostgresDSN:     os.Getenv("VOUCH_POSTGRES_DSN"),
		BlobBackend:     envOr("VOUCH_BLOB_BACKEND", BlobMemory),
		LocalDir:        envOr("VOUCH_BLOB_DIR", "./data/documents"),
		GCSBucket:       os.Getenv("VOUCH_GCS_BUCKET"),
		ShutdownTimeout: envDurationOr("VOUCH_SHUTDOWN_TIMEOUT", 10*time.Second),
		Redis: RedisConfig{
			URL:          os.Getenv("VOUCH_REDIS_URL"),
			PoolSize:     envIntOr("VOUCH_REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("VOUCH_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("VOUCH_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("VOUCH_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("VOUCH_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("VOUCH_KAFKA_BROKERS")),
			Topic:   envOr("VOUCH_KAFKA_TOPIC", "vouch.kyc.audit"),
		},
	}

	switch cfg.StoreBackend {
	case StoreMemory:
	case StorePostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("VOUCH_POSTGRES_DSN is required when VOUCH_STORE_BACKEND=postgres")
		}
	case StoreRedis:
		if cfg.Redis.URL == "" {
			return Config{}, fmt.Errorf("VOUCH_REDIS_URL is required when VOUCH_STORE_BACKEND=redis")
		}
	default:
		return Config{}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	switch cfg.BlobBackend {
	case BlobMemory, BlobLocalFS:
	case BlobGCS:
		if cfg.GCSBucket == "" {
			return Config{}, fmt.Errorf("VOUCH_GCS_BUCKET is required when VOUCH_BLOB_BACKEND=gcs")
		}
	default:
		return Config{}, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// splitList parses a comma-separated list, dropping blanks and duplicates.
func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return strutil.DedupeAndTrim(strings.Split(v, ","))
}
