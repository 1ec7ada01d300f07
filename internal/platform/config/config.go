package config

import (
	"os"
	"strings"
	"time"
)

// Config captures process-level configuration. Postgres, redis, and kafka
// are optional: unset URLs fall back to in-memory stores and a disabled
// audit publisher, which keeps local development dependency-free.
type Config struct {
	Addr            string
	PostgresURL     string
	RedisURL        string
	KafkaSeeds      []string
	AuditTopic      string
	JWTSigningKey   string
	RecordCacheTTL  time.Duration
	ShutdownTimeout time.Duration
	Debug           bool
}

// FromEnv builds the config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:            envOr("MINTGUARD_ADDR", ":8080"),
		PostgresURL:     os.Getenv("MINTGUARD_POSTGRES_URL"),
		RedisURL:        os.Getenv("MINTGUARD_REDIS_URL"),
		AuditTopic:      envOr("MINTGUARD_AUDIT_TOPIC", "mintguard.audit"),
		JWTSigningKey:   os.Getenv("MINTGUARD_JWT_SIGNING_KEY"),
		RecordCacheTTL:  durationOr("MINTGUARD_RECORD_CACHE_TTL", 5*time.Minute),
		ShutdownTimeout: durationOr("MINTGUARD_SHUTDOWN_TIMEOUT", 10*time.Second),
		Debug:           os.Getenv("MINTGUARD_DEBUG") != "",
	}
	if seeds := os.Getenv("MINTGUARD_KAFKA_SEEDS"); seeds != "" {
		cfg.KafkaSeeds = strings.Split(seeds, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
