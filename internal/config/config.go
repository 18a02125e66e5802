package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr   string
	FakeStoreURL string
	HTTPTimeout  time.Duration
	LogLevel     string
	SessionTTL   time.Duration

	// KafkaAddress empty disables event publishing.
	KafkaAddress string
	KafkaTopic   string

	// RedisAddr empty disables the catalog response cache.
	RedisAddr string
	CacheTTL  time.Duration
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid duration in %s=%q, using default %s", k, v, def)
		return def
	}
	return d
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		ListenAddr:   getenv("SERVER_ADDR", ":8080"),
		FakeStoreURL: getenv("FAKESTORE_URL", "https://fakestoreapi.com"),
		HTTPTimeout:  getduration("HTTP_TIMEOUT", 10*time.Second),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		SessionTTL:   getduration("SESSION_TTL", 30*time.Minute),
		KafkaAddress: os.Getenv("KAFKA_ADDRESS"),
		KafkaTopic:   getenv("KAFKA_TOPIC", "storefront_events"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		CacheTTL:     getduration("CACHE_TTL", 5*time.Minute),
	}
	return cfg
}
