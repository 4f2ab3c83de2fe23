package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBSource  string
	JWTSecret string

	// Payment gateway server key used to verify webhook signatures.
	PaymentServerKey string
	PendingTTL       time.Duration

	RedisAddr string
	RedisDB   int

	KafkaBrokers     []string
	KafkaTopicPrefix string
	OutboxInterval   time.Duration

	CatalogBaseURL  string
	IdentityBaseURL string
	ServiceToken    string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	return &Config{
		Port:             getEnv("PORT", "8000"),
		DBSource:         getEnv("DB_SOURCE", "fasteats.db"),
		JWTSecret:        getEnv("JWT_SECRET", "changeme"),
		PaymentServerKey: getEnv("PAYMENT_SERVER_KEY", "changeme"),
		PendingTTL:       getDuration("PENDING_TTL", 30*time.Minute),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:          getInt("REDIS_DB", 0),
		KafkaBrokers:     []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", "fasteats"),
		OutboxInterval:   getDuration("OUTBOX_INTERVAL", 5*time.Second),
		CatalogBaseURL:   getEnv("CATALOG_BASE_URL", "http://localhost:8001"),
		IdentityBaseURL:  getEnv("IDENTITY_BASE_URL", "http://localhost:8002"),
		ServiceToken:     os.Getenv("SERVICE_TOKEN"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
