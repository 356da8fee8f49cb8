package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Paging limits for list endpoints.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Config struct {
	Port                string
	MongoURI            string
	DBName              string
	JWTSecret           string
	JWTExpiration       time.Duration
	FirebaseCredentials string
	StorySweepInterval  time.Duration
	NotifyQueueSize     int
}

// Load reads .env (when present) and the environment. MONGO_URI, DB_NAME
// and JWT_SECRET are required; everything else has a default.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		MongoURI:            os.Getenv("MONGO_URI"),
		DBName:              os.Getenv("DB_NAME"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		JWTExpiration:       time.Duration(getEnvInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
		FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS"),
		StorySweepInterval:  time.Duration(getEnvInt("STORY_SWEEP_INTERVAL_MINUTES", 60)) * time.Minute,
		NotifyQueueSize:     getEnvInt("NOTIFY_QUEUE_SIZE", 256),
	}

	if cfg.MongoURI == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("MONGO_URI and DB_NAME are required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
