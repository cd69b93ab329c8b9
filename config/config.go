package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
type Config struct {
	ServerPort string
	CORSOrigin string

	MongoURI    string
	MongoDBName string
	// StoreTimeout bounds every single store call.
	StoreTimeout time.Duration

	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	LogFile  string
	LogLevel string

	// CassandraHosts is empty when notifications are disabled.
	CassandraHosts    []string
	CassandraKeyspace string
}

// Load reads an optional .env file and then the process environment.
// The returned bool reports whether a .env file was found.
func Load(envFile string) (*Config, bool, error) {
	loaded := godotenv.Load(envFile) == nil

	cfg := &Config{
		ServerPort:        EnvOrDefault("SERVER_PORT", "8080"),
		CORSOrigin:        EnvOrDefault("CORS_ORIGIN", "*"),
		MongoURI:          EnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:       EnvOrDefault("MONGO_DB_NAME", "taskflow"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		LogFile:           EnvOrDefault("LOG_FILE", "logs/dashboard.log"),
		LogLevel:          EnvOrDefault("LOG_LEVEL", "info"),
		CassandraKeyspace: EnvOrDefault("CASS_KEYSPACE", "notifications"),
	}

	if hosts := os.Getenv("CASS_DB"); hosts != "" {
		for _, h := range strings.Split(hosts, ",") {
			if h = strings.TrimSpace(h); h != "" {
				cfg.CassandraHosts = append(cfg.CassandraHosts, h)
			}
		}
	}

	var err error
	if cfg.StoreTimeout, err = durationEnv("STORE_TIMEOUT", 5*time.Second); err != nil {
		return nil, loaded, err
	}
	if cfg.TokenTTL, err = durationEnv("TOKEN_TTL", 2*time.Hour); err != nil {
		return nil, loaded, err
	}
	if cfg.BreakerOpenTimeout, err = durationEnv("BREAKER_OPEN_TIMEOUT", 5*time.Second); err != nil {
		return nil, loaded, err
	}

	failures, err := strconv.ParseUint(EnvOrDefault("BREAKER_MAX_FAILURES", "3"), 10, 32)
	if err != nil {
		return nil, loaded, fmt.Errorf("invalid BREAKER_MAX_FAILURES: %w", err)
	}
	cfg.BreakerMaxFailures = uint32(failures)

	if cfg.JWTSecret == "" {
		return nil, loaded, fmt.Errorf("JWT_SECRET is not set")
	}
	if cfg.StoreTimeout <= 0 {
		return nil, loaded, fmt.Errorf("STORE_TIMEOUT must be positive")
	}

	return cfg, loaded, nil
}

// EnvOrDefault returns the environment variable value or fallback when it is empty.
func EnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
