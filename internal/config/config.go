package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the client and the dev stub API.
type Config struct {
	API    APIConfig
	Store  StoreConfig
	Redis  RedisConfig
	Logger LoggerConfig
	Stub   StubConfig
}

// APIConfig binds the network client to the backend.
type APIConfig struct {
	BaseURL               string
	ConnectTimeoutSeconds int
	ReceiveTimeoutSeconds int
}

// StoreConfig selects and configures the secure credential store backend.
type StoreConfig struct {
	Backend    string // file | redis | memory
	Path       string
	Passphrase string
}

// RedisConfig holds Redis connection values for the redis store backend.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// StubConfig controls the development stub backend.
type StubConfig struct {
	Host                  string
	Port                  string
	JWTSecret             string
	AccessTokenTTLMinutes int
	RefreshTokenTTLDays   int
	BcryptCost            int
	SeedDemoUsers         bool
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL:               getEnv("API_BASE_URL", "http://127.0.0.1:8080/api/v1"),
			ConnectTimeoutSeconds: getEnvAsInt("API_CONNECT_TIMEOUT_SECONDS", 10),
			ReceiveTimeoutSeconds: getEnvAsInt("API_RECEIVE_TIMEOUT_SECONDS", 10),
		},
		Store: StoreConfig{
			Backend:    getEnv("STORE_BACKEND", "file"),
			Path:       getEnv("STORE_PATH", defaultStorePath()),
			Passphrase: getEnv("STORE_PASSPHRASE", "jumushtap-dev-secret"),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "jumushtap:session"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Stub: StubConfig{
			Host:                  getEnv("STUB_HOST", "0.0.0.0"),
			Port:                  getEnv("STUB_PORT", "8080"),
			JWTSecret:             getEnv("STUB_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("STUB_ACCESS_TOKEN_TTL_MINUTES", 60),
			RefreshTokenTTLDays:   getEnvAsInt("STUB_REFRESH_TOKEN_TTL_DAYS", 30),
			BcryptCost:            getEnvAsInt("STUB_BCRYPT_COST", 12),
			SeedDemoUsers:         getEnvAsBool("STUB_SEED_DEMO_USERS", true),
		},
	}

	return cfg, nil
}

// ConnectTimeout returns the configured dial timeout duration.
func (a APIConfig) ConnectTimeout() time.Duration {
	if a.ConnectTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(a.ConnectTimeoutSeconds) * time.Second
}

// ReceiveTimeout returns the configured response timeout duration.
func (a APIConfig) ReceiveTimeout() time.Duration {
	if a.ReceiveTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(a.ReceiveTimeoutSeconds) * time.Second
}

// Addr returns the stub HTTP bind address.
func (s StubConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// AccessTokenTTL returns the stub access token lifetime.
func (s StubConfig) AccessTokenTTL() time.Duration {
	return time.Duration(s.AccessTokenTTLMinutes) * time.Minute
}

// RefreshTokenTTL returns the stub refresh token lifetime.
func (s StubConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(s.RefreshTokenTTLDays) * 24 * time.Hour
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jumushtap/session.enc"
	}
	return home + "/.jumushtap/session.enc"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
