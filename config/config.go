package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Postgres    PostgresConfig
	HTTP        HTTPConfig
	StorageType string
	LogLevel    string
}

type PostgresConfig struct {
	User     string
	Password string
	DB       string
	Host     string
	Port     int
	SSLMode  string
}

func (pc PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.User,
		pc.Password,
		pc.Host,
		pc.Port,
		pc.DB,
		pc.SSLMode,
	)
}

type HTTPConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// ClientConfig configures the remote comment client used by threadctl.
type ClientConfig struct {
	BaseURL string
	Token   string
	UserID  int64
	Timeout time.Duration
}

const DefaultClientTimeout = 10 * time.Second

// LoadClientConfig reads client defaults from BOOKTHREADS_* variables.
// Command-line flags override them, so nothing here is required.
func LoadClientConfig() (ClientConfig, error) {
	cfg := ClientConfig{
		BaseURL: getEnv("BOOKTHREADS_API_URL", "http://localhost:8080"),
		Token:   os.Getenv("BOOKTHREADS_TOKEN"),
		Timeout: DefaultClientTimeout,
	}

	if raw := os.Getenv("BOOKTHREADS_USER_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid BOOKTHREADS_USER_ID %q: %w", raw, err)
		}
		cfg.UserID = id
	}

	if raw := os.Getenv("BOOKTHREADS_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return cfg, fmt.Errorf("invalid BOOKTHREADS_TIMEOUT %q: %w", raw, err)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

func LoadConfig() Config {
	storageType := getEnv("STORAGE_TYPE", StorageMemory)

	cfg := Config{
		StorageType: storageType,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTP: HTTPConfig{
			Port:            mustGetEnv("HTTP_PORT"),
			ShutdownTimeout: getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
	}

	if storageType == StoragePostgres {
		cfg.Postgres = PostgresConfig{
			User:     mustGetEnv("POSTGRES_USER"),
			Password: mustGetEnv("POSTGRES_PASSWORD"),
			DB:       mustGetEnv("POSTGRES_DB"),
			Host:     mustGetEnv("POSTGRES_HOST"),
			Port:     mustGetInt("POSTGRES_PORT"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		}
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("missing required env var: " + key)
	}
	return val
}

func mustGetInt(key string) int {
	val := mustGetEnv(key)
	i, err := strconv.Atoi(val)
	if err != nil {
		panic("invalid int for env var " + key + ": " + val)
	}
	return i
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		panic("invalid duration for env var " + key + ": " + val)
	}
	return d
}
