package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Storage backends.
const (
	StoreFile     = "file"
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Event brokers.
const (
	EventsMemory = "memory"
	EventsRedis  = "redis"
)

var (
	storeBackends = []string{StoreFile, StoreMemory, StoreRedis, StorePostgres}
	eventBrokers  = []string{EventsMemory, EventsRedis}
	logFormats    = []string{"json", "text"}
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Workspace WorkspaceConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// StorageConfig selects where state lives and how events fan out.
type StorageConfig struct {
	Backend string
	Events  string
	DataDir string
}

// WorkspaceConfig holds the task list and timer settings.
type WorkspaceConfig struct {
	Name         string
	TickInterval time.Duration
	IOTimeout    time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// RateLimitConfig holds the per-client request budget.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables.
// Defaults run a single local workspace backed by files in ./data.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("FOCUSDESK_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("FOCUSDESK_DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("FOCUSDESK_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("FOCUSDESK_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("FOCUSDESK_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	shutdownTimeout, err := getEnvDuration("FOCUSDESK_SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	tickInterval, err := getEnvDuration("FOCUSDESK_TICK_INTERVAL", time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	ioTimeout, err := getEnvDuration("FOCUSDESK_IO_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rps, err := getEnvFloat("FOCUSDESK_RATE_LIMIT_RPS", 20)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	burst, err := getEnvInt("FOCUSDESK_RATE_LIMIT_BURST", 40)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("FOCUSDESK_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("FOCUSDESK_SERVER_ADDR", ":8080"),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
			CORSOrigins:     corsOrigins,
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getEnv("FOCUSDESK_STORE", StoreFile)),
			Events:  strings.ToLower(getEnv("FOCUSDESK_EVENTS", EventsMemory)),
			DataDir: getEnv("FOCUSDESK_DATA_DIR", "./data"),
		},
		Workspace: WorkspaceConfig{
			Name:         getEnv("FOCUSDESK_WORKSPACE", "default"),
			TickInterval: tickInterval,
			IOTimeout:    ioTimeout,
		},
		Database: DatabaseConfig{
			Host:     getEnv("FOCUSDESK_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("FOCUSDESK_DB_USER", "focusdesk"),
			Password: getEnv("FOCUSDESK_DB_PASSWORD", ""),
			DBName:   getEnv("FOCUSDESK_DB_NAME", "focusdesk"),
			SSLMode:  getEnv("FOCUSDESK_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("FOCUSDESK_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("FOCUSDESK_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		RateLimit: RateLimitConfig{
			RPS:   rps,
			Burst: burst,
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("FOCUSDESK_LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("FOCUSDESK_LOG_FORMAT", "json")),
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks enumerations and value bounds.
func (c *Config) validate() error {
	if !slices.Contains(storeBackends, c.Storage.Backend) {
		return fmt.Errorf("FOCUSDESK_STORE must be one of %s, got %q", strings.Join(storeBackends, "|"), c.Storage.Backend)
	}
	if !slices.Contains(eventBrokers, c.Storage.Events) {
		return fmt.Errorf("FOCUSDESK_EVENTS must be one of %s, got %q", strings.Join(eventBrokers, "|"), c.Storage.Events)
	}
	if c.Storage.Backend == StoreFile && c.Storage.DataDir == "" {
		return errors.New("FOCUSDESK_DATA_DIR is required for the file store")
	}
	if strings.TrimSpace(c.Workspace.Name) == "" {
		return errors.New("FOCUSDESK_WORKSPACE must not be blank")
	}

	if c.Storage.Backend == StorePostgres && c.Database.SSLMode == "disable" {
		log.Warn().Msg("FOCUSDESK_DB_SSLMODE=disable is insecure outside local development")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("FOCUSDESK_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("FOCUSDESK_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("FOCUSDESK_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("FOCUSDESK_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("FOCUSDESK_SERVER_SHUTDOWN_TIMEOUT must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if c.Workspace.TickInterval <= 0 {
		return fmt.Errorf("FOCUSDESK_TICK_INTERVAL must be positive, got %s", c.Workspace.TickInterval)
	}
	if c.Workspace.IOTimeout <= 0 {
		return fmt.Errorf("FOCUSDESK_IO_TIMEOUT must be positive, got %s", c.Workspace.IOTimeout)
	}
	if c.RateLimit.RPS <= 0 {
		return fmt.Errorf("FOCUSDESK_RATE_LIMIT_RPS must be positive, got %g", c.RateLimit.RPS)
	}
	if c.RateLimit.Burst < 1 {
		return fmt.Errorf("FOCUSDESK_RATE_LIMIT_BURST must be >= 1, got %d", c.RateLimit.Burst)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil || c.Log.Level == "" {
		return fmt.Errorf("FOCUSDESK_LOG_LEVEL is not a valid level: %q", c.Log.Level)
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		return fmt.Errorf("FOCUSDESK_LOG_FORMAT must be json or text, got %q", c.Log.Format)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
