// internal/pkg/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Asynq    AsynqConfig
	Security SecurityConfig
	Server   ServerConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text
	Debug       bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxConnections     int32
	MinConnections     int32
	MaxConnLifetime    time.Duration
	MaxConnIdleTime    time.Duration
	HealthCheckPeriod  time.Duration
	ConnectTimeout     time.Duration
	EnableQueryLogging bool
	RunMigrations      bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	TTL          time.Duration
}

// AsynqConfig holds Asynq configuration
type AsynqConfig struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	Concurrency     int
	Queues          map[string]int // queue name -> priority
	StrictPriority  bool
	RetryMax        int
	ShutdownTimeout time.Duration
	RefreshInterval time.Duration
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimitRequests int
	RateLimitDuration time.Duration
	AllowedOrigins    []string
	SecureHeaders     bool
	RequestIDHeader   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	MaxHeaderBytes  int
	GracefulTimeout time.Duration
}

// Load loads configuration from environment variables
func Load(logger *slog.Logger) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file in development
	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded successfully")
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetTypeByDefaultValue(true)

	setDefaults()

	cfg := &Config{
		App: AppConfig{
			Name:        envString("APP_NAME", "stockroom-api"),
			Environment: env,
			Version:     envString("APP_VERSION", "dev"),
			LogLevel:    envString("LOG_LEVEL", "debug"),
			LogFormat:   envString("LOG_FORMAT", "json"),
			Debug:       envBool("APP_DEBUG", env == "development"),
		},
		Database: DatabaseConfig{
			Host:               envString("DB_HOST", "localhost"),
			Port:               envString("DB_PORT", "5432"),
			User:               envString("DB_USER", "stockroom"),
			Password:           envString("DB_PASSWORD", "stockroom_dev"),
			Name:               envString("DB_NAME", "stockroom"),
			SSLMode:            envString("DB_SSL_MODE", "disable"),
			MaxConnections:     int32(envInt("DB_MAX_CONNECTIONS", 25)),
			MinConnections:     int32(envInt("DB_MIN_CONNECTIONS", 5)),
			MaxConnLifetime:    envDuration("DB_CONNECTION_LIFETIME", time.Hour),
			MaxConnIdleTime:    envDuration("DB_IDLE_TIME", 30*time.Minute),
			HealthCheckPeriod:  envDuration("DB_HEALTH_CHECK_PERIOD", time.Minute),
			ConnectTimeout:     envDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
			EnableQueryLogging: envBool("DB_QUERY_LOGGING", env == "development"),
			RunMigrations:      envBool("DB_RUN_MIGRATIONS", true),
		},
		Redis: RedisConfig{
			Host:         envString("REDIS_HOST", "localhost"),
			Port:         envString("REDIS_PORT", "6379"),
			Password:     envString("REDIS_PASSWORD", ""),
			DB:           envInt("REDIS_DB", 0),
			MaxRetries:   envInt("REDIS_MAX_RETRIES", 3),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			TTL:          envDuration("REDIS_TTL", time.Hour),
		},
		Asynq: AsynqConfig{
			RedisAddr:       fmt.Sprintf("%s:%s", envString("REDIS_HOST", "localhost"), envString("REDIS_PORT", "6379")),
			RedisPassword:   envString("REDIS_PASSWORD", ""),
			RedisDB:         envInt("ASYNQ_REDIS_DB", 0),
			Concurrency:     envInt("ASYNQ_CONCURRENCY", 10),
			Queues:          parseQueues(envString("ASYNQ_QUEUES", "critical:6,default:3,low:1")),
			StrictPriority:  envBool("ASYNQ_STRICT_PRIORITY", false),
			RetryMax:        envInt("ASYNQ_RETRY_MAX", 3),
			ShutdownTimeout: envDuration("ASYNQ_SHUTDOWN_TIMEOUT", 30*time.Second),
			RefreshInterval: envDuration("CATEGORY_REFRESH_INTERVAL", 10*time.Minute),
		},
		Security: SecurityConfig{
			RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
			RateLimitDuration: envDuration("RATE_LIMIT_DURATION", time.Minute),
			AllowedOrigins:    envList("ALLOWED_ORIGINS", []string{"*"}),
			SecureHeaders:     envBool("SECURE_HEADERS", env == "production"),
			RequestIDHeader:   envString("REQUEST_ID_HEADER", "X-Request-ID"),
		},
		Server: ServerConfig{
			Host:            envString("SERVER_HOST", "0.0.0.0"),
			Port:            envString("SERVER_PORT", "8080"),
			ReadTimeout:     envDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    envDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     envDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			MaxHeaderBytes:  envInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			GracefulTimeout: envDuration("SERVER_GRACEFUL_TIMEOUT", 30*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Database.MaxConnections < c.Database.MinConnections {
		return fmt.Errorf("max connections must be >= min connections")
	}
	if c.Security.RateLimitRequests <= 0 {
		return fmt.Errorf("rate limit requests must be positive")
	}

	return nil
}

// GetDatabaseURL returns the formatted database connection string
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddress returns the formatted Redis address
func (c *Config) GetRedisAddress() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// GetServerAddress returns the formatted server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

// Helper functions

func setDefaults() {
	viper.SetDefault("app.name", "stockroom-api")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseQueues reads "name:priority" pairs separated by commas.
func parseQueues(spec string) map[string]int {
	queues := make(map[string]int)
	for _, pair := range strings.Split(spec, ",") {
		name, prio, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		p, err := strconv.Atoi(strings.TrimSpace(prio))
		if err != nil {
			continue
		}
		queues[strings.TrimSpace(name)] = p
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}
