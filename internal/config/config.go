package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Auth     AuthConfig
	Kafka    KafkaConfig
	Pricing  PricingConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            string
	Env             string
	Host            string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host           string
	Port           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	MaxConnections int
	MaxIdleConns   int
	MaxLifetime    time.Duration
}

type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	MinIdleConn int
	DialTimeout time.Duration
	ReadTimeout time.Duration
	Enabled     bool
}

type NewRelicConfig struct {
	LicenseKey string
	AppName    string
	Enabled    bool
	LogLevel   string
}

// AuthConfig covers JWT signing plus the seeded admin account.
type AuthConfig struct {
	JWTSecret     string
	JWTExpiry     time.Duration
	AdminEmail    string
	AdminPassword string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	Enabled bool
}

type PricingConfig struct {
	BaseFare struct {
		Economy float64
		Premium float64
		Luxury  float64
	}
	PerKMRate struct {
		Economy float64
		Premium float64
		Luxury  float64
	}
	PerMinuteRate struct {
		Economy float64
		Premium float64
		Luxury  float64
	}
	MaxSurgeMultiplier float64
	MinSurgeMultiplier float64
}

type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Env:             getEnv("SERVER_ENV", "development"),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			ShutdownTimeout: time.Duration(getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			Name:           getEnv("DB_NAME", "swiftride"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxConnections: getEnvAsInt("DB_MAX_CONNECTIONS", 100),
			MaxIdleConns:   getEnvAsInt("DB_MAX_IDLE_CONNECTIONS", 10),
			MaxLifetime:    time.Duration(getEnvAsInt("DB_MAX_LIFETIME_MINUTES", 30)) * time.Minute,
		},
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			MaxRetries:  getEnvAsInt("REDIS_MAX_RETRIES", 3),
			PoolSize:    getEnvAsInt("REDIS_POOL_SIZE", 100),
			MinIdleConn: 10,
			DialTimeout: 5 * time.Second,
			ReadTimeout: 3 * time.Second,
			Enabled:     getEnvAsBool("REDIS_ENABLED", true),
		},
		NewRelic: NewRelicConfig{
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			AppName:    getEnv("NEW_RELIC_APP_NAME", "SwiftRide-Backend"),
			Enabled:    getEnvAsBool("NEW_RELIC_ENABLED", false),
			LogLevel:   getEnv("NEW_RELIC_LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "your_jwt_secret_key_here"),
			JWTExpiry:     parseDuration(getEnv("JWT_EXPIRY", "24h"), 24*time.Hour),
			AdminEmail:    getEnv("ADMIN_EMAIL", "admin@swiftride.local"),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		Kafka: KafkaConfig{
			Brokers: splitAndTrim(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "ride-request-events"),
			Enabled: getEnvAsBool("KAFKA_ENABLED", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	cfg.Pricing.BaseFare.Economy = getEnvAsFloat64("BASE_FARE_ECONOMY", 50)
	cfg.Pricing.BaseFare.Premium = getEnvAsFloat64("BASE_FARE_PREMIUM", 100)
	cfg.Pricing.BaseFare.Luxury = getEnvAsFloat64("BASE_FARE_LUXURY", 200)

	cfg.Pricing.PerKMRate.Economy = getEnvAsFloat64("PER_KM_RATE_ECONOMY", 10)
	cfg.Pricing.PerKMRate.Premium = getEnvAsFloat64("PER_KM_RATE_PREMIUM", 15)
	cfg.Pricing.PerKMRate.Luxury = getEnvAsFloat64("PER_KM_RATE_LUXURY", 25)

	cfg.Pricing.PerMinuteRate.Economy = getEnvAsFloat64("PER_MINUTE_RATE_ECONOMY", 2)
	cfg.Pricing.PerMinuteRate.Premium = getEnvAsFloat64("PER_MINUTE_RATE_PREMIUM", 3)
	cfg.Pricing.PerMinuteRate.Luxury = getEnvAsFloat64("PER_MINUTE_RATE_LUXURY", 5)

	cfg.Pricing.MaxSurgeMultiplier = getEnvAsFloat64("MAX_SURGE_MULTIPLIER", 3.0)
	cfg.Pricing.MinSurgeMultiplier = getEnvAsFloat64("MIN_SURGE_MULTIPLIER", 1.0)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Auth.JWTSecret == "your_jwt_secret_key_here" && c.Server.Env == "production" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.Auth.AdminPassword == "" && c.Server.Env == "production" {
		return fmt.Errorf("ADMIN_PASSWORD must be set in production")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
