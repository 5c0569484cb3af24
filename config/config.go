package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

type Config struct {
	Env           string
	HTTPHost      string
	HTTPPort      string
	MySQLDSN      string
	JWTSecret     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
	BaseURL       string
	LogLevel      string
	LogFormat     string
	SMTP          SMTPConfig
	Redis         RedisConfig
	AI            AIConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AIConfig struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignores error if not found)
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	return &Config{
		Env:           getEnv("APP_ENV", EnvDevelopment),
		HTTPHost:      getEnv("HTTP_HOST", ""),
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		MySQLDSN:      mysqlDSN,
		JWTSecret:     jwtSecret,
		TokenTTL:      getDurationEnv("TOKEN_TTL", 7*24*time.Hour),
		ResetTokenTTL: getDurationEnv("RESET_TOKEN_TTL", time.Hour),
		BaseURL:       getEnv("APP_BASE_URL", "http://localhost:3000"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getIntEnv("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "AI Travel Planner <no-reply@localhost>"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		AI: AIConfig{
			APIKey:   getEnv("GEMINI_API_KEY", ""),
			Model:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			Endpoint: getEnv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
			Timeout:  getDurationEnv("GEMINI_TIMEOUT", time.Minute),
		},
	}, nil
}

func (c *Config) DSN() string {
	return c.MySQLDSN
}

// IsProduction reports whether the service runs in a production-like
// environment. The session cookie is marked Secure only in this case.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
