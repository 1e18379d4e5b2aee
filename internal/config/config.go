package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// JWT Config
	JWTAccessSecret  string        `env:"JWT_ACCESS_SECRET"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET"`
	JWTAccessExpiry  time.Duration `env:"JWT_ACCESS_EXPIRY" envDefault:"15m"`
	JWTRefreshExpiry time.Duration `env:"JWT_REFRESH_EXPIRY" envDefault:"168h"`
	JWTIssuer        string        `env:"JWT_ISSUER" envDefault:"incident-reporting-system"`

	// Password hashing
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// Media Config
	MediaRoot string `env:"MEDIA_ROOT" envDefault:"./media"`

	// Dispatch webhook Config
	DispatchURL        string        `env:"DISPATCH_WEBHOOK_URL"`
	DispatchSecret     string        `env:"DISPATCH_WEBHOOK_SECRET"`
	DispatchTimeout    time.Duration `env:"DISPATCH_WEBHOOK_TIMEOUT" envDefault:"5s"`
	DispatchMaxRetries int           `env:"DISPATCH_WEBHOOK_MAX_RETRIES" envDefault:"3"`
	DispatchBaseDelay  time.Duration `env:"DISPATCH_WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// Stats Config
	StatsWindowDays int `env:"STATS_WINDOW_DAYS" envDefault:"7"`
	StatsTopUsers   int `env:"STATS_TOP_USERS" envDefault:"5"`
	StatsRecent     int `env:"STATS_RECENT_INCIDENTS" envDefault:"5"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		JWTAccessSecret:    os.Getenv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret:   os.Getenv("JWT_REFRESH_SECRET"),
		JWTAccessExpiry:    getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		JWTRefreshExpiry:   getEnvAsDuration("JWT_REFRESH_EXPIRY", 168*time.Hour),
		JWTIssuer:          getEnv("JWT_ISSUER", "incident-reporting-system"),
		BcryptCost:         getEnvAsInt("BCRYPT_COST", 10),
		MediaRoot:          getEnv("MEDIA_ROOT", "./media"),
		DispatchURL:        os.Getenv("DISPATCH_WEBHOOK_URL"),
		DispatchSecret:     os.Getenv("DISPATCH_WEBHOOK_SECRET"),
		DispatchTimeout:    getEnvAsDuration("DISPATCH_WEBHOOK_TIMEOUT", 5*time.Second),
		DispatchMaxRetries: getEnvAsInt("DISPATCH_WEBHOOK_MAX_RETRIES", 3),
		DispatchBaseDelay:  getEnvAsDuration("DISPATCH_WEBHOOK_BASE_DELAY", time.Second),
		StatsWindowDays:    getEnvAsInt("STATS_WINDOW_DAYS", 7),
		StatsTopUsers:      getEnvAsInt("STATS_TOP_USERS", 5),
		StatsRecent:        getEnvAsInt("STATS_RECENT_INCIDENTS", 5),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET environment variables are required")
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
