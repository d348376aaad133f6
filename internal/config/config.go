package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	ServerPort      string `yaml:"server_port"`
	BaseURL         string `yaml:"base_url"`
	FrontendURL     string `yaml:"frontend_url"`
	RedisURL        string `yaml:"redis_url"`
	DatabaseURL     string `yaml:"database_url"`
	RabbitMQURL     string `yaml:"rabbitmq_url"`
	OpenAIKey       string `yaml:"-"`
	AIModel         string `yaml:"ai_model"`
	AIBaseURL       string `yaml:"ai_base_url"`
	JWKSURL         string `yaml:"jwks_url"`
	JWTIssuer       string `yaml:"jwt_issuer"`
	DefaultCity     string `yaml:"default_city"`
	RateLimit       string `yaml:"rate_limit"`
	EnableHSTS      bool   `yaml:"enable_hsts"`
	SweepInterval   int    `yaml:"sweep_interval_minutes"`
	ServerDebugMode bool   `yaml:"server_debug_mode"`
	WorkerDebugMode bool   `yaml:"worker_debug_mode"`
	OTELEnabled     bool   `yaml:"otel_enabled"`
	OTELEndpoint    string `yaml:"otel_endpoint"`
}

// Load loads configuration from environment variables. A local .env file is
// applied first when present, and a YAML file named by CONFIG_FILE can set
// defaults that env vars override.
func Load() (*Config, error) {
	// Absence of a .env file is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:    "8080",
		BaseURL:       "http://localhost:8080",
		FrontendURL:   "http://localhost:3000",
		RedisURL:      "redis://localhost:6379/0",
		DefaultCity:   "Chennai",
		RateLimit:     "5-S",
		SweepInterval: 60,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required (the context store is Redis-backed)")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.BaseURL = getEnv("BASE_URL", cfg.BaseURL)
	cfg.FrontendURL = getEnv("FRONTEND_URL", cfg.FrontendURL)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RabbitMQURL = getEnv("RABBITMQ_URL", cfg.RabbitMQURL)
	cfg.OpenAIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIKey)
	cfg.AIModel = getEnv("AI_MODEL", cfg.AIModel)
	cfg.AIBaseURL = getEnv("AI_BASE_URL", cfg.AIBaseURL)
	cfg.JWKSURL = getEnv("JWKS_URL", cfg.JWKSURL)
	cfg.JWTIssuer = getEnv("JWT_ISSUER", cfg.JWTIssuer)
	cfg.DefaultCity = getEnv("DEFAULT_CITY", cfg.DefaultCity)
	cfg.RateLimit = getEnv("RATE_LIMIT", cfg.RateLimit)
	cfg.EnableHSTS = getEnvBool("ENABLE_HSTS", cfg.EnableHSTS)
	cfg.SweepInterval = getEnvInt("SWEEP_INTERVAL_MINUTES", cfg.SweepInterval)
	cfg.ServerDebugMode = getEnvBool("SERVER_DEBUG_MODE", cfg.ServerDebugMode)
	cfg.WorkerDebugMode = getEnvBool("WORKER_DEBUG_MODE", cfg.WorkerDebugMode)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
