package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const devJWTSecret = "lifelog-dev-secret-change-me"

// AppConfig holds the application configuration.
type AppConfig struct {
	DBDriver           string
	DBHost             string
	DBPort             int
	DBUser             string
	DBPassword         string
	DBName             string
	DBSslMode          string
	DBTimezone         string
	DBSqlitePath       string
	ServerPort         int
	ServerHost         string
	ServerFramework    string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	AppEnv             string
	AppVersion         string
	LogLevel           string
	LogFile            string
	AppName            string
	CorsAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int
	SwaggerHost        string
	SwaggerBasePath    string
	SwaggerSchemes     []string
	CacheTTLExpiration time.Duration
	JWTSecret          string
	JWTTTL             time.Duration
	AIBaseURL          string
	AIModel            string
	AITimeout          time.Duration
	AIMaxRetries       int
	AIRetryBackoff     time.Duration
	AutoInsights       bool
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *AppConfig) IsProduction() bool {
	return c.AppEnv == "production"
}

// LoadConfig loads configuration from .env file or environment variables.
func LoadConfig(envFile ...string) (*AppConfig, error) {
	if len(envFile) > 0 && envFile[0] != "" {
		if _, err := os.Stat(envFile[0]); err == nil {
			if err := godotenv.Load(envFile[0]); err != nil {
				log.Warn().Err(err).Msg("Could not load .env file, using environment variables or defaults")
			}
		} else {
			log.Warn().Str("file", envFile[0]).Msg("Specified .env file not found, using environment variables or defaults")
		}
	} else if _, err := os.Stat("config.env"); err == nil {
		if err := godotenv.Load("config.env"); err != nil {
			log.Warn().Err(err).Msg("Could not load default config.env file")
		}
	}

	cfg := &AppConfig{
		DBDriver:           strings.ToLower(getStringEnv("DB_DRIVER", "postgres")),
		DBHost:             getStringEnv("DB_HOST", "localhost"),
		DBPort:             getIntEnv("DB_PORT", 5432),
		DBUser:             getStringEnv("DB_USER", "postgres"),
		DBPassword:         getStringEnv("DB_PASSWORD", "password"),
		DBName:             getStringEnv("DB_NAME", "lifelog"),
		DBSslMode:          getStringEnv("DB_SSL_MODE", "disable"),
		DBTimezone:         getStringEnv("DB_TIMEZONE", "UTC"),
		DBSqlitePath:       getStringEnv("DB_SQLITE_PATH", "lifelog.db"),
		ServerPort:         getIntEnv("SERVER_PORT", 8080),
		ServerHost:         getStringEnv("SERVER_HOST", "0.0.0.0"),
		ServerFramework:    strings.ToLower(getStringEnv("SERVER_FRAMEWORK", "gin")),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", "15s"),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", "90s"),
		ServerIdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", "60s"),
		AppEnv:             strings.ToLower(getStringEnv("APP_ENV", "development")),
		AppVersion:         getStringEnv("APP_VERSION", "2.0.0"),
		LogLevel:           strings.ToLower(getStringEnv("LOG_LEVEL", "info")),
		LogFile:            getStringEnv("LOG_FILE", ""),
		AppName:            getStringEnv("APP_NAME", "LifeLog"),
		CorsAllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", "*"),
		RateLimitPerSecond: getFloatEnv("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 20),
		SwaggerHost:        getStringEnv("SWAGGER_HOST", "localhost:8080"),
		SwaggerBasePath:    getStringEnv("SWAGGER_BASE_PATH", "/api"),
		SwaggerSchemes:     getSliceEnv("SWAGGER_SCHEMES", "http,https"),
		CacheTTLExpiration: getDurationEnv("CACHE_TTL_EXPIRATION", "5m"),
		JWTSecret:          getStringEnv("JWT_SECRET", ""),
		JWTTTL:             getDurationEnv("JWT_TTL", "720h"),
		AIBaseURL:          strings.TrimRight(getStringEnv("AI_BASE_URL", "https://api.deepseek.com/v1"), "/"),
		AIModel:            getStringEnv("AI_MODEL", "deepseek-chat"),
		AITimeout:          getDurationEnv("AI_TIMEOUT", "30s"),
		AIMaxRetries:       getIntEnv("AI_MAX_RETRIES", 1),
		AIRetryBackoff:     getDurationEnv("AI_RETRY_BACKOFF", "500ms"),
		AutoInsights:       getBoolEnv("AUTO_INSIGHTS", true),
	}

	if cfg.ServerFramework != "fiber" && cfg.ServerFramework != "gin" {
		log.Warn().Str("framework", cfg.ServerFramework).Msg("Invalid SERVER_FRAMEWORK, defaulting to 'gin'")
		cfg.ServerFramework = "gin"
	}

	validAppEnvs := map[string]bool{"development": true, "staging": true, "production": true, "test": true}
	if !validAppEnvs[cfg.AppEnv] {
		log.Warn().Str("app_env", cfg.AppEnv).Msg("Invalid APP_ENV, defaulting to 'development'")
		cfg.AppEnv = "development"
	}

	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		log.Warn().Str("driver", cfg.DBDriver).Msg("Invalid DB_DRIVER, defaulting to 'postgres'")
		cfg.DBDriver = "postgres"
	}

	if cfg.AIMaxRetries < 0 {
		cfg.AIMaxRetries = 0
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
		log.Warn().Msg("JWT_SECRET not set, using development secret")
		cfg.JWTSecret = devJWTSecret
	}

	return cfg, nil
}

func getStringEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Int("default", defaultValue).Msg("Invalid int value, using default")
		return defaultValue
	}
	return value
}

func getBoolEnv(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Bool("default", defaultValue).Msg("Invalid bool value, using default")
		return defaultValue
	}
	return value
}

func getDurationEnv(key, defaultValue string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		valueStr = defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Str("default", defaultValue).Msg("Invalid duration value, using default")
		defaultDur, _ := time.ParseDuration(defaultValue)
		return defaultDur
	}
	return value
}

func getSliceEnv(key, defaultValue string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		valueStr = defaultValue
	}
	if valueStr == "" {
		return []string{}
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func getFloatEnv(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Float64("default", defaultValue).Msg("Invalid float value, using default")
		return defaultValue
	}
	return value
}
