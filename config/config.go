package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Pacing    PacingConfig
	Chart     ChartConfig
	Log       LogConfig
	Telemetry TelemetryConfig
	// RandomSeed seeds the jitter/confidence generator. Zero means seed from the clock.
	RandomSeed uint64
}

type ServerConfig struct {
	Port int
	Mode string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	// Enabled is false when REDIS_HOST is set to "none".
	Enabled bool
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type CORSConfig struct {
	AllowedOrigins string
}

// PacingConfig holds the artificial presentation delays.
type PacingConfig struct {
	PredictionDelay time.Duration
	ChartDelay      time.Duration
	ToastTTL        time.Duration
}

type ChartConfig struct {
	CacheTTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type TelemetryConfig struct {
	ServiceName   string
	TraceExporter string
}

func LoadConfig() (*Config, error) {
	serverPort, err := getIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	redisPort, err := getIntEnv("REDIS_PORT", 6379)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}

	redisDB, err := getIntEnv("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	predictionDelayMS, err := getIntEnv("PREDICTION_DELAY_MS", 1500)
	if err != nil {
		return nil, fmt.Errorf("invalid PREDICTION_DELAY_MS: %w", err)
	}

	chartDelayMS, err := getIntEnv("CHART_DELAY_MS", 200)
	if err != nil {
		return nil, fmt.Errorf("invalid CHART_DELAY_MS: %w", err)
	}

	toastTTLMS, err := getIntEnv("TOAST_TTL_MS", 3000)
	if err != nil {
		return nil, fmt.Errorf("invalid TOAST_TTL_MS: %w", err)
	}

	chartCacheTTL, err := getIntEnv("CHART_CACHE_TTL_SEC", 300)
	if err != nil {
		return nil, fmt.Errorf("invalid CHART_CACHE_TTL_SEC: %w", err)
	}

	seed, err := getUintEnv("RANDOM_SEED", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid RANDOM_SEED: %w", err)
	}

	redisHost := getEnv("REDIS_HOST", "localhost")

	cfg := &Config{
		Server: ServerConfig{
			Port: serverPort,
			Mode: getEnv("GIN_MODE", "release"),
		},
		Redis: RedisConfig{
			Host:     redisHost,
			Port:     redisPort,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			Enabled:  redisHost != "none",
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Pacing: PacingConfig{
			PredictionDelay: time.Duration(predictionDelayMS) * time.Millisecond,
			ChartDelay:      time.Duration(chartDelayMS) * time.Millisecond,
			ToastTTL:        time.Duration(toastTTLMS) * time.Millisecond,
		},
		Chart: ChartConfig{
			CacheTTL: time.Duration(chartCacheTTL) * time.Second,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Telemetry: TelemetryConfig{
			ServiceName:   getEnv("OTEL_SERVICE_NAME", "engagement-predictor"),
			TraceExporter: getEnv("OTEL_TRACES_EXPORTER", "none"),
		},
		RandomSeed: seed,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func getUintEnv(key string, fallback uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
