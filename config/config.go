package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	LLM      LLMConfig
	Engine   EngineConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins string
}

// LLMConfig drives the optional external scoring path. An empty APIKey
// disables it entirely; the rule-based scorer then runs unconditionally.
type LLMConfig struct {
	APIKey     string
	APIURL     string
	Model      string
	TimeoutSec int
}

// EngineConfig holds the decision thresholds and bonus caps. The caps are
// deliberately configurable: only the thresholds are contractual, the
// bonus coefficients are tuning knobs.
type EngineConfig struct {
	OverloadThresholdPct      float64
	UnderutilizedThresholdPct float64
	AQIPoorThreshold          float64
	PollutionBonusCap         float64
	EventBonusCap             float64
	InflowBonusCap            float64
	InflowRatioThreshold      float64
	TransferCap               int
	ProximityKM               float64
	InflowWindowHours         int
	BaselineDays              int
	HorizonHours              int
}

func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func LoadConfig() (*Config, error) {
	serverPort, err := getIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	dbPort, err := getIntEnv("DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	redisPort, err := getIntEnv("REDIS_PORT", 6379)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}

	redisDB, err := getIntEnv("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	llmTimeout, err := getIntEnv("LLM_TIMEOUT_SEC", 30)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT_SEC: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: serverPort,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "arogyasetu"),
			Password: getEnv("DB_PASSWORD", "arogyasetu_dev_password"),
			Name:     getEnv("DB_NAME", "arogyasetu"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     redisPort,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		LLM: LLMConfig{
			APIKey:     getEnv("LLM_API_KEY", ""),
			APIURL:     getEnv("LLM_API_URL", "https://api.groq.com/openai/v1/chat/completions"),
			Model:      getEnv("LLM_MODEL", "llama-3.1-70b-versatile"),
			TimeoutSec: llmTimeout,
		},
		Engine: DefaultEngineConfig(),
	}

	if err := loadEngineOverrides(&cfg.Engine); err != nil {
		return nil, err
	}

	return cfg, nil
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		OverloadThresholdPct:      85,
		UnderutilizedThresholdPct: 60,
		AQIPoorThreshold:          200,
		PollutionBonusCap:         20,
		EventBonusCap:             15,
		InflowBonusCap:            15,
		InflowRatioThreshold:      1.2,
		TransferCap:               20,
		ProximityKM:               50,
		InflowWindowHours:         24,
		BaselineDays:              7,
		HorizonHours:              24,
	}
}

func loadEngineOverrides(e *EngineConfig) error {
	var err error
	if e.OverloadThresholdPct, err = getFloatEnv("ENGINE_OVERLOAD_PCT", e.OverloadThresholdPct); err != nil {
		return fmt.Errorf("invalid ENGINE_OVERLOAD_PCT: %w", err)
	}
	if e.UnderutilizedThresholdPct, err = getFloatEnv("ENGINE_UNDERUTILIZED_PCT", e.UnderutilizedThresholdPct); err != nil {
		return fmt.Errorf("invalid ENGINE_UNDERUTILIZED_PCT: %w", err)
	}
	if e.AQIPoorThreshold, err = getFloatEnv("ENGINE_AQI_POOR", e.AQIPoorThreshold); err != nil {
		return fmt.Errorf("invalid ENGINE_AQI_POOR: %w", err)
	}
	if e.ProximityKM, err = getFloatEnv("ENGINE_PROXIMITY_KM", e.ProximityKM); err != nil {
		return fmt.Errorf("invalid ENGINE_PROXIMITY_KM: %w", err)
	}
	if e.TransferCap, err = getIntEnv("ENGINE_TRANSFER_CAP", e.TransferCap); err != nil {
		return fmt.Errorf("invalid ENGINE_TRANSFER_CAP: %w", err)
	}
	return nil
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

func getFloatEnv(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
