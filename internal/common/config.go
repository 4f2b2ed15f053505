package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Pipeline PipelineConfig
	LLM      LLMConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// PipelineConfig holds document-processing configuration
type PipelineConfig struct {
	HomeCurrency         string
	AutoApproveThreshold int     // completeness 0..100
	HighConfidence       float64 // classification confidence 0..1
	RulesPath            string  // optional YAML with override + SLA rules
}

// LLMConfig holds extraction-backend configuration
type LLMConfig struct {
	DefaultModel    string
	MaxOutputTokens int
	Timeout         time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Pipeline: PipelineConfig{
			HomeCurrency:         getEnv("HOME_CURRENCY", "SEK"),
			AutoApproveThreshold: getEnvAsInt("AUTO_APPROVE_THRESHOLD", 80),
			HighConfidence:       getEnvAsFloat64("HIGH_CONFIDENCE_THRESHOLD", 0.8),
			RulesPath:            getEnv("RULES_PATH", ""),
		},
		LLM: LLMConfig{
			DefaultModel:    getEnv("EXTRACTION_MODEL", "gpt-4o-mini"),
			MaxOutputTokens: getEnvAsInt("EXTRACTION_MAX_TOKENS", 16384),
			Timeout:         getEnvAsDuration("EXTRACTION_TIMEOUT", 90*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Pipeline.AutoApproveThreshold < 0 || c.Pipeline.AutoApproveThreshold > 100 {
		return NewAppError("CONFIG_ERROR", "AUTO_APPROVE_THRESHOLD must be 0..100", ErrInvalidInput)
	}
	if c.Pipeline.HighConfidence < 0 || c.Pipeline.HighConfidence > 1 {
		return NewAppError("CONFIG_ERROR", "HIGH_CONFIDENCE_THRESHOLD must be 0..1", ErrInvalidInput)
	}
	return nil
}
