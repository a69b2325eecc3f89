package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration (job queue broker).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Timezone used to compute "today"/"now" for stage evaluation.
	Timezone string `mapstructure:"TZ"`

	// Text-generation backend.
	LLMBackend      string `mapstructure:"LLM_BACKEND"` // remote_api | local_process
	GeminiAPIKey    string `mapstructure:"GEMINI_API_KEY"`
	LLMModel        string `mapstructure:"LLM_MODEL"`
	LocalLLMCommand string `mapstructure:"LOCAL_LLM_COMMAND"`
	LLMMaxRetries   int    `mapstructure:"LLM_MAX_RETRIES"`
	LLMTimeoutSecs  int    `mapstructure:"LLM_TIMEOUT_SECONDS"`

	// Deadline-escalation pipeline.
	ReminderScanIntervalMin int `mapstructure:"REMINDER_SCAN_INTERVAL_MIN"`
	ReminderScanLimit       int `mapstructure:"REMINDER_SCAN_LIMIT"`
	RenderIntervalMin       int `mapstructure:"RENDER_INTERVAL_MIN"`
	RenderBatchSize         int `mapstructure:"RENDER_BATCH_SIZE"`

	// Followup summary slot times ("HH:MM", evaluated in TZ).
	FollowupMorning string `mapstructure:"FOLLOWUP_MORNING"`
	FollowupNoon    string `mapstructure:"FOLLOWUP_NOON"`
	FollowupEvening string `mapstructure:"FOLLOWUP_EVENING"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_QUEUE_DB", 0)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("TZ", "Asia/Tokyo")
	viper.SetDefault("LLM_BACKEND", "remote_api")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("LLM_MODEL", "models/gemini-1.5-pro")
	viper.SetDefault("LOCAL_LLM_COMMAND", "")
	viper.SetDefault("LLM_MAX_RETRIES", 3)
	viper.SetDefault("LLM_TIMEOUT_SECONDS", 30)
	viper.SetDefault("REMINDER_SCAN_INTERVAL_MIN", 5)
	viper.SetDefault("REMINDER_SCAN_LIMIT", 10)
	viper.SetDefault("RENDER_INTERVAL_MIN", 1)
	viper.SetDefault("RENDER_BATCH_SIZE", 10)
	viper.SetDefault("FOLLOWUP_MORNING", "09:00")
	viper.SetDefault("FOLLOWUP_NOON", "13:00")
	viper.SetDefault("FOLLOWUP_EVENING", "18:00")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves the configured timezone, falling back to UTC if the
// name cannot be loaded.
func Location() *time.Location {
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		log.Printf("Invalid TZ %q, falling back to UTC: %v", AppConfig.Timezone, err)
		return time.UTC
	}
	return loc
}
