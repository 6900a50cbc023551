package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Alert monitoring cadence
	MonitorInterval time.Duration
	MonitorFlex     time.Duration
	GlobalInterval  time.Duration
	GlobalFlex      time.Duration
	CheckNowDelay   time.Duration

	// Global monthly-limit thresholds (percent)
	GlobalWarnPercent     float64
	GlobalExceededPercent float64

	// Notification sink
	TelegramToken  string
	TelegramChatID int64
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		MonitorInterval: getDuration("MONITOR_INTERVAL", 24*time.Hour),
		MonitorFlex:     getDuration("MONITOR_FLEX", 2*time.Hour),
		GlobalInterval:  getDuration("GLOBAL_LIMIT_INTERVAL", 12*time.Hour),
		GlobalFlex:      getDuration("GLOBAL_LIMIT_FLEX", 2*time.Hour),
		CheckNowDelay:   getDuration("CHECK_NOW_DELAY", 5*time.Second),

		GlobalWarnPercent:     getFloat("GLOBAL_WARN_PERCENT", 80),
		GlobalExceededPercent: getFloat("GLOBAL_EXCEEDED_PERCENT", 100),

		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
	}

	chatIDStr := getEnv("TELEGRAM_CHAT_ID", "0")
	chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		log.Printf("Warning: invalid TELEGRAM_CHAT_ID value '%s', Telegram sink disabled\n", chatIDStr)
		chatID = 0
	}
	config.TelegramChatID = chatID

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %v\n", key, raw, defaultValue)
		return defaultValue
	}
	return f
}
