// Env loader
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	StorageDriver      string
	StoragePath        string
	StorageKey         string
	DefaultTranslation string

	BibleAPIURL        string
	ChatAssistantURL   string
	UpstreamTimeout    time.Duration
	DailyVerseInterval time.Duration

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSchema   string
}

// LoadConfig loads environment variables from the .env file
func LoadConfig() *Config {

	appEnv := os.Getenv("APP_ENV")

	switch appEnv {
	case "production":
		if err := godotenv.Load(".env.production"); err == nil {
			fmt.Println("Loaded .env.production")
		}
	default:
		if err := godotenv.Load(".env.development"); err == nil {
			fmt.Println("Loaded .env.development")
		}
	}

	return fromEnv()
}

func fromEnv() *Config {
	return &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", ""),

		StorageDriver:      getEnv("STORAGE_DRIVER", "file"),
		StoragePath:        getEnv("STORAGE_PATH", defaultStoragePath()),
		StorageKey:         getEnv("STORAGE_KEY", "bible-storage"),
		DefaultTranslation: getEnv("DEFAULT_TRANSLATION", "kjv"),

		BibleAPIURL:        getEnv("BIBLE_API_URL", "https://bible-api.com"),
		ChatAssistantURL:   getEnv("CHAT_ASSISTANT_URL", "https://chat.openai.com"),
		UpstreamTimeout:    getDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		DailyVerseInterval: getDuration("DAILY_VERSE_INTERVAL", 0),

		DBHost:     getEnv("BLUEPRINT_DB_HOST", "localhost"),
		DBPort:     getEnv("BLUEPRINT_DB_PORT", "5432"),
		DBName:     getEnv("BLUEPRINT_DB_DATABASE", "verse_companion"),
		DBUser:     getEnv("BLUEPRINT_DB_USERNAME", "postgres"),
		DBPassword: getEnv("BLUEPRINT_DB_PASSWORD", ""),
		DBSchema:   getEnv("BLUEPRINT_DB_SCHEMA", "public"),
	}
}

// defaultStoragePath keeps local state under the user's config directory,
// falling back to the working directory.
func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".verse-companion"
	}
	return dir + string(os.PathSeparator) + "verse-companion"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		fmt.Printf("Invalid %s %q, using %s\n", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func GetAppEnv() string {
	if value, exists := os.LookupEnv("APP_ENV"); exists {
		return value
	}
	return "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
