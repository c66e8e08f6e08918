package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Proxies allowed to set X-Forwarded-For; empty trusts none.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`

	// Record store: memory, file, mongo, redis or postgres.
	StoreDriver string `mapstructure:"STORE_DRIVER"`
	DataDir     string `mapstructure:"DATA_DIR"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	MongoDB     string `mapstructure:"MONGO_DB"`
	PostgresURL string `mapstructure:"POSTGRES_URL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Completion provider: openai or gemini.
	AssistantProvider     string        `mapstructure:"ASSISTANT_PROVIDER"`
	AssistantModel        string        `mapstructure:"ASSISTANT_MODEL"`
	AssistantSystemPrompt string        `mapstructure:"ASSISTANT_SYSTEM_PROMPT"`
	AssistantTurnTimeout  time.Duration `mapstructure:"ASSISTANT_TURN_TIMEOUT"`
	OpenAIAPIKey          string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIProject         string        `mapstructure:"OPENAI_PROJECT"`
	OpenAIBaseURL         string        `mapstructure:"OPENAI_BASE_URL"`
	GeminiAPIKey          string        `mapstructure:"GEMINI_API_KEY"`
}

var AppConfig Config

func LoadConfig() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "3001")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("TRUSTED_PROXIES", "")
	viper.SetDefault("STORE_DRIVER", "file")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "agendapro")
	viper.SetDefault("POSTGRES_URL", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("ASSISTANT_PROVIDER", "openai")
	viper.SetDefault("ASSISTANT_MODEL", "")
	viper.SetDefault("ASSISTANT_SYSTEM_PROMPT", "")
	viper.SetDefault("ASSISTANT_TURN_TIMEOUT", 20*time.Second)
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_PROJECT", "")
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("GEMINI_API_KEY", "")

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

// AssistantAPIKey returns the credential of the configured completion provider.
func AssistantAPIKey() string {
	if AppConfig.AssistantProvider == "gemini" {
		return AppConfig.GeminiAPIKey
	}
	return AppConfig.OpenAIAPIKey
}
