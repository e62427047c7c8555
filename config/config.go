package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Firestore FirestoreConfig
	Session   SessionConfig
	Translate TranslateConfig
	ImageGen  ImageGenConfig
	Media     MediaConfig
	App       AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	DSN      string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type FirestoreConfig struct {
	ProjectID       string
	CredentialsPath string
	Collection      string
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
}

type TranslateConfig struct {
	BaseURL    string
	APIKey     string
	SourceLang string
	TargetLang string
	Timeout    time.Duration
}

type ImageGenConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Size    string
	Timeout time.Duration
	// Requests per second allowed against the generation API.
	RateLimit float64
	Burst     int
}

type MediaConfig struct {
	BaseURL      string
	APIKey       string
	UploadPreset string
	Timeout      time.Duration
}

type AppConfig struct {
	Environment string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3001"),
			AllowedOrigins: []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Firestore: FirestoreConfig{
			ProjectID:       getEnv("FIRESTORE_PROJECT_ID", ""),
			CredentialsPath: getEnv("FIRESTORE_CREDENTIALS_PATH", ""),
			Collection:      getEnv("FIRESTORE_DIARY_COLLECTION", "diaries"),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "diary_session"),
			TTL:        getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
		},
		Translate: TranslateConfig{
			BaseURL:    getEnv("TRANSLATE_BASE_URL", ""),
			APIKey:     getEnv("TRANSLATE_API_KEY", ""),
			SourceLang: getEnv("TRANSLATE_SOURCE_LANG", "ja"),
			TargetLang: getEnv("TRANSLATE_TARGET_LANG", "en"),
			Timeout:    getEnvAsDuration("TRANSLATE_TIMEOUT", 15*time.Second),
		},
		ImageGen: ImageGenConfig{
			BaseURL:   getEnv("IMAGEGEN_BASE_URL", ""),
			APIKey:    getEnv("IMAGEGEN_API_KEY", ""),
			Model:     getEnv("IMAGEGEN_MODEL", "image-alpha-001"),
			Size:      getEnv("IMAGEGEN_SIZE", "1024x1024"),
			Timeout:   getEnvAsDuration("IMAGEGEN_TIMEOUT", 90*time.Second),
			RateLimit: getEnvAsFloat("IMAGEGEN_RATE_LIMIT", 2),
			Burst:     getEnvAsInt("IMAGEGEN_BURST", 4),
		},
		Media: MediaConfig{
			BaseURL:      getEnv("MEDIA_BASE_URL", ""),
			APIKey:       getEnv("MEDIA_API_KEY", ""),
			UploadPreset: getEnv("MEDIA_UPLOAD_PRESET", "yeah-diary-ver2"),
			Timeout:      getEnvAsDuration("MEDIA_TIMEOUT", 30*time.Second),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	if c.Firestore.ProjectID == "" {
		return fmt.Errorf("FIRESTORE_PROJECT_ID is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
