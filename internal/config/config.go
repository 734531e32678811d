package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	SwaggerHost string

	// Assistant API
	OpenAIAPIKey          string
	OpenAIBaseURL         string
	OpenAIAssistantID     string
	OpenAIModel           string
	AssistantPollEvery    time.Duration
	AssistantMaxPollTries int

	// Avatar storage
	StorageProvider string // "local" or "s3"
	StorageBasePath string
	StorageBaseURL  string
	S3Endpoint      string
	S3Region        string
	S3AccessKeyID   string
	S3SecretKey     string
	S3Bucket        string
	S3PublicURL     string

	// Advisory notification email
	SendgridAPIKey string
	SendgridFrom   string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		MySQLDSN:    getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/legalai?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIAssistantID:     os.Getenv("OPENAI_ASSISTANT_ID"),
		OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AssistantPollEvery:    getEnvDuration("ASSISTANT_POLL_INTERVAL", time.Second),
		AssistantMaxPollTries: getEnvInt("ASSISTANT_MAX_POLLS", 60),

		StorageProvider: getEnv("STORAGE_PROVIDER", "local"),
		StorageBasePath: getEnv("STORAGE_BASE_PATH", "./storage"),
		StorageBaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/files"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        getEnv("S3_REGION", "auto"),
		S3AccessKeyID:   os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretKey:     os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3Bucket:        getEnv("S3_BUCKET", "avatars"),
		S3PublicURL:     os.Getenv("S3_PUBLIC_URL"),

		SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		SendgridFrom:   os.Getenv("SENDGRID_FROM"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
