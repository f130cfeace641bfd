package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadENV loads variables from .env unless GO_ENV points at a deployed
// environment where everything is injected by the platform.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

// Environment is the full set of recognized configuration keys. Anything
// not listed here is ignored on purpose.
type Environment struct {
	GO_ENV string
	PORT   int

	// PostgreSQL
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string

	// JWT
	JWT_SECRET         string
	JWT_REFRESH_SECRET string // falls back to JWT_SECRET when empty
	JWT_ISSUER         string
	ACCESS_TOKEN_TTL   time.Duration
	REFRESH_TOKEN_TTL  time.Duration

	// Redis
	REDIS_URL string

	// SMTP
	SMTP_HOST     string
	SMTP_PORT     int
	SMTP_USERNAME string
	SMTP_PASSWORD string
	SMTP_FROM     string
	APP_URL       string

	// Object storage (S3-compatible)
	S3_ACCESS_KEY string
	S3_SECRET_KEY string
	S3_BUCKET     string
	S3_REGION     string
	S3_ENDPOINT   string
	S3_CDN_URL    string

	// LLM completion API (OpenAI-compatible)
	LLM_API_KEY  string
	LLM_BASE_URL string
	LLM_MODEL    string

	ALLOWED_ORIGINS string
	CRON_ENABLED    bool
}

// IsProduction reports whether the app runs in production mode. Controls
// cookie Secure flags and error detail exposure.
func (e *Environment) IsProduction() bool {
	return e.GO_ENV == "production"
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func Get() (*Environment, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		smtpPort = 587
	}

	env := &Environment{
		GO_ENV: os.Getenv("GO_ENV"),
		PORT:   port,

		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      getEnvOrDefault("DB_HOST", "localhost"),
		DB_PORT:      getEnvOrDefault("DB_PORT", "5432"),
		DB_SSL_MODE:  getEnvOrDefault("DB_SSL_MODE", "disable"),

		JWT_SECRET:         os.Getenv("JWT_SECRET"),
		JWT_REFRESH_SECRET: os.Getenv("JWT_REFRESH_SECRET"),
		JWT_ISSUER:         getEnvOrDefault("JWT_ISSUER", "meeting-assistant-api"),
		ACCESS_TOKEN_TTL:   getDurationOrDefault("ACCESS_TOKEN_TTL", 15*time.Minute),
		REFRESH_TOKEN_TTL:  getDurationOrDefault("REFRESH_TOKEN_TTL", 30*24*time.Hour),

		REDIS_URL: getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),

		SMTP_HOST:     getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTP_PORT:     smtpPort,
		SMTP_USERNAME: os.Getenv("SMTP_USERNAME"),
		SMTP_PASSWORD: os.Getenv("SMTP_PASSWORD"),
		SMTP_FROM:     getEnvOrDefault("SMTP_FROM", "noreply@smartmeet.app"),
		APP_URL:       getEnvOrDefault("APP_URL", "http://localhost:3000"),

		S3_ACCESS_KEY: os.Getenv("S3_ACCESS_KEY"),
		S3_SECRET_KEY: os.Getenv("S3_SECRET_KEY"),
		S3_BUCKET:     os.Getenv("S3_BUCKET"),
		S3_REGION:     getEnvOrDefault("S3_REGION", "us-east-1"),
		S3_ENDPOINT:   os.Getenv("S3_ENDPOINT"),
		S3_CDN_URL:    os.Getenv("S3_CDN_URL"),

		LLM_API_KEY:  os.Getenv("LLM_API_KEY"),
		LLM_BASE_URL: getEnvOrDefault("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLM_MODEL:    getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),

		ALLOWED_ORIGINS: getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001"),
		CRON_ENABLED:    os.Getenv("CRON_ENABLED") != "false",
	}

	return env, nil
}
