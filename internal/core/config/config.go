package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	Env                 string
	DatabaseURL         string
	DatabaseSecretName  string
	AWSRegion           string
	CognitoUserPoolID   string
	CognitoClientID     string
	CognitoClientSecret string
	SESSender           string
	NotifyOnCancel      bool
	AllowedOrigins      string
}

// LoadConfig reads .env and returns the settings struct.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on system env variables")
	}

	return &Config{
		Port:                getEnv("PORT", "8000"),
		Env:                 getEnv("ENV", "dev"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		DatabaseSecretName:  getEnv("DATABASE_SECRET_NAME", ""),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		CognitoUserPoolID:   getEnv("COGNITO_USER_POOL_ID", ""),
		CognitoClientID:     getEnv("COGNITO_CLIENT_ID", ""),
		CognitoClientSecret: getEnv("COGNITO_CLIENT_SECRET", ""),
		SESSender:           getEnv("SES_SENDER", "no-reply@example.com"),
		NotifyOnCancel:      getEnv("NOTIFY_ON_CANCEL", "true") == "true",
		AllowedOrigins:      getEnv("ALLOWED_ORIGINS", "*"),
	}
}

// Helper to get env with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
