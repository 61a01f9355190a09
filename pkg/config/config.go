package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageFirestore = "firestore"
	StorageSQLite    = "sqlite"
)

type Config struct {
	ServerPort  string
	Environment string

	JWTSecret string
	JWTExpiry int64

	StorageDriver string
	SQLitePath    string

	FirebaseProject            string
	FirebaseServiceAccountJSON string
	FirebaseServiceAccountPath string
	StorageBucket              string
	UploadDir                  string
	PublicBaseURL              string

	RedisURL string

	FrontendURL        string
	AllowedOrigins     []string
	AllowedEmailDomain string

	SMTPHost string
	SMTPPort int64
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: getEnvAsInt64("JWT_EXPIRY", 30*24*60*60), // 30 days

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageSQLite)),
		SQLitePath:    getEnv("SQLITE_PATH", "egresados.db"),

		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		StorageBucket:              getEnv("STORAGE_BUCKET", ""),
		UploadDir:                  getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL:              getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		RedisURL: getEnv("REDIS_URL", ""),

		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		AllowedOrigins:     getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		AllowedEmailDomain: getEnv("ALLOWED_EMAIL_DOMAIN", "pascualbravo.edu.co"),

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: getEnvAsInt64("SMTP_PORT", 587),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		SMTPFrom: getEnv("SMTP_FROM", "Plataforma de Egresados <no-reply@localhost>"),
	}

	if config.JWTSecret == "" {
		if !config.IsDevelopment() {
			return nil, fmt.Errorf("JWT_SECRET is required in %s", config.Environment)
		}
		config.JWTSecret = "development-secret"
	}

	switch config.StorageDriver {
	case StorageFirestore:
		if config.FirebaseProject == "" {
			return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore storage driver")
		}
	case StorageSQLite:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", config.StorageDriver)
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
