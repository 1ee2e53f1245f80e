package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	AppEnv string

	DBDriver   string // postgres, mysql or sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTKey    string
	SaltRound int

	AIServiceURL     string // empty: built-in placeholder suggestions
	AIAPIKey         string
	AITimeoutSeconds int

	RedisAddr     string // empty: sibling-set locks are held in process
	AuditSchedule string // cron spec for the ordering audit, empty disables it

	// TrustedProxies may set X-Forwarded-For. Empty: the header is ignored.
	TrustedProxies []string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: getEnv("APP_ENV", "dev"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "minicourse.db"),
		DBPort:     getEnv("DB_PORT", "5432"),

		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		AIServiceURL:     getEnv("AI_SERVICE_URL", ""),
		AIAPIKey:         getEnv("AI_API_KEY", ""),
		AITimeoutSeconds: getEnvInt("AI_TIMEOUT_SECONDS", 20),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		AuditSchedule: os.Getenv("AUDIT_SCHEDULE"),

		TrustedProxies: getEnvList("TRUSTED_PROXIES"),
	}
	if _, set := os.LookupEnv("AUDIT_SCHEDULE"); !set {
		AppConfig.AuditSchedule = "@every 1h"
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.DBDriver == "sqlite" && AppConfig.AppEnv == "prod" {
		log.Println("Warning: Using SQLite in production. Set DB_DRIVER to postgres or mysql.")
	}

	return AppConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
