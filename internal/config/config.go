package config

import (
	"os"
	"strconv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ServerPort string

	JWTSecret         string
	AdminPasswordHash string

	UploadDir string

	// 0 disables expiry; sessions then stay valid until deleted on leave/close.
	SessionTTLHours int

	// When set, completion is refused server-side until media is attached.
	RequireMediaOnComplete bool
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "partygame"),

		ServerPort: getEnv("SERVER_PORT", "8080"),

		JWTSecret:         getEnv("JWT_SECRET", "super-secret-key-change-me"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		UploadDir: getEnv("UPLOAD_DIR", "/uploads"),

		SessionTTLHours:        getEnvInt("SESSION_TTL_HOURS", 0),
		RequireMediaOnComplete: getEnvBool("REQUIRE_MEDIA_ON_COMPLETE", false),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}
