package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const DefaultJWTSecret = "my-super-secret-key-2024"

type Config struct {
	LogLevel string

	// Seed loader
	BrokerURL   string
	DataDir     string
	BrokerToken string

	// Token issuer / mock broker auth
	JWTSecret string

	// Mock broker
	Port              string
	BrokerRequireAuth bool
	RateLimitRPS      int

	// Optional Redis (summary events, mock broker storage). Empty disables it.
	RedisAddr string

	// S3 / Minio, used when DataDir is an s3:// URL
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
}

// Load returns the configuration from environment variables. A .env file in
// the working directory is read first; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),

		BrokerURL:   getEnv("BROKER_URL", "http://localhost:1026"),
		DataDir:     getEnv("DATA_DIR", "/data"),
		BrokerToken: getEnv("BROKER_TOKEN", ""),

		JWTSecret: getEnv("JWT_SECRET", DefaultJWTSecret),

		Port:              getEnv("PORT", "1026"),
		BrokerRequireAuth: getBool("BROKER_REQUIRE_AUTH", false),
		RateLimitRPS:      getInt("RATE_LIMIT_RPS", 100),

		RedisAddr: getEnv("REDIS_ADDR", ""),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", "minio_admin"),
		S3SecretKey: getEnv("S3_SECRET_KEY", "minio_password"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	i, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return i
}

// RedisEnabled reports whether optional Redis integration is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
