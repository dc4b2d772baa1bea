package config

import (
	"os"
	"strconv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string
	// JWTSecret deliberately has no default: an unset secret must fail
	// closed at token issue/verify time, never fall back to a known value.
	JWTSecret string
	PublicDir string
	SeedData  bool

	SMTPHost string
	SMTPPort string
	MailFrom string

	CDNBucket    string
	CDNBaseURL   string
	CDNEndpoint  string
	CDNRegion    string
	CDNAccessKey string
	CDNSecretKey string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "5010"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/storm?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		RedisPass:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		PublicDir:  getEnv("PUBLIC_DIR", "public"),
		SeedData:   getEnv("USE_MOCK", "") == "true",

		SMTPHost: getEnv("EMAIL_HOST", "localhost"),
		SMTPPort: getEnv("EMAIL_PORT", "2525"),
		MailFrom: getEnv("EMAIL_FROM", "noreply@storm.dev"),

		CDNBucket:    os.Getenv("CDN_BUCKET"),
		CDNBaseURL:   os.Getenv("CDN_BASEURL"),
		CDNEndpoint:  os.Getenv("CDN_ENDPOINT"),
		CDNRegion:    getEnv("CDN_REGION", "us-east-1"),
		CDNAccessKey: os.Getenv("CDN_ACCESS_KEY"),
		CDNSecretKey: os.Getenv("CDN_SECRET_KEY"),
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
