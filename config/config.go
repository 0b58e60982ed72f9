package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	ServerPort string

	LogLevel string
	LogPath  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Object storage (S3-compatible, accessed through the MinIO client)
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool
	// MinioPublicURL is the base URL audio/license objects are served from.
	// Defaults to the endpoint itself when unset.
	MinioPublicURL string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Token signing. Empty secrets are tolerated here; the token service
	// reports a configuration error at first use instead of blocking startup.
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	// Auth endpoint rate limiting.
	AuthRateLimit  int
	AuthRateWindow time.Duration

	// AllowProviderSwitch controls what happens when a social login hits an
	// email that already belongs to another provider: true adopts the new
	// provider tag, false rejects the request.
	AllowProviderSwitch bool
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration gets an environment variable as a duration ("15m", "168h")
// or returns a default value.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogPath:  getEnv("LOG_PATH", "logs/musefm.log"),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"), // no hardcoded default for credentials
		DBName:     getEnv("DB_NAME", "musefm"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "musefm"),
		MinioRegion:    getEnv("MINIO_REGION", "ap-south-1"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", true),
		MinioPublicURL: os.Getenv("MINIO_PUBLIC_URL"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		AccessTokenTTL:     getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:    getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		AuthRateLimit:  getEnvInt("AUTH_RATE_LIMIT", 25),
		AuthRateWindow: getEnvDuration("AUTH_RATE_WINDOW", 15*time.Minute),

		AllowProviderSwitch: getEnvBool("AUTH_ALLOW_PROVIDER_SWITCH", true),
	}

	// Storage misconfiguration is a warning, not a startup failure: read
	// endpoints still work without object storage.
	if cfg.MinioEndpoint == "" {
		log.Println("Warning: MINIO_ENDPOINT is missing from env")
	}
	if cfg.MinioAccessKey == "" {
		log.Println("Warning: MINIO_ACCESS_KEY is missing from env")
	}
	if cfg.MinioSecretKey == "" {
		log.Println("Warning: MINIO_SECRET_KEY is missing from env")
	}
	if os.Getenv("MINIO_REGION") == "" {
		log.Println("Warning: MINIO_REGION is missing from env")
	}
	if os.Getenv("MINIO_BUCKET") == "" {
		log.Println("Warning: MINIO_BUCKET is missing from env")
	}

	return cfg
}
