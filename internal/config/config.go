// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port int
	Host string
}

// DatabaseConfig holds database configuration settings
type DatabaseConfig struct {
	Driver   string // "postgres" or "sqlite3"
	URI      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// CacheConfig holds page cache settings. When RedisAddr is empty the
// in-process memory cache is used.
type CacheConfig struct {
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Database       *DatabaseConfig
	Cache          *CacheConfig
	PageSize       int
	JWTSecret      string
	AllowedOrigins []string
	Debug          bool
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port: 8080,
		Host: "0.0.0.0",
	}
}

// DefaultDatabaseConfig provides default database settings
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Driver:  "sqlite3",
		URI:     "file:bayou.db?_foreign_keys=on",
		Port:    5432,
		SSLMode: "require",
	}
}

// DefaultCacheConfig provides default page cache settings. The feed page is
// cached for a short, fixed duration with no invalidation on write.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		TTL: 20 * time.Second,
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Try to load .env file from multiple possible locations
	envLocations := []string{
		".env",          // Current directory
		"../../.env",    // Project root when running from cmd/server
		"../../../.env", // Even higher directory
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		// Silent failure if no .env exists, which is fine
		_ = godotenv.Load()
	}

	serverConfig := DefaultConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			serverConfig.Port = port
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}

	dbConfig := DefaultDatabaseConfig()

	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		dbConfig.Driver = driver
	}

	switch dbConfig.Driver {
	case "postgres":
		// Prioritize DATABASE_URL if provided
		if uri := os.Getenv("DATABASE_URL"); uri != "" {
			dbConfig.URI = uri
		} else {
			// Fall back to individual variables
			dbConfig.Host = getEnvOrDefault("DB_HOST", "localhost")

			if portStr := os.Getenv("DB_PORT"); portStr != "" {
				if port, err := strconv.Atoi(portStr); err == nil {
					dbConfig.Port = port
				}
			}

			dbConfig.User = os.Getenv("DB_USER")
			if dbConfig.User == "" {
				return nil, fmt.Errorf("DB_USER environment variable is required when DB_DRIVER is postgres and DATABASE_URL is not set")
			}

			dbConfig.Password = os.Getenv("DB_PASSWORD")
			if dbConfig.Password == "" {
				return nil, fmt.Errorf("DB_PASSWORD environment variable is required when DB_DRIVER is postgres and DATABASE_URL is not set")
			}

			dbConfig.Name = getEnvOrDefault("DB_NAME", "postgres")
			dbConfig.SSLMode = getEnvOrDefault("DB_SSL_MODE", "require")

			dbConfig.URI = fmt.Sprintf(
				"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
				dbConfig.User,
				dbConfig.Password,
				dbConfig.Host,
				dbConfig.Port,
				dbConfig.Name,
				dbConfig.SSLMode,
			)
		}
	case "sqlite3":
		if path := os.Getenv("DB_PATH"); path != "" {
			// Foreign keys must be on for the cascade and SET NULL rules to apply.
			dbConfig.URI = fmt.Sprintf("file:%s?_foreign_keys=on", path)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (expected postgres or sqlite3)", dbConfig.Driver)
	}

	cacheConfig := DefaultCacheConfig()

	if ttlStr := os.Getenv("CACHE_TTL_SECONDS"); ttlStr != "" {
		if ttl, err := strconv.Atoi(ttlStr); err == nil && ttl > 0 {
			cacheConfig.TTL = time.Duration(ttl) * time.Second
		}
	}

	cacheConfig.RedisAddr = os.Getenv("REDIS_ADDR")
	cacheConfig.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			cacheConfig.RedisDB = db
		}
	}

	config := &Config{
		Server:         serverConfig,
		Database:       dbConfig,
		Cache:          cacheConfig,
		PageSize:       10,
		JWTSecret:      getEnvOrDefault("JWT_SECRET", "bayou_blog_dev_secret_do_not_use_in_prod"),
		AllowedOrigins: []string{"*"},
		Debug:          false,
	}

	if sizeStr := os.Getenv("PAGE_SIZE"); sizeStr != "" {
		if size, err := strconv.Atoi(sizeStr); err == nil && size > 0 {
			config.PageSize = size
		}
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		config.Debug = true
	}

	return config, nil
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
