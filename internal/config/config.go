package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// MongoDB configuration (visitor events)
	Mongo MongoConfig

	// Authentication configuration
	Auth AuthConfig

	// Content lifecycle configuration
	Content ContentConfig

	// File storage configuration
	Files FilesConfig

	// RSS feed configuration
	Feed FeedConfig

	// Read-through cache configuration
	Cache CacheConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrationsPath string
}

// MongoConfig holds settings for the visitor event store
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// AuthConfig holds bearer token settings
type AuthConfig struct {
	JWTSecret       string
	TokenTTL        time.Duration
	AllowTokenIssue bool
}

// Tag uniqueness scopes
const (
	TagScopeArticle = "article"
	TagScopeGlobal  = "global"
)

// View event store backends
const (
	ViewStorePostgres = "postgres"
	ViewStoreMongo    = "mongo"
)

// ContentConfig holds article lifecycle settings
type ContentConfig struct {
	SummaryLength  int
	PageViewWindow int
	TagScope       string
	ViewStore      string
}

// File storage backends
const (
	FileBackendLocal = "local"
	FileBackendS3    = "s3"
)

// FilesConfig holds file store settings
type FilesConfig struct {
	Backend       string
	Dir           string
	PublicURL     string
	MaxUploadSize int64 // in bytes
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
}

// FeedConfig holds RSS feed metadata
type FeedConfig struct {
	Title       string
	Description string
	Link        string
	Author      string
}

// CacheConfig holds read-through cache settings
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "content_publishing"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:   getEnv("MONGO_DATABASE", "content_publishing"),
			Collection: getEnv("MONGO_VISITOR_COLLECTION", "visitor"),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			TokenTTL:        getDurationEnv("JWT_TTL", 24*time.Hour),
			AllowTokenIssue: getBoolEnv("AUTH_ALLOW_TOKEN_ISSUE", false),
		},
		Content: ContentConfig{
			SummaryLength:  getIntEnv("SUMMARY_LENGTH", 50),
			PageViewWindow: getIntEnv("PAGE_VIEW_WINDOW", 7),
			TagScope:       strings.ToLower(getEnv("TAG_SCOPE", TagScopeArticle)),
			ViewStore:      strings.ToLower(getEnv("VIEW_STORE", ViewStorePostgres)),
		},
		Files: FilesConfig{
			Backend:       strings.ToLower(getEnv("FILES_BACKEND", FileBackendLocal)),
			Dir:           getEnv("FILES_DIR", "./data/images"),
			PublicURL:     getEnv("FILES_PUBLIC_URL", "http://localhost:8080/v1/files/"),
			MaxUploadSize: getInt64Env("MAX_UPLOAD_SIZE", 10*1024*1024), // 10MB
			S3Bucket:      getEnv("S3_BUCKET", ""),
			S3Region:      getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		},
		Feed: FeedConfig{
			Title:       getEnv("FEED_TITLE", "Articles"),
			Description: getEnv("FEED_DESCRIPTION", "Recently published articles"),
			Link:        getEnv("FEED_LINK", "http://localhost:8080"),
			Author:      getEnv("FEED_AUTHOR", ""),
		},
		Cache: CacheConfig{
			Enabled: getBoolEnv("CACHE_ENABLED", true),
			TTL:     getDurationEnv("CACHE_TTL", time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Content.SummaryLength <= 0 {
		return fmt.Errorf("SUMMARY_LENGTH must be positive")
	}
	if c.Content.PageViewWindow <= 0 {
		return fmt.Errorf("PAGE_VIEW_WINDOW must be positive")
	}
	if c.Content.TagScope != TagScopeArticle && c.Content.TagScope != TagScopeGlobal {
		return fmt.Errorf("TAG_SCOPE must be one of: %s, %s", TagScopeArticle, TagScopeGlobal)
	}
	if c.Content.ViewStore != ViewStorePostgres && c.Content.ViewStore != ViewStoreMongo {
		return fmt.Errorf("VIEW_STORE must be one of: %s, %s", ViewStorePostgres, ViewStoreMongo)
	}
	switch c.Files.Backend {
	case FileBackendLocal:
	case FileBackendS3:
		if c.Files.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when FILES_BACKEND=s3")
		}
	default:
		return fmt.Errorf("FILES_BACKEND must be one of: %s, %s", FileBackendLocal, FileBackendS3)
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
