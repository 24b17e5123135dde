// Package config loads application configuration from environment variables.
// All variables use the CRAFT_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	API      APIConfig
	Storage  StorageConfig
	Upload   UploadConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Publish  PublishConfig
	Identity IdentityConfig
	Log      LogConfig
	SeedPath string
}

// IdentityConfig holds the fixed identity used by single-operator
// deployments; a real deployment swaps in a provider-backed identity.
type IdentityConfig struct {
	UserID string
	Email  string
	Name   string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// APIConfig holds course backend REST API settings.
type APIConfig struct {
	BaseURL string
}

// StorageConfig holds object storage settings used to compose public asset URLs.
type StorageConfig struct {
	Bucket string
	Region string
}

// UploadConfig holds per-kind asset upload limits in bytes.
type UploadConfig struct {
	MaxThumbnailBytes int64
	MaxVideoBytes     int64
}

// DatabaseConfig holds PostgreSQL connection settings for draft persistence.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// CacheConfig holds Redis connection settings for the catalog cache.
type CacheConfig struct {
	URL string
}

// PublishConfig holds publish behavior settings.
type PublishConfig struct {
	StrictValidation bool
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with CRAFT_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("CRAFT_SERVER_PORT", 8080),
			Host: envStr("CRAFT_SERVER_HOST", "0.0.0.0"),
		},
		API: APIConfig{
			BaseURL: envStr("CRAFT_API_BASE_URL", "http://localhost:4000"),
		},
		Storage: StorageConfig{
			Bucket: envStr("CRAFT_STORAGE_BUCKET", ""),
			Region: envStr("CRAFT_STORAGE_REGION", "us-east-1"),
		},
		Upload: UploadConfig{
			MaxThumbnailBytes: envInt64("CRAFT_UPLOAD_MAX_THUMBNAIL_BYTES", 2<<20),
			MaxVideoBytes:     envInt64("CRAFT_UPLOAD_MAX_VIDEO_BYTES", 100<<20),
		},
		Database: DatabaseConfig{
			URL:      envStr("CRAFT_DATABASE_URL", ""),
			MaxConns: envInt("CRAFT_DATABASE_MAX_CONNS", 25),
			MinConns: envInt("CRAFT_DATABASE_MIN_CONNS", 5),
		},
		Cache: CacheConfig{
			URL: envStr("CRAFT_CACHE_URL", ""),
		},
		Publish: PublishConfig{
			StrictValidation: envBool("CRAFT_PUBLISH_STRICT_VALIDATION", false),
		},
		Identity: IdentityConfig{
			UserID: envStr("CRAFT_IDENTITY_USER_ID", ""),
			Email:  envStr("CRAFT_IDENTITY_EMAIL", ""),
			Name:   envStr("CRAFT_IDENTITY_NAME", ""),
		},
		Log: LogConfig{
			Level:  envStr("CRAFT_LOG_LEVEL", "info"),
			Format: envStr("CRAFT_LOG_FORMAT", "json"),
		},
		SeedPath: envStr("CRAFT_SEED_PATH", ""),
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("CRAFT_API_BASE_URL is required")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("CRAFT_API_BASE_URL must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.Upload.MaxThumbnailBytes <= 0 {
		return fmt.Errorf("CRAFT_UPLOAD_MAX_THUMBNAIL_BYTES must be positive")
	}
	if c.Upload.MaxVideoBytes <= 0 {
		return fmt.Errorf("CRAFT_UPLOAD_MAX_VIDEO_BYTES must be positive")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}
