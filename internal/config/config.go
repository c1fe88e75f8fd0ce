package config

import (
	"os"
	"strconv"
	"time"
)

// Storage and catalog backend identifiers.
const (
	StorageLocal = "local"
	StorageMinIO = "minio"

	CatalogMemory   = "memory"
	CatalogPostgres = "postgres"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint         string
	AccessKey        string
	SecretKey        string
	Bucket           string
	UseSSL           bool
	PresignExpirySec int
}

// UploadConfig controls file intake.
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// PaperDefaults are applied to metadata fields missing from an upload request.
// An empty Year means "current year".
type PaperDefaults struct {
	Title      string
	Subject    string
	Year       string
	Semester   string
	University string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost        string
	Port           string
	Timezone       string
	PublicDir      string
	StorageBackend string
	CatalogBackend string
	Upload         UploadConfig
	Defaults       PaperDefaults
	Database       DatabaseConfig
	MinIO          MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:        getEnv("APP_HOST", "localhost:3001"),
		Port:           getEnv("PORT", "3001"),
		Timezone:       getEnv("APP_TIMEZONE", "UTC"),
		PublicDir:      getEnv("PUBLIC_DIR", "public"),
		StorageBackend: getEnv("STORAGE_BACKEND", StorageLocal),
		CatalogBackend: getEnv("CATALOG_BACKEND", CatalogMemory),
		Upload: UploadConfig{
			Dir:      getEnv("UPLOAD_DIR", "public/uploads"),
			MaxBytes: getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
		},
		Defaults: PaperDefaults{
			Title:      getEnv("PAPER_DEFAULT_TITLE", "Untitled Question Paper"),
			Subject:    getEnv("PAPER_DEFAULT_SUBJECT", "General"),
			Year:       getEnv("PAPER_DEFAULT_YEAR", ""),
			Semester:   getEnv("PAPER_DEFAULT_SEMESTER", "N/A"),
			University: getEnv("PAPER_DEFAULT_UNIVERSITY", "N/A"),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:         getEnv("MINIO_ENDPOINT", ""),
			AccessKey:        getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:        getEnv("MINIO_SECRET_KEY", ""),
			Bucket:           getEnv("MINIO_BUCKET", ""),
			UseSSL:           getEnvBool("MINIO_USE_SSL", false),
			PresignExpirySec: getEnvInt("MINIO_PRESIGN_EXPIRY_SEC", 900),
		},
	}
}

// Location resolves the configured time zone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil && i > 0 {
			return i
		}
	}
	return def
}
