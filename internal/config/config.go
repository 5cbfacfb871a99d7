package config

import (
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds connection settings for the Postgres instance backing
// the catalog store.
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

// MinIOConfig holds object storage settings.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AuthConfig holds settings for the external identity provider: where to
// fetch token-signing keys and how to reach its admin API for the one-time
// admin bootstrap.
type AuthConfig struct {
	JWKSURL            string
	IdentityURL        string
	IdentityKey        string
	AdminEmail         string
	AdminPassword      string
	ClientTimeoutSec   int
	RefreshIntervalSec int
	LeewaySec          int
}

// CatalogConfig holds the static department and semester enumerations. These
// are configuration, not persisted entities.
type CatalogConfig struct {
	Departments []string
	Semesters   int
}

// AppConfig is the centralized configuration struct, populated from
// environment variables. Sensitive values are never hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
}

// Load reads configuration from environment variables. A .env file is
// auto-loaded by importing: _ "github.com/joho/godotenv/autoload".
// Real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
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
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Auth: AuthConfig{
			JWKSURL:            getEnv("AUTH_JWKS_URL", ""),
			IdentityURL:        getEnv("AUTH_IDENTITY_URL", ""),
			IdentityKey:        getEnv("AUTH_IDENTITY_KEY", ""),
			AdminEmail:         getEnv("AUTH_ADMIN_EMAIL", ""),
			AdminPassword:      getEnv("AUTH_ADMIN_PASSWORD", ""),
			ClientTimeoutSec:   getEnvInt("AUTH_CLIENT_TIMEOUT_SEC", 10),
			RefreshIntervalSec: getEnvInt("AUTH_JWKS_REFRESH_SEC", 300),
			LeewaySec:          getEnvInt("AUTH_JWT_LEEWAY_SEC", 30),
		},
		Catalog: CatalogConfig{
			Departments: getEnvList("CATALOG_DEPARTMENTS", []string{"CSE", "ISE", "ECE", "EEE", "MECH", "CIVIL"}),
			Semesters:   getEnvInt("CATALOG_SEMESTERS", 8),
		},
	}
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

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
