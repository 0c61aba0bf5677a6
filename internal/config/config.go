package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DB struct {
		Driver     string
		Host       string
		Port       string
		User       string
		Password   string
		Name       string
		SSLMode    string
		Schema     string
		SQLitePath string
	}

	Server struct {
		Port            string
		GinMode         string
		ShutdownTimeout time.Duration
	}

	Auth struct {
		JWTSecret string
		Issuer    string
	}

	Images struct {
		Endpoint    string
		AccessKey   string
		SecretKey   string
		Bucket      string
		UseSSL      bool
		MaxFileSize int64
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}

	Log struct {
		Level string
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.DB.Driver = getEnv("DB_DRIVER", "postgres")
	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "donnamis")
	config.DB.Password = getEnv("DB_PASSWORD", "donnamis_password")
	config.DB.Name = getEnv("DB_NAME", "donnamis_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	config.DB.Schema = getEnv("DB_SCHEMA", "donnamis")
	config.DB.SQLitePath = getEnv("SQLITE_PATH", "donnamis.db")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")
	config.Server.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second)

	config.Auth.JWTSecret = getEnv("JWT_SECRET", "")
	config.Auth.Issuer = getEnv("JWT_ISSUER", "auth0")

	config.Images.Endpoint = getEnv("MINIO_ENDPOINT", "")
	config.Images.AccessKey = getEnv("MINIO_ACCESS_KEY", "")
	config.Images.SecretKey = getEnv("MINIO_SECRET_KEY", "")
	config.Images.Bucket = getEnv("MINIO_BUCKET", "objects")
	config.Images.UseSSL = getEnvAsBool("MINIO_USE_SSL", false)
	config.Images.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", 5242880)

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	config.Log.Level = getEnv("LOG_LEVEL", "info")

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// ImagesEnabled reports whether an object storage endpoint is configured
func (c *Config) ImagesEnabled() bool {
	return c.Images.Endpoint != ""
}

// SplitList splits a comma separated configuration value, dropping blanks
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 gets an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
