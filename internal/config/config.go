package config

import (
	"os"
	"strconv"
	"time"
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
	PingTimeoutSec     int
}

// PingTimeout bounds the startup connectivity check.
func (c DatabaseConfig) PingTimeout() time.Duration {
	if c.PingTimeoutSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.PingTimeoutSec) * time.Second
}

// MinIOConfig holds object storage settings for catalog exports.
// An empty Endpoint disables exports.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether an object store has been configured.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

// TracingConfig mirrors the standard OTEL_* environment variables the tracer understands.
type TracingConfig struct {
	Disabled    bool
	ServiceName string
	Protocol    string
	Endpoint    string
	Sampler     string
	SamplerArg  string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port               string
	Timezone           string
	ShutdownTimeoutSec int
	ExportURLTTLSec    int
	Database           DatabaseConfig
	MinIO              MinIOConfig
	Tracing            TracingConfig
}

// Load reads configuration from environment variables.
// A .env file is auto-loaded by cmd/api through github.com/joho/godotenv/autoload;
// real environment variables take precedence.
func Load() *AppConfig {
	endpoint := getEnv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	if endpoint == "" {
		endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	}

	return &AppConfig{
		Port:               getEnv("PORT", "8080"),
		Timezone:           getEnv("APP_TIMEZONE", "UTC"),
		ShutdownTimeoutSec: getEnvInt("SHUTDOWN_TIMEOUT_SEC", 10),
		ExportURLTTLSec:    getEnvInt("EXPORT_URL_TTL_SEC", 900),
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
			PingTimeoutSec:     getEnvInt("DB_PING_TIMEOUT_SEC", 5),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "cookbook"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Tracing: TracingConfig{
			Disabled:    getEnvBool("OTEL_SDK_DISABLED", false),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "cookbook"),
			Protocol:    getEnv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
			Endpoint:    endpoint,
			Sampler:     getEnv("OTEL_TRACES_SAMPLER", "parentbased_traceidratio"),
			SamplerArg:  getEnv("OTEL_TRACES_SAMPLER_ARG", "1.0"),
		},
	}
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ShutdownTimeout is the grace period given to in-flight requests on shutdown.
func (c *AppConfig) ShutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

// ExportURLTTL is how long presigned export download links stay valid.
func (c *AppConfig) ExportURLTTL() time.Duration {
	if c.ExportURLTTLSec <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.ExportURLTTLSec) * time.Second
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
