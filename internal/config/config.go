// Package config loads service configuration from environment variables
// and optional .env files.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Config holds all service configuration.
type Config struct {
	Server  ServerConfig
	Upload  UploadConfig
	Store   StoreConfig
	Queue   QueueConfig
	Logging LoggingConfig
	Metrics MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8000"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"120s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	// RequestTimeout bounds a single request, parse included.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"90s"`
}

// UploadConfig holds upload and parse settings.
type UploadConfig struct {
	MaxFileSizeMB int           `env:"MAX_FILE_SIZE_MB" envDefault:"30"`
	MaxConcurrent int           `env:"UPLOAD_MAX_CONCURRENT" envDefault:"5"`
	MaxWaitTime   time.Duration `env:"UPLOAD_MAX_WAIT_TIME" envDefault:"30s"`
	// TmpDir holds generated Markdown files under markdown/.
	TmpDir string `env:"TMP_DIR" envDefault:"tmp"`
}

// StoreConfig selects and configures the estimate store.
type StoreConfig struct {
	Driver string `env:"STORE_DRIVER" envDefault:"memory"` // memory, dynamodb or postgres

	Table            string `env:"ESTIMATES_TABLE" envDefault:"estimate_imports"`
	DynamoDBEndpoint string `env:"DYNAMODB_ENDPOINT"`
	AWSRegion        string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKeyID   string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey     string `env:"AWS_SECRET_ACCESS_KEY"`

	DatabaseURL string `env:"DATABASE_URL"`
}

// QueueConfig selects and configures the import queue.
type QueueConfig struct {
	Driver   string `env:"QUEUE_DRIVER" envDefault:"memory"` // memory or redis
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	Key      string `env:"QUEUE_KEY" envDefault:"orceu:imports"`
	Capacity int    `env:"QUEUE_CAPACITY" envDefault:"1000"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"` // text or json
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// MaxFileSizeBytes returns the upload limit in bytes.
func (c *UploadConfig) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) << 20
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SERVER_SHUTDOWN_TIMEOUT must be positive, got %s", c.Server.ShutdownTimeout))
	}

	if c.Upload.MaxFileSizeMB <= 0 {
		errs = append(errs, fmt.Errorf("MAX_FILE_SIZE_MB must be positive, got %d", c.Upload.MaxFileSizeMB))
	}
	if c.Upload.MaxConcurrent <= 0 {
		errs = append(errs, fmt.Errorf("UPLOAD_MAX_CONCURRENT must be positive, got %d", c.Upload.MaxConcurrent))
	}
	if strings.TrimSpace(c.Upload.TmpDir) == "" {
		errs = append(errs, errors.New("TMP_DIR must not be empty"))
	}

	switch c.Store.Driver {
	case "memory":
	case "dynamodb":
		if c.Store.Table == "" {
			errs = append(errs, errors.New("ESTIMATES_TABLE is required when STORE_DRIVER is 'dynamodb'"))
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_DRIVER is 'postgres'"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be 'memory', 'dynamodb' or 'postgres', got '%s'", c.Store.Driver))
	}

	switch c.Queue.Driver {
	case "memory":
		if c.Queue.Capacity <= 0 {
			errs = append(errs, fmt.Errorf("QUEUE_CAPACITY must be positive, got %d", c.Queue.Capacity))
		}
	case "redis":
		if c.Queue.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when QUEUE_DRIVER is 'redis'"))
		}
	default:
		errs = append(errs, fmt.Errorf("QUEUE_DRIVER must be 'memory' or 'redis', got '%s'", c.Queue.Driver))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be 'text' or 'json', got '%s'", c.Logging.Format))
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("METRICS_PATH must start with '/', got '%s'", c.Metrics.Path))
	}

	return errors.Join(errs...)
}
