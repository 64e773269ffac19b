package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Provider exposes configuration through getters so consumers can depend on
// an interface and tests can substitute their own values.
type Provider interface {
	GetAppAddr() string
	GetAppBaseURL() string
	GetBackendURL() string
	GetSessionSecret() string
	GetSessionMaxAge() int
	GetAdminRequestTimeout() time.Duration
	GetBreakerFailureRatio() float64
	GetBreakerTimeout() time.Duration
	GetLogFormat() string
	GetLogLevel() string
	GetCredentialsFile() string
	GetAuthRateLimit() float64
	GetTracing() Tracing
}

// Tracing configures the OpenTelemetry exporter of the activity bus.
type Tracing struct {
	Enabled     bool   `env:"TRACING_ENABLED" envDefault:"false"`
	ServiceName string `env:"TRACING_SERVICE_NAME" envDefault:"wastewise"`
	ZipkinURL   string `env:"TRACING_ZIPKIN_URL" envDefault:"http://localhost:9411/api/v2/spans"`
}

// Config holds all configuration for the application.
type Config struct {
	AppAddr             string        `env:"APP_ADDR" envDefault:":3000"`
	AppBaseURL          string        `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`
	BackendURL          string        `env:"BACKEND_URL" envDefault:"http://localhost:8080"`
	SessionSecret       string        `env:"SESSION_SECRET"`
	SessionMaxAge       int           `env:"SESSION_MAX_AGE" envDefault:"604800"`
	AdminRequestTimeout time.Duration `env:"ADMIN_REQUEST_TIMEOUT" envDefault:"10s"`
	BreakerFailureRatio float64       `env:"BREAKER_FAILURE_RATIO" envDefault:"0.6"`
	BreakerTimeout      time.Duration `env:"BREAKER_TIMEOUT" envDefault:"30s"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"debug"`
	CredentialsFile     string        `env:"CREDENTIALS_FILE"`
	AuthRateLimit       float64       `env:"AUTH_RATE_LIMIT" envDefault:"10"`
	Tracing             Tracing
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// New loads configuration from environment variables and exits on failure.
func New() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// ValidateServer checks the settings the web server cannot run without.
func (c *Config) ValidateServer() error {
	var errs []error
	if len(c.SessionSecret) < 16 {
		errs = append(errs, errors.New("SESSION_SECRET must be set to at least 16 characters"))
	}
	if c.BackendURL == "" {
		errs = append(errs, errors.New("BACKEND_URL must be set"))
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		errs = append(errs, errors.New("BREAKER_FAILURE_RATIO must be in (0, 1]"))
	}
	return errors.Join(errs...)
}

func (c *Config) GetAppAddr() string { return c.AppAddr }
func (c *Config) GetAppBaseURL() string { return c.AppBaseURL }
func (c *Config) GetBackendURL() string { return c.BackendURL }
func (c *Config) GetSessionSecret() string { return c.SessionSecret }
func (c *Config) GetSessionMaxAge() int { return c.SessionMaxAge }
func (c *Config) GetAdminRequestTimeout() time.Duration { return c.AdminRequestTimeout }
func (c *Config) GetBreakerFailureRatio() float64 { return c.BreakerFailureRatio }
func (c *Config) GetBreakerTimeout() time.Duration { return c.BreakerTimeout }
func (c *Config) GetLogFormat() string { return c.LogFormat }
func (c *Config) GetLogLevel() string { return c.LogLevel }
func (c *Config) GetCredentialsFile() string { return c.CredentialsFile }
func (c *Config) GetAuthRateLimit() float64 { return c.AuthRateLimit }
func (c *Config) GetTracing() Tracing { return c.Tracing }
