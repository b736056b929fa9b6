package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

type ServerConfig struct {
	Host                string          `mapstructure:"host"`
	Port                int             `mapstructure:"port"`
	WriteTimeout        time.Duration   `mapstructure:"write-timeout"`
	ReadTimeout         time.Duration   `mapstructure:"read-timeout"`
	IdleTimeout         time.Duration   `mapstructure:"idle-timeout"`
	AllowedOrigins      []string        `mapstructure:"allowed-origins"`
	LogLevel            string          `mapstructure:"log-level"`
	MaxContentLength    int64           `mapstructure:"max-content-length"`
	HealthCheckInterval int             `mapstructure:"health-check-interval"`
	RateLimit           RateLimitConfig `mapstructure:"rate-limit"`
}

// RateLimitConfig bounds the per client IP request rate on the write endpoints
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests-per-second"`
	Burst             int     `mapstructure:"burst"`
}

// Validate reports every invalid field at once
func (cfg *ServerConfig) Validate() error {
	var errs []error
	if net.ParseIP(cfg.Host) == nil {
		errs = append(errs, fmt.Errorf("invalid host: %q", cfg.Host))
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", cfg.Port))
	}
	for name, d := range map[string]time.Duration{
		"write": cfg.WriteTimeout, "read": cfg.ReadTimeout, "idle": cfg.IdleTimeout,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s timeout cannot be negative", name))
		}
	}
	if cfg.MaxContentLength <= 0 {
		errs = append(errs, errors.New("max-content-length must be positive"))
	}
	if cfg.HealthCheckInterval <= 0 {
		errs = append(errs, errors.New("health-check-interval must be positive"))
	}
	if cfg.RateLimit.RequestsPerSecond <= 0 || cfg.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("rate limit requests-per-second and burst must be positive"))
	}
	if err := cfg.ValidateServerLogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateServerLogLevel accepts an empty level, the service then keeps the default
func (cfg *ServerConfig) ValidateServerLogLevel() error {
	if cfg.LogLevel == "" {
		return nil
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if level < zerolog.DebugLevel || level > zerolog.FatalLevel {
		return fmt.Errorf("only log levels from debug to fatal are supported")
	}
	return nil
}

func (cfg *ServerConfig) ListenAddress() string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
}
