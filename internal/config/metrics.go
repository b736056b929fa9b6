package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

const defaultMetricsPath = "/metrics"

// MetricsConfig is where the prometheus collectors are exposed
type MetricsConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// Path defaults to /metrics
	Path string `mapstructure:"path"`
}

func (cfg *MetricsConfig) Validate() error {
	if cfg.Port < 1024 || cfg.Port > 65535 {
		return fmt.Errorf("metrics port must be between 1024 and 65535 (inclusive), got %d", cfg.Port)
	}
	if net.ParseIP(cfg.Host) == nil {
		return fmt.Errorf("invalid metrics host: %q", cfg.Host)
	}

	if cfg.Path == "" {
		cfg.Path = defaultMetricsPath
	}
	if !strings.HasPrefix(cfg.Path, "/") {
		return fmt.Errorf("metrics path must start with '/': %q", cfg.Path)
	}
	return nil
}

// GetMetricsAddress is the listen address of the prometheus endpoint
func (cfg *MetricsConfig) GetMetricsAddress() string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
}
