package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

const (
	ArbitrationModeHTTP      = "http"
	ArbitrationModeSimulated = "simulated"

	minCallbackSecretLength = 32
)

// ArbitrationConfig selects and tunes the external truth source disputes are escalated to
type ArbitrationConfig struct {
	Mode       string        `mapstructure:"mode"`
	BaseURL    string        `mapstructure:"base-url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries uint64        `mapstructure:"max-retries"`
	// Simulated oracle only: outcome applied when the liveness period expires
	SimulatedOutcome string `mapstructure:"simulated-outcome"`
	// HMAC-SHA256 key the gateway signs outcome callbacks with. Without it every
	// callback is rejected.
	CallbackSecret string `mapstructure:"callback-secret"`
}

func (cfg *ArbitrationConfig) Validate() error {
	if cfg.CallbackSecret != "" && len(cfg.CallbackSecret) < minCallbackSecretLength {
		return fmt.Errorf("callback-secret must be at least %d characters", minCallbackSecretLength)
	}

	switch cfg.Mode {
	case ArbitrationModeSimulated:
		if cfg.SimulatedOutcome != "" &&
			cfg.SimulatedOutcome != "claim_upheld" && cfg.SimulatedOutcome != "claim_rejected" {
			return fmt.Errorf("invalid simulated outcome: %s", cfg.SimulatedOutcome)
		}
		return nil
	case ArbitrationModeHTTP:
	default:
		return fmt.Errorf("unsupported arbitration mode: %s", cfg.Mode)
	}

	if cfg.BaseURL == "" {
		return errors.New("base-url cannot be empty")
	}

	parsedURL, err := url.ParseRequestURI(cfg.BaseURL)
	if err != nil {
		return errors.New("invalid arbitration base-url")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("base-url must start with http or https")
	}

	if cfg.Timeout <= 0 {
		return errors.New("timeout cannot be smaller or equal to 0")
	}

	if cfg.CallbackSecret == "" {
		return errors.New("callback-secret is required in http mode")
	}

	return nil
}
