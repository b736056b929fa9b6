package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	LockTypeLocal = "local"
	LockTypeRedis = "redis"
)

// LockConfig chooses how per claim transitions are serialized. The local lock is
// only safe with a single replica.
type LockConfig struct {
	Type     string        `mapstructure:"type"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

func (cfg *LockConfig) Validate() error {
	switch cfg.Type {
	case LockTypeLocal:
		return nil
	case LockTypeRedis:
	default:
		return fmt.Errorf("unsupported lock type: %s", cfg.Type)
	}

	if cfg.Address == "" {
		return errors.New("missing redis address")
	}

	if cfg.DB < 0 {
		return errors.New("redis db cannot be negative")
	}

	if cfg.TTL <= 0 {
		return errors.New("lock ttl must be positive")
	}

	return nil
}
