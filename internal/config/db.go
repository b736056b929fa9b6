package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const (
	mongoScheme    = "mongodb"
	mongoSrvScheme = "mongodb+srv"
)

type DbConfig struct {
	DbName  string `mapstructure:"db-name"`
	Address string `mapstructure:"address"`
	// Page size of the claimant listing, a full page carries a next key
	MaxPaginationLimit int64 `mapstructure:"max-pagination-limit"`
	// Cursor batch size for bulk reads such as unprocessable messages
	DbBatchSizeLimit int64         `mapstructure:"db-batch-size-limit"`
	ConnectTimeout   time.Duration `mapstructure:"connect-timeout"`
}

func (cfg *DbConfig) Validate() error {
	if cfg.DbName == "" {
		return errors.New("missing db name")
	}
	if err := validateMongoAddress(cfg.Address); err != nil {
		return err
	}
	if cfg.MaxPaginationLimit < 2 {
		return errors.New("max pagination limit must be greater than 1")
	}
	if cfg.DbBatchSizeLimit <= 0 {
		return errors.New("db batch size limit must be greater than 0")
	}
	if cfg.ConnectTimeout <= 0 {
		return errors.New("db connect timeout must be positive")
	}
	return nil
}

// validateMongoAddress accepts a mongodb:// address with an explicit port, or
// a mongodb+srv:// address which resolves its hosts through DNS
func validateMongoAddress(address string) error {
	if address == "" {
		return errors.New("missing db address")
	}
	u, err := url.Parse(address)
	if err != nil {
		return fmt.Errorf("invalid db address: %w", err)
	}
	if u.Hostname() == "" {
		return errors.New("missing host in db address")
	}

	switch u.Scheme {
	case mongoSrvScheme:
		if u.Port() != "" {
			return errors.New("a mongodb+srv address cannot carry a port")
		}
		return nil
	case mongoScheme:
		port, err := strconv.Atoi(u.Port())
		if err != nil {
			return fmt.Errorf("invalid or missing port in db address: %q", u.Port())
		}
		if port < 1024 || port > 65535 {
			return errors.New("port number must be between 1024 and 65535 (inclusive)")
		}
		return nil
	default:
		return fmt.Errorf("unsupported db scheme: %s", u.Scheme)
	}
}
