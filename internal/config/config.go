package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Db          DbConfig          `mapstructure:"db"`
	Queue       QueueConfig       `mapstructure:"queue"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Arbitration ArbitrationConfig `mapstructure:"arbitration"`
	Lock        LockConfig        `mapstructure:"lock"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
}

type validator interface {
	Validate() error
}

// Validate checks each section and names the first one that is invalid
func (cfg *Config) Validate() error {
	sections := []struct {
		name string
		v    validator
	}{
		{"server", &cfg.Server},
		{"db", &cfg.Db},
		{"metrics", &cfg.Metrics},
		{"queue", &cfg.Queue},
		{"arbitration", &cfg.Arbitration},
		{"lock", &cfg.Lock},
		{"scheduler", &cfg.Scheduler},
	}
	for _, s := range sections {
		if err := s.v.Validate(); err != nil {
			return fmt.Errorf("invalid %s config: %w", s.name, err)
		}
	}
	return nil
}

// New returns a fully parsed Config object from a given file directory
func New(cfgFile string) (*Config, error) {
	_, err := os.Stat(cfgFile)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(cfgFile)

	v.AutomaticEnv()
	/*
		Nested fields in yml are mapped to `_` and any `-` to `__` when overriding via env variable:
		1. `queue.queue_user` can be overriden by `QUEUE_QUEUE_USER`
		2. `server.log-level` can be overriden by `SERVER_LOG__LEVEL`
		`-` is not accepted in environment variable names by every shell.
	*/
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "__"))

	err = v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err = v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
