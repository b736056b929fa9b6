package config

import "errors"

type SchedulerConfig struct {
	// Interval in seconds between two sweeps settling matured undisputed claims
	TimeoutSweepInterval int   `mapstructure:"timeout-sweep-interval"`
	SweepBatchSize       int64 `mapstructure:"sweep-batch-size"`
}

func (cfg *SchedulerConfig) Validate() error {
	if cfg.TimeoutSweepInterval <= 0 {
		return errors.New("timeout sweep interval must be a positive integer")
	}

	if cfg.SweepBatchSize <= 0 {
		return errors.New("sweep batch size must be a positive integer")
	}

	return nil
}
