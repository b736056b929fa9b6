package config

import (
	"fmt"
	"net/url"
	"time"
)

const (
	AssertionResolvedQueueName = "assertion_resolved_queue"
	BondDepositQueueName       = "bond_deposit_queue"
	ClaimNotificationQueueName = "claim_notification_queue"
)

type QueueConfig struct {
	QueueUser              string        `mapstructure:"queue_user"`
	QueuePassword          string        `mapstructure:"queue_password"`
	Url                    string        `mapstructure:"url"`
	QueueProcessingTimeout time.Duration `mapstructure:"processing_timeout"`
	MsgMaxRetryAttempts    int32         `mapstructure:"msg_max_retry_attempts"`
	ReQueueDelayTime       time.Duration `mapstructure:"requeue_delay_time"`
}

func (cfg *QueueConfig) Validate() error {
	if cfg.QueueUser == "" {
		return fmt.Errorf("missing queue user")
	}

	if cfg.QueuePassword == "" {
		return fmt.Errorf("missing queue password")
	}

	if cfg.Url == "" {
		return fmt.Errorf("missing queue url")
	}

	if _, err := url.Parse("amqp://" + cfg.Url); err != nil {
		return fmt.Errorf("invalid queue url: %w", err)
	}

	if cfg.QueueProcessingTimeout <= 0 {
		return fmt.Errorf("invalid queue processing timeout")
	}

	if cfg.MsgMaxRetryAttempts <= 0 {
		return fmt.Errorf("invalid queue message max retry attempts")
	}

	if cfg.ReQueueDelayTime < 0 {
		return fmt.Errorf("requeue delay time cannot be negative")
	}

	return nil
}

// AmqpURL builds the broker dial address from the configured credentials
func (cfg *QueueConfig) AmqpURL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(cfg.QueueUser, cfg.QueuePassword),
		Host:   cfg.Url,
	}
	return u.String()
}
