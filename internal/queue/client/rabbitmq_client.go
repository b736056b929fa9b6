package client

import (
	"context"
	"fmt"
	"strconv"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/axalapp/claims-api-service/internal/config"
)

const (
	dlxName               = "common_dlx"
	delayedQueueSuffix    = "_delay"
	retryAttemptsHeader   = "x-processing-attempts"
	queueTypeQuorum       = "quorum"
	consumerPrefetchCount = 1
)

type RabbitMqClient struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
	stopCh     chan struct{}
}

// NewRabbitMqClient declares the work queue plus a delay queue whose expired
// messages are dead lettered back onto the work queue.
func NewRabbitMqClient(cfg *config.QueueConfig, queueName string) (*RabbitMqClient, error) {
	conn, err := amqp.Dial(cfg.AmqpURL())
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = ch.Qos(consumerPrefetchCount, 0, false)
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = ch.ExchangeDeclare(dlxName, amqp.ExchangeDirect, true, false, false, false, nil)
	if err != nil {
		conn.Close()
		return nil, err
	}

	_, err = ch.QueueDeclare(queueName, true, false, false, false, amqp.Table{
		"x-queue-type": queueTypeQuorum,
	})
	if err != nil {
		conn.Close()
		return nil, err
	}
	err = ch.QueueBind(queueName, queueName, dlxName, false, nil)
	if err != nil {
		conn.Close()
		return nil, err
	}

	_, err = ch.QueueDeclare(queueName+delayedQueueSuffix, true, false, false, false, amqp.Table{
		"x-queue-type":              queueTypeQuorum,
		"x-dead-letter-exchange":    dlxName,
		"x-dead-letter-routing-key": queueName,
		"x-message-ttl":             cfg.ReQueueDelayTime.Milliseconds(),
	})
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &RabbitMqClient{
		connection: conn,
		channel:    ch,
		queueName:  queueName,
		stopCh:     make(chan struct{}),
	}, nil
}

func (c *RabbitMqClient) ReceiveMessages() (<-chan QueueMessage, error) {
	deliveries, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack, messages are acked once processed
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return nil, err
	}

	output := make(chan QueueMessage)
	go func() {
		defer close(output)
		for {
			select {
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				output <- QueueMessage{
					Body:          string(d.Body),
					Receipt:       strconv.FormatUint(d.DeliveryTag, 10),
					RetryAttempts: retryAttempts(d.Headers),
				}
			case <-c.stopCh:
				return
			}
		}
	}()

	return output, nil
}

func retryAttempts(headers amqp.Table) int32 {
	switch v := headers[retryAttemptsHeader].(type) {
	case int32:
		return v
	case int64:
		return int32(v)
	case int:
		return int32(v)
	default:
		return 0
	}
}

// DeleteMessage acks the delivery identified by receipt
func (c *RabbitMqClient) DeleteMessage(receipt string) error {
	deliveryTag, err := strconv.ParseUint(receipt, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid receipt %q: %w", receipt, err)
	}
	return c.channel.Ack(deliveryTag, false)
}

// ReQueueMessage parks the message on the delay queue with its attempt counter
// increased and acks the original delivery.
func (c *RabbitMqClient) ReQueueMessage(ctx context.Context, message QueueMessage) error {
	err := c.channel.PublishWithContext(ctx, "", c.queueName+delayedQueueSuffix, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "text/plain",
		Body:         []byte(message.Body),
		Headers: amqp.Table{
			retryAttemptsHeader: message.IncrementRetryAttempts(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to requeue message: %w", err)
	}
	return c.DeleteMessage(message.Receipt)
}

func (c *RabbitMqClient) SendMessage(ctx context.Context, messageBody string) error {
	return c.channel.PublishWithContext(ctx, "", c.queueName, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "text/plain",
		Body:         []byte(messageBody),
		Headers: amqp.Table{
			retryAttemptsHeader: int32(0),
		},
	})
}

func (c *RabbitMqClient) Stop() error {
	select {
	case <-c.stopCh:
	default:
		close(c.stopCh)
	}
	if err := c.channel.Close(); err != nil {
		return err
	}
	return c.connection.Close()
}

func (c *RabbitMqClient) GetQueueName() string {
	return c.queueName
}

func (c *RabbitMqClient) Ping() error {
	if c.connection.IsClosed() {
		return fmt.Errorf("rabbitmq connection for %s is closed", c.queueName)
	}
	if c.channel.IsClosed() {
		return fmt.Errorf("rabbitmq channel for %s is closed", c.queueName)
	}
	return nil
}
