package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/axalapp/claims-api-service/internal/config"
	"github.com/axalapp/claims-api-service/internal/observability/metrics"
	"github.com/axalapp/claims-api-service/internal/observability/tracing"
	"github.com/axalapp/claims-api-service/internal/queue/client"
	"github.com/axalapp/claims-api-service/internal/queue/handlers"
	"github.com/axalapp/claims-api-service/internal/services"
	"github.com/axalapp/claims-api-service/internal/types"
)

type UnprocessableMessageHandler func(ctx context.Context, queueName, messageBody, receipt string) error

type Queues struct {
	AssertionResolvedQueueClient client.QueueClient
	BondDepositQueueClient       client.QueueClient
	ClaimNotificationQueueClient client.QueueClient
	Handlers                     *handlers.QueueHandler
	processingTimeout            time.Duration
	maxRetryAttempts             int32
}

// New dials the inbound queues. The notification client is created by the
// caller since the services publish through it.
func New(cfg *config.QueueConfig, service *services.Services, notifications client.QueueClient) (*Queues, error) {
	assertionResolvedQueueClient, err := client.NewQueueClient(cfg, client.AssertionResolvedQueueName)
	if err != nil {
		return nil, fmt.Errorf("error while creating AssertionResolvedQueueClient: %w", err)
	}
	bondDepositQueueClient, err := client.NewQueueClient(cfg, client.BondDepositQueueName)
	if err != nil {
		assertionResolvedQueueClient.Stop()
		return nil, fmt.Errorf("error while creating BondDepositQueueClient: %w", err)
	}
	return NewWithClients(cfg, service, assertionResolvedQueueClient, bondDepositQueueClient, notifications), nil
}

func NewWithClients(
	cfg *config.QueueConfig, service *services.Services,
	assertionResolved, bondDeposit, notifications client.QueueClient,
) *Queues {
	return &Queues{
		AssertionResolvedQueueClient: assertionResolved,
		BondDepositQueueClient:       bondDeposit,
		ClaimNotificationQueueClient: notifications,
		Handlers:                     handlers.NewQueueHandler(service),
		processingTimeout:            cfg.QueueProcessingTimeout,
		maxRetryAttempts:             cfg.MsgMaxRetryAttempts,
	}
}

// Start all message processing
func (q *Queues) StartReceivingMessages() error {
	err := startQueueMessageProcessing(
		q.AssertionResolvedQueueClient, q.Handlers.AssertionResolvedHandler,
		q.Handlers.Services.SaveUnprocessableMessages, q.maxRetryAttempts, q.processingTimeout,
	)
	if err != nil {
		return err
	}
	return startQueueMessageProcessing(
		q.BondDepositQueueClient, q.Handlers.BondDepositHandler,
		q.Handlers.Services.SaveUnprocessableMessages, q.maxRetryAttempts, q.processingTimeout,
	)
}

// Turn off all message processing
func (q *Queues) StopReceivingMessages() {
	for _, c := range q.clients() {
		if err := c.Stop(); err != nil {
			log.Error().Err(err).Str("queueName", c.GetQueueName()).Msg("error while stopping queue client")
		}
	}
}

func (q *Queues) IsConnectionHealthy() error {
	var errorMessages []string
	for _, c := range q.clients() {
		if err := c.Ping(); err != nil {
			errorMessages = append(errorMessages, fmt.Sprintf("%s is not healthy: %v", c.GetQueueName(), err))
		}
	}
	if len(errorMessages) > 0 {
		return fmt.Errorf("queue connection error: %v", errorMessages)
	}
	return nil
}

// PublishAssertionResolved feeds an oracle outcome through the assertion queue
// so it is retried like any other delivery.
func (q *Queues) PublishAssertionResolved(ctx context.Context, assertionRef string, outcome types.Outcome) error {
	event := client.NewAssertionResolvedEvent(assertionRef, outcome.ToString(), time.Now().Unix())
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return q.AssertionResolvedQueueClient.SendMessage(ctx, string(body))
}

func (q *Queues) clients() []client.QueueClient {
	return []client.QueueClient{
		q.AssertionResolvedQueueClient,
		q.BondDepositQueueClient,
		q.ClaimNotificationQueueClient,
	}
}

func startQueueMessageProcessing(
	queueClient client.QueueClient, handler handlers.MessageHandler,
	unprocessableHandler UnprocessableMessageHandler,
	maxRetryAttempts int32, timeout time.Duration,
) error {
	queueName := queueClient.GetQueueName()
	messagesChan, err := queueClient.ReceiveMessages()
	if err != nil {
		return fmt.Errorf("error setting up message channel from queue %s: %w", queueName, err)
	}

	go func() {
		for message := range messagesChan {
			processMessage(queueClient, handler, unprocessableHandler, maxRetryAttempts, timeout, message)
		}
		log.Info().Str("queueName", queueName).Msg("stopped receiving messages from queue")
	}()
	return nil
}

func processMessage(
	queueClient client.QueueClient, handler handlers.MessageHandler,
	unprocessableHandler UnprocessableMessageHandler,
	maxRetryAttempts int32, timeout time.Duration, message client.QueueMessage,
) {
	queueName := queueClient.GetQueueName()
	ctx, traceId, _ := tracing.WithTracing(context.Background())
	logger := log.With().Str("queueName", queueName).Str("traceId", traceId).Logger()
	ctx = logger.WithContext(ctx)

	// For each message, create a new context with a deadline or timeout
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := handler(ctx, message.Body); err != nil {
		metrics.RecordQueueMessage(queueName, metrics.Error)
		if message.GetRetryAttempts() >= maxRetryAttempts {
			logger.Error().Err(err).Int32("attempts", message.GetRetryAttempts()).
				Msg("exceeded retry attempts, message will be saved as unprocessable")
			if saveErr := unprocessableHandler(ctx, queueName, message.Body, message.Receipt); saveErr != nil {
				logger.Error().Err(saveErr).Msg("error while saving unprocessable message")
				return
			}
			if delErr := queueClient.DeleteMessage(message.Receipt); delErr != nil {
				logger.Error().Err(delErr).Msg("error while deleting message from queue")
			}
			return
		}

		logger.Warn().Err(err).Int32("attempts", message.GetRetryAttempts()).
			Msg("error while processing message from queue, will be requeued")
		if reQueueErr := queueClient.ReQueueMessage(ctx, message); reQueueErr != nil {
			logger.Error().Err(reQueueErr).Msg("error while requeuing message")
		}
		return
	}

	metrics.RecordQueueMessage(queueName, metrics.Success)
	if delErr := queueClient.DeleteMessage(message.Receipt); delErr != nil {
		logger.Error().Err(delErr).Msg("error while deleting message from queue")
	}
}
