package scripts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/axalapp/claims-api-service/internal/db"
	"github.com/axalapp/claims-api-service/internal/db/model"
	"github.com/axalapp/claims-api-service/internal/queue"
	queueclient "github.com/axalapp/claims-api-service/internal/queue/client"
)

type GenericEvent struct {
	EventType queueclient.EventType `json:"event_type"`
}

// ReplayUnprocessableMessages re-publishes every stored unprocessable message
// to the queue of its event type and removes it from the store.
func ReplayUnprocessableMessages(ctx context.Context, queues *queue.Queues, db db.DBClient) error {
	unprocessableMessages, err := db.FindUnprocessableMessages(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve unprocessable messages: %w", err)
	}

	messageCount := len(unprocessableMessages)
	log.Info().Int("count", messageCount).Msg("found unprocessable messages")
	if messageCount == 0 {
		return errors.New("no unprocessable messages to replay")
	}

	for _, msg := range unprocessableMessages {
		queueClient, err := targetQueue(queues, msg)
		if err != nil {
			log.Error().Err(err).Str("receipt", msg.Receipt).Msg("cannot route unprocessable message")
			return err
		}

		if err := queueClient.SendMessage(ctx, msg.MessageBody); err != nil {
			return fmt.Errorf("failed to process message: %w", err)
		}

		if err := db.DeleteUnprocessableMessage(ctx, msg.ID); err != nil {
			return fmt.Errorf("failed to delete unprocessable message: %w", err)
		}
	}

	log.Info().Msg("Reprocessing of unprocessable messages completed.")
	return nil
}

// targetQueue picks the queue the message originally came from. Messages
// saved without a queue name are routed by their event type.
func targetQueue(queues *queue.Queues, msg model.UnprocessableMessageDocument) (queueclient.QueueClient, error) {
	switch msg.QueueName {
	case queueclient.AssertionResolvedQueueName:
		return queues.AssertionResolvedQueueClient, nil
	case queueclient.BondDepositQueueName:
		return queues.BondDepositQueueClient, nil
	case queueclient.ClaimNotificationQueueName:
		return queues.ClaimNotificationQueueClient, nil
	}

	var genericEvent GenericEvent
	if err := json.Unmarshal([]byte(msg.MessageBody), &genericEvent); err != nil {
		return nil, errors.New("failed to unmarshal event message")
	}
	switch genericEvent.EventType {
	case queueclient.AssertionResolvedEventType:
		return queues.AssertionResolvedQueueClient, nil
	case queueclient.BondDepositEventType:
		return queues.BondDepositQueueClient, nil
	case queueclient.ClaimNotificationEventType:
		return queues.ClaimNotificationQueueClient, nil
	default:
		return nil, fmt.Errorf("unknown event type: %v", genericEvent.EventType)
	}
}
