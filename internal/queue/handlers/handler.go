package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/axalapp/claims-api-service/internal/services"
	"github.com/axalapp/claims-api-service/internal/types"
)

type QueueHandler struct {
	Services *services.Services
}

type MessageHandler func(ctx context.Context, messageBody string) *types.Error

func NewQueueHandler(services *services.Services) *QueueHandler {
	return &QueueHandler{
		Services: services,
	}
}

func decodeEvent[T any](ctx context.Context, messageBody string, eventName string) (*T, *types.Error) {
	var event T
	if err := json.Unmarshal([]byte(messageBody), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msgf("Failed to unmarshal the message body into %s", eventName)
		return nil, types.NewError(http.StatusBadRequest, types.BadRequest, err)
	}
	return &event, nil
}
