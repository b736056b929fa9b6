package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	queueclient "github.com/axalapp/claims-api-service/internal/queue/client"
	"github.com/axalapp/claims-api-service/internal/types"
)

// AssertionResolvedHandler applies an oracle outcome. Unknown assertions are
// returned as errors so the message is retried, the dispute that requested
// the assertion may not be committed yet.
func (h *QueueHandler) AssertionResolvedHandler(ctx context.Context, messageBody string) *types.Error {
	event, err := decodeEvent[queueclient.AssertionResolvedEvent](ctx, messageBody, "AssertionResolvedEvent")
	if err != nil {
		return err
	}
	if event.EventType != queueclient.AssertionResolvedEventType {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, fmt.Sprintf("unexpected event type %d", event.EventType),
		)
	}

	outcome, parseErr := types.OutcomeFromString(event.Outcome)
	if parseErr != nil {
		log.Ctx(ctx).Error().Err(parseErr).Str("assertionRef", event.AssertionRef).Msg("invalid assertion outcome")
		return types.NewReasonError(types.InvalidOutcome, parseErr.Error())
	}

	applied, err := h.Services.OnArbitrationResult(ctx, event.AssertionRef, outcome)
	if err != nil {
		return err
	}
	if !applied {
		// Ignore the message as the claim was already resolved. Nothing to do anymore
		log.Ctx(ctx).Debug().Str("assertionRef", event.AssertionRef).Msg("assertion result already applied")
	}
	return nil
}
