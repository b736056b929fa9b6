package handlers

import (
	"context"
	"fmt"
	"net/http"

	queueclient "github.com/axalapp/claims-api-service/internal/queue/client"
	"github.com/axalapp/claims-api-service/internal/types"
)

// BondDepositHandler credits collateral. Redelivered deposits are ignored by the ledger.
func (h *QueueHandler) BondDepositHandler(ctx context.Context, messageBody string) *types.Error {
	event, err := decodeEvent[queueclient.BondDepositEvent](ctx, messageBody, "BondDepositEvent")
	if err != nil {
		return err
	}
	if event.EventType != queueclient.BondDepositEventType {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, fmt.Sprintf("unexpected event type %d", event.EventType),
		)
	}
	return h.Services.DepositBond(ctx, event.DepositID, event.Address, event.Amount)
}
