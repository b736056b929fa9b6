package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/axalapp/claims-api-service/internal/db/model"
	queueclient "github.com/axalapp/claims-api-service/internal/queue/client"
	"github.com/axalapp/claims-api-service/internal/types"
)

// notify publishes a best effort notification for claims that asked for one.
// Failures are logged and never affect the claim.
func (s *Services) notify(ctx context.Context, claim *model.ClaimDocument, kind types.ClaimEventType) {
	if s.notifier == nil || claim.NotifyEmail == "" {
		return
	}

	event := s.buildNotification(claim, kind)
	body, err := json.Marshal(event)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("claimId", claim.ClaimID).Msg("failed to marshal claim notification")
		return
	}
	if err := s.notifier.SendMessage(ctx, string(body)); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("claimId", claim.ClaimID).Str("kind", kind.ToString()).
			Msg("failed to publish claim notification")
	}
}

func (s *Services) buildNotification(claim *model.ClaimDocument, kind types.ClaimEventType) queueclient.ClaimNotificationEvent {
	event := queueclient.ClaimNotificationEvent{
		EventType:       queueclient.ClaimNotificationEventType,
		ClaimID:         claim.ClaimID,
		ClaimantAddress: claim.ClaimantAddress,
		NotifyEmail:     claim.NotifyEmail,
		Kind:            kind.ToString(),
	}
	bond := fmt.Sprintf("%s %s", s.params.FormatAmount(claim.BondAmount), s.params.Token.Symbol)

	switch kind {
	case types.ClaimCreatedEvent:
		event.Subject = "Claim Submitted"
		event.Message = fmt.Sprintf(
			"Your claim %s on %s was submitted with a %s bond. It can be disputed until %s.",
			claim.ClaimID, claim.PoolReference, bond, s.timeoutAt(claim).UTC().Format("2006-01-02 15:04 MST"),
		)
	case types.ClaimDisputedEvent:
		event.Subject = "Claim Disputed"
		event.Message = fmt.Sprintf("Your claim %s was disputed and escalated to arbitration.", claim.ClaimID)
	case types.ClaimResolvedEvent:
		if claim.Resolution != nil {
			event.Outcome = claim.Resolution.Outcome.ToString()
			event.Source = claim.Resolution.Source.ToString()
		}
		if claim.Resolution != nil && claim.Resolution.Outcome == types.ClaimRejected {
			event.Subject = "Claim Rejected"
			event.Message = fmt.Sprintf("Your claim %s was rejected, the %s bond was forfeited.", claim.ClaimID, bond)
		} else {
			event.Subject = "Claim Upheld"
			event.Message = fmt.Sprintf("Your claim %s was upheld, the %s bond was returned.", claim.ClaimID, bond)
		}
	}
	return event
}
