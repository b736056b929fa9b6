package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/axalapp/claims-api-service/internal/types"
)

const ClaimEventsCollection = "claim_events"

type ClaimEventDocument struct {
	EventID         string                 `bson:"_id"`
	EventType       types.ClaimEventType   `bson:"event_type"`
	ClaimID         string                 `bson:"claim_id"`
	ClaimantAddress string                 `bson:"claimant_address"`
	DisputerAddress string                 `bson:"disputer_address,omitempty"`
	PoolReference   string                 `bson:"pool_reference,omitempty"`
	BondAmount      int64                  `bson:"bond_amount"`
	AssertionRef    string                 `bson:"assertion_ref,omitempty"`
	Outcome         types.Outcome          `bson:"outcome,omitempty"`
	Source          types.ResolutionSource `bson:"source,omitempty"`
	CreatedAt       time.Time              `bson:"created_at"`
}

func NewClaimEventDocument(eventType types.ClaimEventType, claim *ClaimDocument, createdAt time.Time) *ClaimEventDocument {
	return &ClaimEventDocument{
		EventID:         uuid.NewString(),
		EventType:       eventType,
		ClaimID:         claim.ClaimID,
		ClaimantAddress: claim.ClaimantAddress,
		PoolReference:   claim.PoolReference,
		BondAmount:      claim.BondAmount,
		CreatedAt:       createdAt,
	}
}
