package model

import (
	"time"

	"github.com/axalapp/claims-api-service/internal/types"
)

const ClaimsCollection = "claims"

type DisputeDocument struct {
	DisputerAddress   string    `bson:"disputer_address"`
	CounterBondAmount int64     `bson:"counter_bond_amount"`
	SubmittedAt       time.Time `bson:"submitted_at"`
	AssertionRef      string    `bson:"assertion_ref"`
}

type ResolutionDocument struct {
	Outcome    types.Outcome          `bson:"outcome"`
	Source     types.ResolutionSource `bson:"source"`
	ResolvedAt time.Time              `bson:"resolved_at"`
}

// ActiveClaimant is only set while the claim is not terminal. A unique sparse
// index on it guarantees one active claim per claimant.
type ClaimDocument struct {
	ClaimID         string              `bson:"_id"` // Primary key
	ClaimantAddress string              `bson:"claimant_address"`
	ActiveClaimant  string              `bson:"active_claimant,omitempty"`
	PoolReference   string              `bson:"pool_reference"`
	BondAmount      int64               `bson:"bond_amount"`
	State           types.ClaimState    `bson:"state"`
	CreatedAt       time.Time           `bson:"created_at"`
	NotifyEmail     string              `bson:"notify_email,omitempty"`
	Dispute         *DisputeDocument    `bson:"dispute,omitempty"`
	Resolution      *ResolutionDocument `bson:"resolution,omitempty"`
}

func NewClaimDocument(
	claimID, claimantAddress, poolReference, notifyEmail string, bondAmount int64, createdAt time.Time,
) *ClaimDocument {
	return &ClaimDocument{
		ClaimID:         claimID,
		ClaimantAddress: claimantAddress,
		ActiveClaimant:  claimantAddress,
		PoolReference:   poolReference,
		BondAmount:      bondAmount,
		State:           types.Pending,
		CreatedAt:       createdAt,
		NotifyEmail:     notifyEmail,
	}
}

// TotalEscrowed is the amount the claim must hold in escrow given its dispute status
func (c *ClaimDocument) TotalEscrowed() int64 {
	if c.Dispute != nil {
		return c.BondAmount + c.Dispute.CounterBondAmount
	}
	return c.BondAmount
}

type ClaimsByClaimantPagination struct {
	CreatedAt time.Time `json:"created_at"`
	ClaimID   string    `json:"claim_id"`
}

func BuildClaimsByClaimantPaginationToken(c ClaimDocument) (string, error) {
	return EncodePaginationToken(ClaimsByClaimantPagination{CreatedAt: c.CreatedAt, ClaimID: c.ClaimID})
}
