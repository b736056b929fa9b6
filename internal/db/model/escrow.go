package model

import (
	"time"

	"github.com/axalapp/claims-api-service/internal/types"
)

const BondEscrowsCollection = "bond_escrows"

type BondEscrowDocument struct {
	EscrowID     string            `bson:"_id"` // <claim_id>:<role>
	ClaimID      string            `bson:"claim_id"`
	OwnerAddress string            `bson:"owner_address"`
	Role         types.EscrowRole  `bson:"role"`
	Amount       int64             `bson:"amount"`
	Locked       bool              `bson:"locked"`
	ReleasedTo   string            `bson:"released_to,omitempty"`
	ReleaseKind  types.ReleaseKind `bson:"release_kind,omitempty"`
	LockedAt     time.Time         `bson:"locked_at"`
	ReleasedAt   *time.Time        `bson:"released_at,omitempty"`
}

func EscrowID(claimID string, role types.EscrowRole) string {
	return claimID + ":" + role.ToString()
}

func NewBondEscrowDocument(
	claimID, ownerAddress string, role types.EscrowRole, amount int64, lockedAt time.Time,
) *BondEscrowDocument {
	return &BondEscrowDocument{
		EscrowID:     EscrowID(claimID, role),
		ClaimID:      claimID,
		OwnerAddress: ownerAddress,
		Role:         role,
		Amount:       amount,
		Locked:       true,
		LockedAt:     lockedAt,
	}
}

// EscrowRelease instructs the ledger where a locked escrow goes on resolution
type EscrowRelease struct {
	EscrowID   string
	ReleasedTo string
	Kind       types.ReleaseKind
}
