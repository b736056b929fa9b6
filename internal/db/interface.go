package db

import (
	"context"
	"time"

	"github.com/axalapp/claims-api-service/internal/db/model"
	"github.com/axalapp/claims-api-service/internal/types"
)

type DBClient interface {
	Ping(ctx context.Context) error
	// CreateClaim locks the claimant bond and stores the claim, its escrow and the
	// creation event atomically. It returns an InsufficientFundsError if the
	// claimant cannot cover the bond and a DuplicateKeyError if the claimant
	// already has an active claim.
	CreateClaim(ctx context.Context, claim *model.ClaimDocument, event *model.ClaimEventDocument) error
	FindClaimByID(ctx context.Context, claimID string) (*model.ClaimDocument, error)
	FindClaimByAssertionRef(ctx context.Context, assertionRef string) (*model.ClaimDocument, error)
	FindActiveClaimByClaimant(ctx context.Context, claimantAddress string) (*model.ClaimDocument, error)
	FindClaimsByClaimant(
		ctx context.Context, claimantAddress string, paginationToken string,
	) (*DbResultMap[model.ClaimDocument], error)
	FindMaturedPendingClaims(ctx context.Context, createdBefore time.Time, limit int64) ([]model.ClaimDocument, error)
	// AttachDispute moves a pending claim without dispute to disputed, locks the
	// counter bond and records the event. NotFoundError means the claim is
	// missing or no longer eligible.
	AttachDispute(
		ctx context.Context, claimID string, dispute *model.DisputeDocument, event *model.ClaimEventDocument,
	) error
	// ResolveClaim writes the resolution and releases every escrow of the claim
	// in the same transaction.
	ResolveClaim(
		ctx context.Context, claimID string, eligiblePreviousStates []types.ClaimState,
		resolution *model.ResolutionDocument, releases []model.EscrowRelease, event *model.ClaimEventDocument,
	) error
	FindEscrowsByClaim(ctx context.Context, claimID string) ([]model.BondEscrowDocument, error)
	FindClaimEvents(ctx context.Context, claimID string) ([]model.ClaimEventDocument, error)
	// SaveBondDeposit credits available balance once per deposit id. A replayed
	// deposit returns a DuplicateKeyError and leaves balances untouched.
	SaveBondDeposit(ctx context.Context, depositID, address string, amount int64) error
	FindBondAccount(ctx context.Context, address string) (*model.BondAccountDocument, error)
	SaveUnprocessableMessage(ctx context.Context, queueName, messageBody, receipt string) error
	FindUnprocessableMessages(ctx context.Context) ([]model.UnprocessableMessageDocument, error)
	DeleteUnprocessableMessage(ctx context.Context, id string) error
}

var (
	_ DBClient = (*Database)(nil)
	_ DBClient = (*MemoryDatabase)(nil)
)
