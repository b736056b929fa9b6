package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/axalapp/claims-api-service/internal/db"
	"github.com/axalapp/claims-api-service/internal/db/model"
	"github.com/axalapp/claims-api-service/internal/observability/metrics"
	"github.com/axalapp/claims-api-service/internal/observability/tracing"
	"github.com/axalapp/claims-api-service/internal/types"
	"github.com/axalapp/claims-api-service/internal/utils"
)

type DisputePublic struct {
	DisputerAddress   string `json:"disputer_address"`
	CounterBondAmount int64  `json:"counter_bond_amount"`
	SubmittedAt       string `json:"submitted_at"`
	AssertionRef      string `json:"assertion_ref"`
}

type ResolutionPublic struct {
	Outcome    string `json:"outcome"`
	Source     string `json:"source"`
	ResolvedAt string `json:"resolved_at"`
}

type EscrowPublic struct {
	OwnerAddress string `json:"owner_address"`
	Role         string `json:"role"`
	Amount       int64  `json:"amount"`
	Locked       bool   `json:"locked"`
	ReleasedTo   string `json:"released_to,omitempty"`
	ReleaseKind  string `json:"release_kind,omitempty"`
}

type ClaimPublic struct {
	ClaimID         string            `json:"claim_id"`
	ClaimantAddress string            `json:"claimant_address"`
	PoolReference   string            `json:"pool_reference"`
	BondAmount      int64             `json:"bond_amount"`
	State           string            `json:"state"`
	CreatedAt       string            `json:"created_at"`
	TimeoutAt       string            `json:"timeout_at"`
	Dispute         *DisputePublic    `json:"dispute,omitempty"`
	Resolution      *ResolutionPublic `json:"resolution,omitempty"`
	Escrows         []EscrowPublic    `json:"escrows,omitempty"`
}

func (s *Services) fromClaimDocument(c *model.ClaimDocument) *ClaimPublic {
	claim := &ClaimPublic{
		ClaimID:         c.ClaimID,
		ClaimantAddress: c.ClaimantAddress,
		PoolReference:   c.PoolReference,
		BondAmount:      c.BondAmount,
		State:           c.State.ToString(),
		CreatedAt:       c.CreatedAt.UTC().Format(time.RFC3339),
		TimeoutAt:       c.CreatedAt.Add(s.params.ClaimTimeout()).UTC().Format(time.RFC3339),
	}
	if c.Dispute != nil {
		claim.Dispute = &DisputePublic{
			DisputerAddress:   c.Dispute.DisputerAddress,
			CounterBondAmount: c.Dispute.CounterBondAmount,
			SubmittedAt:       c.Dispute.SubmittedAt.UTC().Format(time.RFC3339),
			AssertionRef:      c.Dispute.AssertionRef,
		}
	}
	if c.Resolution != nil {
		claim.Resolution = &ResolutionPublic{
			Outcome:    c.Resolution.Outcome.ToString(),
			Source:     c.Resolution.Source.ToString(),
			ResolvedAt: c.Resolution.ResolvedAt.UTC().Format(time.RFC3339),
		}
	}
	return claim
}

func fromEscrowDocument(e model.BondEscrowDocument) EscrowPublic {
	return EscrowPublic{
		OwnerAddress: e.OwnerAddress,
		Role:         e.Role.ToString(),
		Amount:       e.Amount,
		Locked:       e.Locked,
		ReleasedTo:   e.ReleasedTo,
		ReleaseKind:  e.ReleaseKind.ToString(),
	}
}

// SubmitClaim registers a new monitoring claim for the claimant and locks the
// configured bond. When no pool is given the highest APY pool is monitored.
func (s *Services) SubmitClaim(
	ctx context.Context, claimantAddress, poolReference, notifyEmail string,
) (*ClaimPublic, *types.Error) {
	claim, err := s.submitClaim(ctx, claimantAddress, poolReference, notifyEmail)
	if err != nil {
		metrics.RecordClaimSubmission(metrics.Error)
		return nil, err
	}
	metrics.RecordClaimSubmission(metrics.Success)
	return claim, nil
}

func (s *Services) submitClaim(
	ctx context.Context, claimantAddress, poolReference, notifyEmail string,
) (*ClaimPublic, *types.Error) {
	if !utils.IsValidWalletAddress(claimantAddress) {
		return nil, types.NewReasonError(types.InvalidAddress, "invalid claimant address")
	}
	claimant := utils.NormalizeWalletAddress(claimantAddress)
	if notifyEmail != "" && !utils.IsValidEmail(notifyEmail) {
		return nil, types.NewReasonError(types.InvalidEmail, "invalid notification email")
	}
	if poolReference == "" {
		if pool := s.HighestAPYPool(); pool != nil {
			poolReference = pool.PoolName
		}
	}

	// Reject early so the common duplicate case never reaches the ledger
	active, err := s.DbClient.FindActiveClaimByClaimant(ctx, claimant)
	if err == nil {
		log.Ctx(ctx).Warn().Str("claimant", claimant).Str("activeClaimId", active.ClaimID).
			Msg("claimant already has an active claim")
		return nil, types.NewReasonError(types.DuplicateActiveClaim, "claimant already has an active claim")
	}
	if !db.IsNotFoundError(err) {
		log.Ctx(ctx).Error().Err(err).Msg("error while looking up the active claim")
		return nil, types.NewInternalServiceError(err)
	}

	createdAt := s.now()
	claimDoc := model.NewClaimDocument(
		utils.NewClaimID(claimant, poolReference, createdAt),
		claimant, poolReference, notifyEmail, s.params.BondMinorUnits(), createdAt,
	)
	event := model.NewClaimEventDocument(types.ClaimCreatedEvent, claimDoc, createdAt)

	_, err = tracing.WrapWithSpan[any](ctx, "create_claim", func() (any, error) {
		return nil, s.DbClient.CreateClaim(ctx, claimDoc, event)
	})
	if err != nil {
		switch {
		case db.IsDuplicateKeyError(err):
			log.Ctx(ctx).Warn().Err(err).Str("claimant", claimant).Msg("concurrent claim submission rejected")
			return nil, types.NewReasonError(types.DuplicateActiveClaim, "claimant already has an active claim")
		case db.IsInsufficientFundsError(err):
			log.Ctx(ctx).Warn().Err(err).Str("claimant", claimant).Msg("claimant cannot cover the bond")
			return nil, types.NewReasonError(types.InsufficientBond, "insufficient bond balance")
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to create claim")
		return nil, types.NewInternalServiceError(err)
	}

	log.Ctx(ctx).Info().Str("claimId", claimDoc.ClaimID).Str("claimant", claimant).
		Str("poolReference", poolReference).Int64("bondAmount", claimDoc.BondAmount).Msg("claim created")
	s.notify(ctx, claimDoc, types.ClaimCreatedEvent)
	return s.fromClaimDocument(claimDoc), nil
}

// GetClaim returns the claim with its escrows
func (s *Services) GetClaim(ctx context.Context, claimID string) (*ClaimPublic, *types.Error) {
	claimDoc, err := s.findClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	escrows, dbErr := s.DbClient.FindEscrowsByClaim(ctx, claimDoc.ClaimID)
	if dbErr != nil {
		log.Ctx(ctx).Error().Err(dbErr).Str("claimId", claimDoc.ClaimID).Msg("failed to find claim escrows")
		return nil, types.NewInternalServiceError(dbErr)
	}

	claim := s.fromClaimDocument(claimDoc)
	for _, e := range escrows {
		claim.Escrows = append(claim.Escrows, fromEscrowDocument(e))
	}
	return claim, nil
}

func (s *Services) ClaimsByClaimant(
	ctx context.Context, claimantAddress string, pageToken string,
) ([]*ClaimPublic, string, *types.Error) {
	if !utils.IsValidWalletAddress(claimantAddress) {
		return nil, "", types.NewReasonError(types.InvalidAddress, "invalid claimant address")
	}
	resultMap, err := s.DbClient.FindClaimsByClaimant(ctx, utils.NormalizeWalletAddress(claimantAddress), pageToken)
	if err != nil {
		if db.IsInvalidPaginationTokenError(err) {
			log.Ctx(ctx).Warn().Err(err).Msg("Invalid pagination token when fetching claims by claimant")
			return nil, "", types.NewError(http.StatusBadRequest, types.BadRequest, err)
		}
		log.Ctx(ctx).Error().Err(err).Msg("Failed to find claims by claimant")
		return nil, "", types.NewInternalServiceError(err)
	}
	claims := make([]*ClaimPublic, 0, len(resultMap.Data))
	for i := range resultMap.Data {
		claims = append(claims, s.fromClaimDocument(&resultMap.Data[i]))
	}
	return claims, resultMap.PaginationToken, nil
}

// findClaim validates the id and loads the claim
func (s *Services) findClaim(ctx context.Context, claimID string) (*model.ClaimDocument, *types.Error) {
	claimID = strings.ToLower(claimID)
	if !utils.IsValidClaimID(claimID) {
		return nil, types.NewReasonError(types.InvalidClaimID, "invalid claim id")
	}
	claim, err := s.DbClient.FindClaimByID(ctx, claimID)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewReasonError(types.ClaimNotFound, fmt.Sprintf("claim %s not found", claimID))
		}
		log.Ctx(ctx).Error().Err(err).Str("claimId", claimID).Msg("error while fetching claim")
		return nil, types.NewInternalServiceError(err)
	}
	return claim, nil
}

// timeoutAt is when an undisputed claim matures and stops accepting disputes
func (s *Services) timeoutAt(claim *model.ClaimDocument) time.Time {
	return claim.CreatedAt.Add(s.params.ClaimTimeout())
}
