package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/axalapp/claims-api-service/internal/clients/oracle"
	"github.com/axalapp/claims-api-service/internal/db"
	"github.com/axalapp/claims-api-service/internal/db/model"
	"github.com/axalapp/claims-api-service/internal/observability/metrics"
	"github.com/axalapp/claims-api-service/internal/observability/tracing"
	"github.com/axalapp/claims-api-service/internal/types"
	"github.com/axalapp/claims-api-service/internal/utils"
)

type DisputePublicResult struct {
	ClaimID      string `json:"claim_id"`
	AssertionRef string `json:"assertion_ref"`
}

// FileDispute challenges a pending claim on behalf of the disputer. The
// assertion is requested before the claim lock is taken, the claim is then
// re-validated and the counter bond locked atomically with the transition.
func (s *Services) FileDispute(
	ctx context.Context, claimID, disputerAddress string,
) (*DisputePublicResult, *types.Error) {
	result, err := s.fileDispute(ctx, claimID, disputerAddress)
	if err != nil {
		metrics.RecordDispute(metrics.Error)
		return nil, err
	}
	metrics.RecordDispute(metrics.Success)
	return result, nil
}

func (s *Services) fileDispute(
	ctx context.Context, claimID, disputerAddress string,
) (*DisputePublicResult, *types.Error) {
	claim, err := s.findClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if !utils.IsValidWalletAddress(disputerAddress) {
		return nil, types.NewReasonError(types.InvalidAddress, "invalid disputer address")
	}
	disputer := utils.NormalizeWalletAddress(disputerAddress)

	if err := s.checkDisputable(claim, disputer); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("claimId", claim.ClaimID).Str("disputer", disputer).
			Msg("claim is not eligible for dispute")
		return nil, err
	}
	if err := s.checkAvailableBond(ctx, disputer); err != nil {
		return nil, err
	}

	// External call happens outside the claim lock
	assertionRef, err := s.requestAssertion(ctx, claim, disputer)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lockClaim(ctx, claim.ClaimID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := s.findClaim(ctx, claim.ClaimID)
	if err != nil {
		return nil, err
	}
	if err := s.revalidateDispute(current); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("claimId", claim.ClaimID).Str("assertionRef", assertionRef).
			Msg("claim changed while the assertion was requested, dispute dropped")
		return nil, err
	}

	submittedAt := s.now()
	dispute := &model.DisputeDocument{
		DisputerAddress:   disputer,
		CounterBondAmount: current.BondAmount,
		SubmittedAt:       submittedAt,
		AssertionRef:      assertionRef,
	}
	event := model.NewClaimEventDocument(types.ClaimDisputedEvent, current, submittedAt)
	event.DisputerAddress = disputer
	event.AssertionRef = assertionRef

	_, dbErr := tracing.WrapWithSpan[any](ctx, "attach_dispute", func() (any, error) {
		return nil, s.DbClient.AttachDispute(ctx, current.ClaimID, dispute, event)
	})
	if dbErr != nil {
		switch {
		case db.IsInsufficientFundsError(dbErr):
			log.Ctx(ctx).Warn().Err(dbErr).Str("disputer", disputer).Msg("disputer cannot cover the counter bond")
			return nil, types.NewReasonError(types.InsufficientBond, "insufficient bond balance")
		case db.IsNotFoundError(dbErr), db.IsDuplicateKeyError(dbErr):
			log.Ctx(ctx).Warn().Err(dbErr).Str("claimId", current.ClaimID).Msg("dispute lost the state transition race")
			return nil, s.classifyConflict(ctx, current.ClaimID, s.revalidateDispute)
		}
		log.Ctx(ctx).Error().Err(dbErr).Str("claimId", current.ClaimID).Msg("failed to attach dispute")
		return nil, types.NewInternalServiceError(dbErr)
	}

	current.State = types.Disputed
	current.Dispute = dispute
	log.Ctx(ctx).Info().Str("claimId", current.ClaimID).Str("disputer", disputer).
		Str("assertionRef", assertionRef).Msg("claim disputed")
	s.notify(ctx, current, types.ClaimDisputedEvent)

	return &DisputePublicResult{
		ClaimID:      current.ClaimID,
		AssertionRef: assertionRef,
	}, nil
}

// checkDisputable holds the eligibility rules evaluated before anything is requested
func (s *Services) checkDisputable(claim *model.ClaimDocument, disputer string) *types.Error {
	switch claim.State {
	case types.Resolved:
		return types.NewReasonError(types.ClaimNotDisputable, "claim is already resolved")
	case types.Disputed:
		return types.NewReasonError(types.AlreadyDisputed, "claim is already disputed")
	}
	if claim.ClaimantAddress == disputer {
		return types.NewReasonError(types.ClaimNotDisputable, "claimant cannot dispute their own claim")
	}
	if !s.now().Before(s.timeoutAt(claim)) {
		return types.NewReasonError(types.ClaimNotDisputable, "dispute window has elapsed")
	}
	return nil
}

// revalidateDispute checks a freshly loaded claim after the assertion was requested
func (s *Services) revalidateDispute(claim *model.ClaimDocument) *types.Error {
	switch claim.State {
	case types.Resolved:
		return types.NewReasonError(types.AlreadyResolved, "claim was resolved concurrently")
	case types.Disputed:
		return types.NewReasonError(types.AlreadyDisputed, "claim was disputed concurrently")
	}
	if !s.now().Before(s.timeoutAt(claim)) {
		return types.NewReasonError(types.ClaimNotDisputable, "dispute window has elapsed")
	}
	return nil
}

func (s *Services) requestAssertion(
	ctx context.Context, claim *model.ClaimDocument, disputer string,
) (string, *types.Error) {
	req := oracle.AssertionRequest{
		ClaimID: claim.ClaimID,
		Claim: fmt.Sprintf(
			"Claim %s: claimant %s asserts the monitored condition holds for pool %q as of %d",
			claim.ClaimID, claim.ClaimantAddress, claim.PoolReference, claim.CreatedAt.Unix(),
		),
		Asserter: disputer,
		Bond:     claim.BondAmount,
		Currency: s.params.Token.Address,
		Liveness: s.params.ChallengeWindow(),
	}

	observe := metrics.StartArbitrationRequestTimer()
	assertionRef, err := s.adapter.RequestAssertion(ctx, req)
	if err != nil {
		observe(metrics.Error)
		log.Ctx(ctx).Error().Err(err).Str("claimId", claim.ClaimID).Msg("arbitration adapter request failed")
		if err.Reason != types.AdapterUnavailable {
			return "", types.NewReasonError(types.AdapterUnavailable, err.Error())
		}
		return "", err
	}
	observe(metrics.Success)
	return assertionRef, nil
}

// classifyConflict turns a failed compare-and-set into the most specific reason
// by reloading the claim. Unclassifiable races become StateConflict.
func (s *Services) classifyConflict(
	ctx context.Context, claimID string, rule func(*model.ClaimDocument) *types.Error,
) *types.Error {
	current, err := s.findClaim(ctx, claimID)
	if err != nil {
		return err
	}
	if err := rule(current); err != nil {
		return err
	}
	return types.NewReasonError(types.StateConflict, "claim state changed concurrently")
}
