package services

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/axalapp/claims-api-service/internal/db"
	"github.com/axalapp/claims-api-service/internal/db/model"
	"github.com/axalapp/claims-api-service/internal/observability/metrics"
	"github.com/axalapp/claims-api-service/internal/observability/tracing"
	"github.com/axalapp/claims-api-service/internal/types"
	"github.com/axalapp/claims-api-service/internal/utils"
)

// Settle resolves an undisputed claim whose timeout has passed as upheld and
// refunds the claimant bond.
func (s *Services) Settle(ctx context.Context, claimID string) (*ClaimPublic, *types.Error) {
	claim, err := s.findClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lockClaim(ctx, claim.ClaimID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.settleByTimeout(ctx, claim.ClaimID)
}

// settleByTimeout expects the claim lock to be held
func (s *Services) settleByTimeout(ctx context.Context, claimID string) (*ClaimPublic, *types.Error) {
	claim, err := s.findClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if err := s.checkSettleable(claim); err != nil {
		return nil, err
	}

	resolved, dbErr := s.resolve(ctx, claim, types.ClaimUpheld, types.TimeoutSource)
	if dbErr != nil {
		if db.IsNotFoundError(dbErr) {
			return nil, s.classifyConflict(ctx, claimID, s.checkSettleable)
		}
		return nil, types.NewInternalServiceError(dbErr)
	}
	return s.fromClaimDocument(resolved), nil
}

func (s *Services) checkSettleable(claim *model.ClaimDocument) *types.Error {
	switch claim.State {
	case types.Resolved:
		return types.NewReasonError(types.AlreadyResolved, "claim is already resolved")
	case types.Disputed:
		return types.NewReasonError(types.ClaimAwaitingArbitration, "claim is awaiting arbitration")
	}
	if s.now().Before(s.timeoutAt(claim)) {
		return types.NewReasonError(types.ClaimNotMature, "claim timeout has not elapsed yet")
	}
	return nil
}

// OnArbitrationResult applies the oracle outcome to the disputed claim carrying
// the assertion. Redelivery of an already applied outcome is a no-op and
// reports applied=false.
func (s *Services) OnArbitrationResult(
	ctx context.Context, assertionRef string, outcome types.Outcome,
) (bool, *types.Error) {
	if _, err := types.OutcomeFromString(outcome.ToString()); err != nil {
		return false, types.NewReasonError(types.InvalidOutcome, err.Error())
	}

	claim, dbErr := s.DbClient.FindClaimByAssertionRef(ctx, assertionRef)
	if dbErr != nil {
		if db.IsNotFoundError(dbErr) {
			log.Ctx(ctx).Warn().Str("assertionRef", assertionRef).Msg("arbitration result for unknown assertion")
			return false, types.NewReasonError(types.StaleOrUnknownAssertion, "no claim carries this assertion")
		}
		log.Ctx(ctx).Error().Err(dbErr).Str("assertionRef", assertionRef).Msg("error while fetching claim by assertion")
		return false, types.NewInternalServiceError(dbErr)
	}

	unlock, err := s.lockClaim(ctx, claim.ClaimID)
	if err != nil {
		return false, err
	}
	defer unlock()

	claim, err = s.findClaim(ctx, claim.ClaimID)
	if err != nil {
		return false, err
	}
	if slices.Contains(utils.OutdatedStatesForArbitrationResult, claim.State) {
		log.Ctx(ctx).Info().Str("claimId", claim.ClaimID).Str("assertionRef", assertionRef).
			Msg("duplicate arbitration result delivery ignored, claim already resolved")
		return false, nil
	}
	if claim.State != types.Disputed {
		return false, types.NewReasonError(types.StateConflict, "claim is not awaiting arbitration")
	}

	if _, dbErr = s.resolve(ctx, claim, outcome, types.ArbitrationSource); dbErr != nil {
		if db.IsNotFoundError(dbErr) {
			current, err := s.findClaim(ctx, claim.ClaimID)
			if err == nil && current.State == types.Resolved {
				return false, nil
			}
			return false, types.NewReasonError(types.StateConflict, "claim state changed concurrently")
		}
		return false, types.NewInternalServiceError(dbErr)
	}
	return true, nil
}

// SettleExpiredClaims timeout-settles every matured pending claim and returns
// how many were resolved. Claims that raced with a dispute are skipped.
func (s *Services) SettleExpiredClaims(ctx context.Context, now time.Time) (int, *types.Error) {
	batchSize := s.cfg.Scheduler.SweepBatchSize
	cutoff := now.Add(-s.params.ClaimTimeout())
	settled := 0

	for {
		claims, err := s.DbClient.FindMaturedPendingClaims(ctx, cutoff, batchSize)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to find matured pending claims")
			return settled, types.NewInternalServiceError(err)
		}

		progressed := false
		for _, claim := range claims {
			ok, err := s.settleExpired(ctx, claim.ClaimID)
			if err != nil {
				return settled, err
			}
			if ok {
				settled++
				progressed = true
			}
		}
		if int64(len(claims)) < batchSize || !progressed {
			return settled, nil
		}
	}
}

func (s *Services) settleExpired(ctx context.Context, claimID string) (bool, *types.Error) {
	unlock, err := s.lockClaim(ctx, claimID)
	if err != nil {
		return false, err
	}
	defer unlock()

	if _, err := s.settleByTimeout(ctx, claimID); err != nil {
		if err.StatusCode >= 500 {
			return false, err
		}
		log.Ctx(ctx).Debug().Err(err).Str("claimId", claimID).Msg("skipping claim in timeout sweep")
		return false, nil
	}
	return true, nil
}

// resolve writes the resolution and releases the escrows according to the outcome
func (s *Services) resolve(
	ctx context.Context, claim *model.ClaimDocument, outcome types.Outcome, source types.ResolutionSource,
) (*model.ClaimDocument, error) {
	resolvedAt := s.now()
	resolution := &model.ResolutionDocument{
		Outcome:    outcome,
		Source:     source,
		ResolvedAt: resolvedAt,
	}
	releases := s.releasePlan(claim, outcome)
	event := model.NewClaimEventDocument(types.ClaimResolvedEvent, claim, resolvedAt)
	event.Outcome = outcome
	event.Source = source
	if claim.Dispute != nil {
		event.DisputerAddress = claim.Dispute.DisputerAddress
		event.AssertionRef = claim.Dispute.AssertionRef
	}

	_, err := tracing.WrapWithSpan[any](ctx, "resolve_claim", func() (any, error) {
		return nil, s.DbClient.ResolveClaim(
			ctx, claim.ClaimID, utils.QualifiedStatesToResolved(source), resolution, releases, event,
		)
	})
	if err != nil {
		if db.IsNotFoundError(err) {
			log.Ctx(ctx).Warn().Err(err).Str("claimId", claim.ClaimID).Msg("claim not eligible for resolution")
		} else {
			log.Ctx(ctx).Error().Err(err).Str("claimId", claim.ClaimID).Msg("failed to resolve claim")
		}
		return nil, err
	}

	resolved := *claim
	resolved.State = types.Resolved
	resolved.Resolution = resolution
	resolved.ActiveClaimant = ""

	metrics.RecordSettlement(source.ToString(), outcome.ToString())
	log.Ctx(ctx).Info().Str("claimId", claim.ClaimID).Str("outcome", outcome.ToString()).
		Str("source", source.ToString()).Msg("claim resolved")
	s.notify(ctx, &resolved, types.ClaimResolvedEvent)
	return &resolved, nil
}
