package utils

import (
	"github.com/axalapp/claims-api-service/internal/types"
)

// QualifiedStatesToDisputed returns the qualified existing states to transition to "disputed"
func QualifiedStatesToDisputed() []types.ClaimState {
	return []types.ClaimState{types.Pending}
}

// QualifiedStatesToResolved returns the qualified existing states to transition to "resolved"
// for the given resolution source. A timeout only settles claims nobody disputed.
func QualifiedStatesToResolved(source types.ResolutionSource) []types.ClaimState {
	switch source {
	case types.TimeoutSource:
		return []types.ClaimState{types.Pending}
	case types.ArbitrationSource:
		return []types.ClaimState{types.Disputed}
	default:
		return nil
	}
}

// List of states to be ignored for an arbitration result as it means the claim has already been settled
var OutdatedStatesForArbitrationResult = []types.ClaimState{types.Resolved}

// ActiveStates are the non-terminal claim states. A claimant may hold at most one claim in these states.
var ActiveStates = []types.ClaimState{types.Pending, types.Disputed}
