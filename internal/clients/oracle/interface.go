package oracle

import (
	"context"
	"time"

	"github.com/axalapp/claims-api-service/internal/types"
)

// AssertionRequest is what a dispute escalates to the optimistic oracle
type AssertionRequest struct {
	ClaimID  string
	Claim    string
	Asserter string
	Bond     int64
	Currency string
	Liveness time.Duration
}

// Adapter is the external truth source disputes are escalated to. Outcomes are
// delivered asynchronously, never as the return value of RequestAssertion.
type Adapter interface {
	// RequestAssertion returns the oracle reference of the new assertion. A
	// failure carries the AdapterUnavailable reason and may be retried.
	RequestAssertion(ctx context.Context, req AssertionRequest) (string, *types.Error)
}

// ResolutionHandler receives the final outcome of an assertion
type ResolutionHandler func(ctx context.Context, assertionRef string, outcome types.Outcome)
