package oracle

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/axalapp/claims-api-service/internal/types"
)

// SimulatedOracle resolves every assertion with a fixed outcome once its
// liveness expires. It stands in for the on-chain oracle in development.
type SimulatedOracle struct {
	outcome types.Outcome

	mu      sync.Mutex
	handler ResolutionHandler
	timers  map[string]*time.Timer
}

func NewSimulatedOracle(outcome types.Outcome) *SimulatedOracle {
	if outcome == "" {
		outcome = types.ClaimUpheld
	}
	return &SimulatedOracle{
		outcome: outcome,
		timers:  make(map[string]*time.Timer),
	}
}

// SetResolutionHandler registers where outcomes are delivered. Assertions
// resolving before a handler is set are dropped.
func (s *SimulatedOracle) SetResolutionHandler(handler ResolutionHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

func (s *SimulatedOracle) RequestAssertion(ctx context.Context, req AssertionRequest) (string, *types.Error) {
	assertionRef := "sim-" + uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers[assertionRef] = time.AfterFunc(req.Liveness, func() {
		s.resolve(assertionRef)
	})

	log.Ctx(ctx).Info().Str("claimId", req.ClaimID).Str("assertionRef", assertionRef).
		Dur("liveness", req.Liveness).Msg("simulated assertion requested")
	return assertionRef, nil
}

func (s *SimulatedOracle) resolve(assertionRef string) {
	s.mu.Lock()
	delete(s.timers, assertionRef)
	handler := s.handler
	s.mu.Unlock()

	if handler == nil {
		log.Warn().Str("assertionRef", assertionRef).Msg("no resolution handler registered, dropping outcome")
		return
	}
	handler(context.Background(), assertionRef, s.outcome)
}

// Stop cancels every assertion still in its liveness period
func (s *SimulatedOracle) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ref, timer := range s.timers {
		timer.Stop()
		delete(s.timers, ref)
	}
}
