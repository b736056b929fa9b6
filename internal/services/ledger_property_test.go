package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/axalapp/claims-api-service/internal/clients/oracle"
	"github.com/axalapp/claims-api-service/internal/types"
)

// sequenceAdapter hands out unique assertion refs
type sequenceAdapter struct {
	mu sync.Mutex
	n  int
}

func (a *sequenceAdapter) RequestAssertion(ctx context.Context, req oracle.AssertionRequest) (string, *types.Error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.n++
	return fmt.Sprintf("assertion-%d", a.n), nil
}

const opKinds = 6

// TestBondConservation drives random claim lifecycles and checks that no
// collateral is created or destroyed and every escrow is accounted for.
func TestBondConservation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	claimants := []string{
		claimantAddr,
		"0x4444444444444444444444444444444444444444",
		"0x5555555555555555555555555555555555555555",
	}
	disputers := []string{disputerAddr, otherAddr}
	const initialDeposit = 3 * bondUnits

	properties.Property("deposits equal the sum of all balances", prop.ForAll(
		func(ops []int) bool {
			f := newFixtureWithAdapter(t, &sequenceAdapter{})
			ctx := context.Background()
			addresses := append(append([]string{treasuryAddr}, claimants...), disputers...)
			for _, a := range addresses[1:] {
				f.deposit(t, a, initialDeposit)
			}

			var claimIDs, refs []string
			for _, v := range ops {
				k := v / opKinds
				switch v % opKinds {
				case 0:
					if c, err := f.svc.SubmitClaim(ctx, claimants[k%len(claimants)], "", ""); err == nil {
						claimIDs = append(claimIDs, c.ClaimID)
					}
				case 1:
					if len(claimIDs) == 0 {
						continue
					}
					r, err := f.svc.FileDispute(ctx, claimIDs[k%len(claimIDs)], disputers[k%len(disputers)])
					if err == nil {
						refs = append(refs, r.AssertionRef)
					}
				case 2:
					f.clock.Advance(challengeTime)
				case 3:
					if len(claimIDs) > 0 {
						_, _ = f.svc.Settle(ctx, claimIDs[k%len(claimIDs)])
					}
				case 4:
					if len(refs) == 0 {
						continue
					}
					outcome := types.ClaimUpheld
					if k%2 == 1 {
						outcome = types.ClaimRejected
					}
					_, _ = f.svc.OnArbitrationResult(ctx, refs[k%len(refs)], outcome)
				case 5:
					_, _ = f.svc.SettleExpiredClaims(ctx, f.clock.Now())
				}
			}

			var total, locked int64
			for _, a := range addresses {
				b := f.balance(t, a)
				if b.Available < 0 || b.Locked < 0 {
					return false
				}
				total += b.Available + b.Locked
				locked += b.Locked
			}
			if total != initialDeposit*int64(len(addresses)-1) {
				return false
			}

			var escrowed int64
			for _, id := range claimIDs {
				claim, err := f.svc.GetClaim(ctx, id)
				if err != nil {
					return false
				}
				for _, e := range claim.Escrows {
					if e.Locked {
						escrowed += e.Amount
					}
					if e.Locked && claim.State == types.Resolved.ToString() {
						return false
					}
				}
			}
			return escrowed == locked
		},
		gen.SliceOf(gen.IntRange(0, 10*opKinds-1)),
	))

	properties.TestingRun(t)
}

