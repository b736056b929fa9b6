package db

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/axalapp/claims-api-service/internal/config"
	"github.com/axalapp/claims-api-service/internal/db/model"
	"github.com/axalapp/claims-api-service/internal/types"
)

// MemoryDatabase is a DBClient kept in process memory. Every multi document
// write validates all its preconditions before mutating anything, under a single
// mutex, which gives it the same all-or-nothing behavior as a Mongo transaction.
type MemoryDatabase struct {
	mu  sync.RWMutex
	cfg config.DbConfig

	claims         map[string]model.ClaimDocument
	activeClaimant map[string]string // claimant -> claim id
	assertionRefs  map[string]string // assertion ref -> claim id
	escrows        map[string]model.BondEscrowDocument
	accounts       map[string]model.BondAccountDocument
	deposits       map[string]model.BondDepositDocument
	events         []model.ClaimEventDocument
	unprocessable  []model.UnprocessableMessageDocument
}

func NewMemoryDatabase(cfg config.DbConfig) *MemoryDatabase {
	return &MemoryDatabase{
		cfg:            cfg,
		claims:         make(map[string]model.ClaimDocument),
		activeClaimant: make(map[string]string),
		assertionRefs:  make(map[string]string),
		escrows:        make(map[string]model.BondEscrowDocument),
		accounts:       make(map[string]model.BondAccountDocument),
		deposits:       make(map[string]model.BondDepositDocument),
	}
}

func (m *MemoryDatabase) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryDatabase) CreateClaim(ctx context.Context, claim *model.ClaimDocument, event *model.ClaimEventDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.claims[claim.ClaimID]; ok {
		return &DuplicateKeyError{Key: claim.ClaimID, Message: "Claim already exists"}
	}
	if _, ok := m.activeClaimant[claim.ClaimantAddress]; ok {
		return &DuplicateKeyError{Key: claim.ClaimantAddress, Message: "Claimant already has an active claim"}
	}
	if err := m.checkFunds(claim.ClaimantAddress, claim.BondAmount); err != nil {
		return err
	}

	m.claims[claim.ClaimID] = *claim
	m.activeClaimant[claim.ClaimantAddress] = claim.ClaimID
	m.lockFunds(claim.ClaimantAddress, claim.BondAmount)
	escrow := model.NewBondEscrowDocument(
		claim.ClaimID, claim.ClaimantAddress, types.ClaimantRole, claim.BondAmount, claim.CreatedAt,
	)
	m.escrows[escrow.EscrowID] = *escrow
	m.events = append(m.events, *event)
	return nil
}

func (m *MemoryDatabase) FindClaimByID(ctx context.Context, claimID string) (*model.ClaimDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.claimByID(claimID, claimID)
}

func (m *MemoryDatabase) FindClaimByAssertionRef(ctx context.Context, assertionRef string) (*model.ClaimDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.claimByID(m.assertionRefs[assertionRef], assertionRef)
}

func (m *MemoryDatabase) FindActiveClaimByClaimant(ctx context.Context, claimantAddress string) (*model.ClaimDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.claimByID(m.activeClaimant[claimantAddress], claimantAddress)
}

func (m *MemoryDatabase) claimByID(claimID, key string) (*model.ClaimDocument, error) {
	claim, ok := m.claims[claimID]
	if !ok {
		return nil, &NotFoundError{Key: key, Message: "Claim not found"}
	}
	return copyClaim(claim), nil
}

func (m *MemoryDatabase) FindClaimsByClaimant(
	ctx context.Context, claimantAddress string, paginationToken string,
) (*DbResultMap[model.ClaimDocument], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var cursor *model.ClaimsByClaimantPagination
	if paginationToken != "" {
		decoded, err := model.DecodePaginationToken[model.ClaimsByClaimantPagination](paginationToken)
		if err != nil {
			return nil, &InvalidPaginationTokenError{Message: "Invalid pagination token"}
		}
		cursor = decoded
	}

	var matches []model.ClaimDocument
	for _, claim := range m.claims {
		if claim.ClaimantAddress != claimantAddress {
			continue
		}
		if cursor != nil && !claimAfterCursor(claim, cursor) {
			continue
		}
		matches = append(matches, *copyClaim(claim))
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ClaimID < matches[j].ClaimID
	})
	if int64(len(matches)) > m.cfg.MaxPaginationLimit {
		matches = matches[:m.cfg.MaxPaginationLimit]
	}

	return toResultMapWithPaginationToken(m.cfg, matches, model.BuildClaimsByClaimantPaginationToken)
}

// claimAfterCursor mirrors the (created_at desc, _id asc) ordering of the mongo query
func claimAfterCursor(claim model.ClaimDocument, cursor *model.ClaimsByClaimantPagination) bool {
	if claim.CreatedAt.Before(cursor.CreatedAt) {
		return true
	}
	return claim.CreatedAt.Equal(cursor.CreatedAt) && claim.ClaimID > cursor.ClaimID
}

func (m *MemoryDatabase) FindMaturedPendingClaims(
	ctx context.Context, createdBefore time.Time, limit int64,
) ([]model.ClaimDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matured []model.ClaimDocument
	for _, claim := range m.claims {
		if claim.State == types.Pending && !claim.CreatedAt.After(createdBefore) {
			matured = append(matured, *copyClaim(claim))
		}
	}
	sort.Slice(matured, func(i, j int) bool {
		return matured[i].CreatedAt.Before(matured[j].CreatedAt)
	})
	if int64(len(matured)) > limit {
		matured = matured[:limit]
	}
	return matured, nil
}

func (m *MemoryDatabase) AttachDispute(
	ctx context.Context, claimID string, dispute *model.DisputeDocument, event *model.ClaimEventDocument,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	claim, ok := m.claims[claimID]
	if !ok || claim.State != types.Pending || claim.Dispute != nil {
		return &NotFoundError{
			Key:     claimID,
			Message: "Claim not found or not in eligible state to transition",
		}
	}
	if _, ok := m.assertionRefs[dispute.AssertionRef]; ok {
		return &DuplicateKeyError{
			Key:     dispute.AssertionRef,
			Message: "Assertion already attached to another claim",
		}
	}
	if err := m.checkFunds(dispute.DisputerAddress, dispute.CounterBondAmount); err != nil {
		return err
	}

	d := *dispute
	claim.Dispute = &d
	claim.State = types.Disputed
	m.claims[claimID] = claim
	m.assertionRefs[dispute.AssertionRef] = claimID
	m.lockFunds(dispute.DisputerAddress, dispute.CounterBondAmount)
	escrow := model.NewBondEscrowDocument(
		claimID, dispute.DisputerAddress, types.DisputerRole, dispute.CounterBondAmount, dispute.SubmittedAt,
	)
	m.escrows[escrow.EscrowID] = *escrow
	m.events = append(m.events, *event)
	return nil
}

func (m *MemoryDatabase) ResolveClaim(
	ctx context.Context, claimID string, eligiblePreviousStates []types.ClaimState,
	resolution *model.ResolutionDocument, releases []model.EscrowRelease, event *model.ClaimEventDocument,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	claim, ok := m.claims[claimID]
	if !ok || !slices.Contains(eligiblePreviousStates, claim.State) {
		return &NotFoundError{
			Key:     claimID,
			Message: "Claim not found or not in eligible state to transition",
		}
	}

	// Validate the whole release plan before moving any funds
	released := make(map[string]struct{}, len(releases))
	for _, release := range releases {
		escrow, ok := m.escrows[release.EscrowID]
		if !ok || !escrow.Locked || escrow.ClaimID != claimID {
			return &NotFoundError{
				Key:     release.EscrowID,
				Message: "Escrow not found or already released",
			}
		}
		if _, dup := released[release.EscrowID]; dup {
			return fmt.Errorf("escrow %s released twice", release.EscrowID)
		}
		if m.accounts[escrow.OwnerAddress].Locked < escrow.Amount {
			return fmt.Errorf("locked balance of %s does not cover escrow %s", escrow.OwnerAddress, escrow.EscrowID)
		}
		released[release.EscrowID] = struct{}{}
	}
	for id, escrow := range m.escrows {
		if escrow.ClaimID != claimID || !escrow.Locked {
			continue
		}
		if _, ok := released[id]; !ok {
			return fmt.Errorf("claim %s would be resolved with locked escrow %s", claimID, id)
		}
	}

	res := *resolution
	claim.State = types.Resolved
	claim.Resolution = &res
	claim.ActiveClaimant = ""
	m.claims[claimID] = claim
	delete(m.activeClaimant, claim.ClaimantAddress)

	for _, release := range releases {
		escrow := m.escrows[release.EscrowID]
		at := resolution.ResolvedAt
		escrow.Locked = false
		escrow.ReleasedTo = release.ReleasedTo
		escrow.ReleaseKind = release.Kind
		escrow.ReleasedAt = &at
		m.escrows[release.EscrowID] = escrow

		owner := m.accounts[escrow.OwnerAddress]
		owner.Locked -= escrow.Amount
		m.accounts[escrow.OwnerAddress] = owner

		dest := m.accounts[release.ReleasedTo]
		dest.Address = release.ReleasedTo
		dest.Available += escrow.Amount
		m.accounts[release.ReleasedTo] = dest
	}
	m.events = append(m.events, *event)
	return nil
}

func (m *MemoryDatabase) FindEscrowsByClaim(ctx context.Context, claimID string) ([]model.BondEscrowDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var escrows []model.BondEscrowDocument
	for _, escrow := range m.escrows {
		if escrow.ClaimID == claimID {
			escrows = append(escrows, escrow)
		}
	}
	sort.Slice(escrows, func(i, j int) bool {
		return escrows[i].LockedAt.Before(escrows[j].LockedAt)
	})
	return escrows, nil
}

func (m *MemoryDatabase) FindClaimEvents(ctx context.Context, claimID string) ([]model.ClaimEventDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var events []model.ClaimEventDocument
	for _, event := range m.events {
		if event.ClaimID == claimID {
			events = append(events, event)
		}
	}
	return events, nil
}

func (m *MemoryDatabase) SaveBondDeposit(ctx context.Context, depositID, address string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.deposits[depositID]; ok {
		return &DuplicateKeyError{Key: depositID, Message: "Deposit already processed"}
	}
	m.deposits[depositID] = model.BondDepositDocument{DepositID: depositID, Address: address, Amount: amount}
	account := m.accounts[address]
	account.Address = address
	account.Available += amount
	m.accounts[address] = account
	return nil
}

func (m *MemoryDatabase) FindBondAccount(ctx context.Context, address string) (*model.BondAccountDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[address]
	if !ok {
		return nil, &NotFoundError{Key: address, Message: "Bond account not found"}
	}
	return &account, nil
}

func (m *MemoryDatabase) SaveUnprocessableMessage(ctx context.Context, queueName, messageBody, receipt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unprocessable = append(m.unprocessable, *model.NewUnprocessableMessageDocument(queueName, messageBody, receipt))
	return nil
}

func (m *MemoryDatabase) FindUnprocessableMessages(ctx context.Context) ([]model.UnprocessableMessageDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs := append([]model.UnprocessableMessageDocument(nil), m.unprocessable...)
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].QueueName < msgs[j].QueueName })
	return msgs, nil
}

func (m *MemoryDatabase) DeleteUnprocessableMessage(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, msg := range m.unprocessable {
		if msg.ID == id {
			m.unprocessable = append(m.unprocessable[:i], m.unprocessable[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{Key: id, Message: "unprocessable message not found"}
}

func (m *MemoryDatabase) checkFunds(address string, amount int64) error {
	account := m.accounts[address]
	if account.Available < amount {
		return &InsufficientFundsError{Address: address, Required: amount, Available: account.Available}
	}
	return nil
}

func (m *MemoryDatabase) lockFunds(address string, amount int64) {
	account := m.accounts[address]
	account.Available -= amount
	account.Locked += amount
	m.accounts[address] = account
}

func copyClaim(claim model.ClaimDocument) *model.ClaimDocument {
	c := claim
	if claim.Dispute != nil {
		d := *claim.Dispute
		c.Dispute = &d
	}
	if claim.Resolution != nil {
		r := *claim.Resolution
		c.Resolution = &r
	}
	return &c
}
