package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/axalapp/claims-api-service/internal/clients/oracle"
	"github.com/axalapp/claims-api-service/internal/config"
	"github.com/axalapp/claims-api-service/internal/db"
	"github.com/axalapp/claims-api-service/internal/lock"
	"github.com/axalapp/claims-api-service/internal/services"
	"github.com/axalapp/claims-api-service/internal/types"
)

const (
	claimantAddr = "0x1111111111111111111111111111111111111111"
	disputerAddr = "0x2222222222222222222222222222222222222222"
	otherAddr    = "0x3333333333333333333333333333333333333333"
	treasuryAddr = "0x000000000000000000000000000000000000dead"
	tokenAddr    = "0x036CbD53842c5426634e7929541eC2318f3dCF7e"

	bondUnits     = int64(100)
	claimTimeout  = 300 * time.Second
	challengeTime = 120 * time.Second
)

type mockAdapter struct {
	mock.Mock
}

func (m *mockAdapter) RequestAssertion(ctx context.Context, req oracle.AssertionRequest) (string, *types.Error) {
	args := m.Called(ctx, req)
	err, _ := args.Get(1).(*types.Error)
	return args.String(0), err
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) SendMessage(ctx context.Context, messageBody string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, messageBody)
	return nil
}

func (n *recordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

type fixture struct {
	svc      *services.Services
	db       *db.MemoryDatabase
	adapter  *mockAdapter
	clock    *fakeClock
	notifier *recordingNotifier
}

func testBondParams(t testing.TB) *types.BondParams {
	params := &types.BondParams{
		Token:                  types.BondToken{Symbol: "USDC", Address: tokenAddr, Decimals: 0},
		BondAmount:             "100",
		ChallengeWindowSeconds: uint64(challengeTime / time.Second),
		ClaimTimeoutSeconds:    uint64(claimTimeout / time.Second),
		TreasuryAddress:        treasuryAddr,
	}
	require.NoError(t, params.Validate())
	return params
}

func newFixture(t testing.TB) *fixture {
	return newFixtureWithAdapter(t, &mockAdapter{})
}

func newFixtureWithAdapter(t testing.TB, adapter oracle.Adapter) *fixture {
	cfg := &config.Config{
		Db:        config.DbConfig{MaxPaginationLimit: 10},
		Scheduler: config.SchedulerConfig{TimeoutSweepInterval: 1, SweepBatchSize: 2},
	}
	pools := []types.PoolDetails{
		{PoolName: "Pool A", APY: 15.2},
		{PoolName: "Pool D", APY: 22.1},
		{PoolName: "Pool C", APY: 9.8},
	}
	f := &fixture{
		db:       db.NewMemoryDatabase(cfg.Db),
		clock:    &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		notifier: &recordingNotifier{},
	}
	svc, err := services.New(
		context.Background(), cfg, testBondParams(t), pools, f.db, adapter, lock.NewLocalLocker(),
		services.WithClock(f.clock.Now), services.WithNotifier(f.notifier),
	)
	require.NoError(t, err)
	f.svc = svc
	if m, ok := adapter.(*mockAdapter); ok {
		f.adapter = m
	}
	return f
}

func (f *fixture) deposit(t testing.TB, address string, amount int64) {
	require.Nil(t, f.svc.DepositBond(context.Background(), uuid.NewString(), address, amount))
}

func (f *fixture) balance(t testing.TB, address string) *services.BondBalancePublic {
	b, err := f.svc.GetBondBalance(context.Background(), address)
	require.Nil(t, err)
	return b
}

func (f *fixture) submit(t testing.TB, address string) *services.ClaimPublic {
	claim, err := f.svc.SubmitClaim(context.Background(), address, "", "")
	require.Nil(t, err)
	return claim
}

func (f *fixture) expectAssertion(ref string) {
	f.adapter.On("RequestAssertion", mock.Anything, mock.Anything).Return(ref, nil).Once()
}
