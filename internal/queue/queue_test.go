package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axalapp/claims-api-service/internal/clients/oracle"
	"github.com/axalapp/claims-api-service/internal/config"
	"github.com/axalapp/claims-api-service/internal/db"
	"github.com/axalapp/claims-api-service/internal/lock"
	"github.com/axalapp/claims-api-service/internal/queue/client"
	"github.com/axalapp/claims-api-service/internal/services"
	"github.com/axalapp/claims-api-service/internal/types"
)

const (
	claimant = "0x1111111111111111111111111111111111111111"
	disputer = "0x2222222222222222222222222222222222222222"
	maxRetry = int32(3)
)

type fakeQueueClient struct {
	name     string
	messages chan client.QueueMessage
	pingErr  error

	mu       sync.Mutex
	sent     []string
	deleted  []string
	requeued []client.QueueMessage
	stopOnce sync.Once
}

func newFakeQueueClient(name string) *fakeQueueClient {
	return &fakeQueueClient{name: name, messages: make(chan client.QueueMessage, 10)}
}

func (c *fakeQueueClient) SendMessage(ctx context.Context, messageBody string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, messageBody)
	return nil
}

func (c *fakeQueueClient) ReceiveMessages() (<-chan client.QueueMessage, error) {
	return c.messages, nil
}

func (c *fakeQueueClient) DeleteMessage(receipt string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, receipt)
	return nil
}

func (c *fakeQueueClient) ReQueueMessage(ctx context.Context, message client.QueueMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	message.RetryAttempts = message.IncrementRetryAttempts()
	c.requeued = append(c.requeued, message)
	return nil
}

func (c *fakeQueueClient) Stop() error {
	c.stopOnce.Do(func() { close(c.messages) })
	return nil
}

func (c *fakeQueueClient) GetQueueName() string { return c.name }

func (c *fakeQueueClient) Ping() error { return c.pingErr }

func (c *fakeQueueClient) Deleted() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.deleted...)
}

func (c *fakeQueueClient) Requeued() []client.QueueMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]client.QueueMessage(nil), c.requeued...)
}

func (c *fakeQueueClient) Sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

type fixedAdapter struct {
	ref string
}

func (a fixedAdapter) RequestAssertion(ctx context.Context, req oracle.AssertionRequest) (string, *types.Error) {
	return a.ref, nil
}

type queueFixture struct {
	queues     *Queues
	db         *db.MemoryDatabase
	svc        *services.Services
	assertions *fakeQueueClient
	deposits   *fakeQueueClient
	notices    *fakeQueueClient
}

func setupQueues(t *testing.T) *queueFixture {
	t.Helper()
	cfg := &config.Config{
		Db: config.DbConfig{MaxPaginationLimit: 10},
		Queue: config.QueueConfig{
			QueueProcessingTimeout: time.Second,
			MsgMaxRetryAttempts:    maxRetry,
		},
		Scheduler: config.SchedulerConfig{SweepBatchSize: 10},
	}
	params := &types.BondParams{
		Token:                  types.BondToken{Symbol: "USDC", Address: "0x036CbD53842c5426634e7929541eC2318f3dCF7e"},
		BondAmount:             "100",
		ChallengeWindowSeconds: 120,
		ClaimTimeoutSeconds:    300,
		TreasuryAddress:        "0x000000000000000000000000000000000000dead",
	}
	require.NoError(t, params.Validate())

	f := &queueFixture{
		db:         db.NewMemoryDatabase(cfg.Db),
		assertions: newFakeQueueClient(client.AssertionResolvedQueueName),
		deposits:   newFakeQueueClient(client.BondDepositQueueName),
		notices:    newFakeQueueClient(client.ClaimNotificationQueueName),
	}
	svc, err := services.New(
		context.Background(), cfg, params, nil, f.db, fixedAdapter{ref: "assertion-1"}, lock.NewLocalLocker(),
		services.WithNotifier(f.notices),
	)
	require.NoError(t, err)
	f.svc = svc
	f.queues = NewWithClients(&cfg.Queue, svc, f.assertions, f.deposits, f.notices)
	require.NoError(t, f.queues.StartReceivingMessages())
	t.Cleanup(f.queues.StopReceivingMessages)
	return f
}

func depositMessage(t *testing.T, depositID, address string, amount int64) string {
	body, err := json.Marshal(client.NewBondDepositEvent(depositID, address, amount))
	require.NoError(t, err)
	return string(body)
}

func TestBondDepositMessageCreditsLedger(t *testing.T) {
	f := setupQueues(t)
	body := depositMessage(t, "dep-1", claimant, 100)

	f.deposits.messages <- client.QueueMessage{Body: body, Receipt: "1"}
	// Redelivery of the same deposit is acknowledged without a second credit
	f.deposits.messages <- client.QueueMessage{Body: body, Receipt: "2"}

	require.Eventually(t, func() bool { return len(f.deposits.Deleted()) == 2 }, time.Second, 10*time.Millisecond)
	balance, err := f.svc.GetBondBalance(context.Background(), claimant)
	require.Nil(t, err)
	assert.Equal(t, int64(100), balance.Available)
	assert.Empty(t, f.deposits.Requeued())
}

func TestFailedMessageIsRequeued(t *testing.T) {
	f := setupQueues(t)
	body, err := json.Marshal(client.NewAssertionResolvedEvent("unknown", types.ClaimUpheld.ToString(), 0))
	require.NoError(t, err)

	f.assertions.messages <- client.QueueMessage{Body: string(body), Receipt: "7", RetryAttempts: 1}

	require.Eventually(t, func() bool { return len(f.assertions.Requeued()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(2), f.assertions.Requeued()[0].RetryAttempts)
	assert.Empty(t, f.assertions.Deleted())
}

func TestMessageSavedAsUnprocessableAfterMaxRetries(t *testing.T) {
	f := setupQueues(t)

	f.deposits.messages <- client.QueueMessage{Body: "{not json", Receipt: "9", RetryAttempts: maxRetry}

	require.Eventually(t, func() bool { return len(f.deposits.Deleted()) == 1 }, time.Second, 10*time.Millisecond)
	messages, err := f.db.FindUnprocessableMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, client.BondDepositQueueName, messages[0].QueueName)
	assert.Equal(t, "{not json", messages[0].MessageBody)
	assert.Equal(t, "9", messages[0].Receipt)
}

func TestAssertionResolvedMessageSettlesDispute(t *testing.T) {
	f := setupQueues(t)
	ctx := context.Background()
	require.Nil(t, f.svc.DepositBond(ctx, "dep-1", claimant, 100))
	require.Nil(t, f.svc.DepositBond(ctx, "dep-2", disputer, 100))
	claim, err := f.svc.SubmitClaim(ctx, claimant, "Pool A", "")
	require.Nil(t, err)
	_, err = f.svc.FileDispute(ctx, claim.ClaimID, disputer)
	require.Nil(t, err)

	require.NoError(t, f.queues.PublishAssertionResolved(ctx, "assertion-1", types.ClaimRejected))
	sent := f.assertions.Sent()
	require.Len(t, sent, 1)
	f.assertions.messages <- client.QueueMessage{Body: sent[0], Receipt: "1"}
	f.assertions.messages <- client.QueueMessage{Body: sent[0], Receipt: "2"}

	require.Eventually(t, func() bool { return len(f.assertions.Deleted()) == 2 }, time.Second, 10*time.Millisecond)
	stored, err := f.svc.GetClaim(ctx, claim.ClaimID)
	require.Nil(t, err)
	assert.Equal(t, types.Resolved.ToString(), stored.State)
	assert.Equal(t, types.ClaimRejected.ToString(), stored.Resolution.Outcome)

	balance, err := f.svc.GetBondBalance(ctx, disputer)
	require.Nil(t, err)
	assert.Equal(t, int64(100), balance.Available)
}

func TestInvalidOutcomeIsRetried(t *testing.T) {
	f := setupQueues(t)
	body, err := json.Marshal(client.NewAssertionResolvedEvent("assertion-1", "maybe", 0))
	require.NoError(t, err)

	f.assertions.messages <- client.QueueMessage{Body: string(body), Receipt: "3"}

	require.Eventually(t, func() bool { return len(f.assertions.Requeued()) == 1 }, time.Second, 10*time.Millisecond)
}

func TestIsConnectionHealthy(t *testing.T) {
	f := setupQueues(t)
	require.NoError(t, f.queues.IsConnectionHealthy())

	f.notices.pingErr = errors.New("channel closed")
	err := f.queues.IsConnectionHealthy()
	require.Error(t, err)
	assert.Contains(t, err.Error(), client.ClaimNotificationQueueName)
}
