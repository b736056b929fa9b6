package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func writeConflictError() *mongo.CommandError {
	return &mongo.CommandError{
		Code:    112,
		Message: "write conflict",
		Name:    "WriteConflict",
	}
}

type mockSession struct {
	mock.Mock
}

func (m *mockSession) EndSession(ctx context.Context) {
	m.Called(ctx)
}

func (m *mockSession) WithTransaction(
	ctx context.Context, fn func(sessCtx mongo.SessionContext) (interface{}, error),
	opts ...*options.TransactionOptions,
) (interface{}, error) {
	args := m.Called(ctx, fn)
	return args.Get(0), args.Error(1)
}

type mockTransactionClient struct {
	mock.Mock
}

func (m *mockTransactionClient) StartSession(opts ...*options.SessionOptions) (DBSession, error) {
	args := m.Called()
	session, _ := args.Get(0).(DBSession)
	return session, args.Error(1)
}

// instantTimer records the requested waits and fires right away
type instantTimer struct {
	c     chan time.Time
	waits []time.Duration
}

func (t *instantTimer) Start(d time.Duration) {
	t.waits = append(t.waits, d)
	t.c <- time.Now()
}

func (t *instantTimer) Stop() {}

func (t *instantTimer) C() <-chan time.Time { return t.c }

func recordSleeps(t *testing.T) *[]time.Duration {
	timer := &instantTimer{c: make(chan time.Time, 1), waits: []time.Duration{}}
	txRetryTimer = timer
	t.Cleanup(func() { txRetryTimer = nil })
	return &timer.waits
}

func txnFunc(sessCtx mongo.SessionContext) (interface{}, error) {
	return nil, nil
}

func TestTxWithRetries_ExponentialBackoff(t *testing.T) {
	session := &mockSession{}
	session.On("WithTransaction", mock.Anything, mock.Anything).Return(nil, writeConflictError()).Twice()
	session.On("WithTransaction", mock.Anything, mock.Anything).Return("success", nil).Once()
	session.On("EndSession", mock.Anything).Return()

	client := &mockTransactionClient{}
	client.On("StartSession").Return(session, nil)

	sleepDurations := recordSleeps(t)

	result, err := TxWithRetries(context.Background(), client, txnFunc)

	require.NoError(t, err)
	require.Equal(t, "success", result)
	session.AssertNumberOfCalls(t, "EndSession", 3)
	require.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *sleepDurations)
}

func TestTxWithRetries_MaxRetries(t *testing.T) {
	session := &mockSession{}
	session.On("WithTransaction", mock.Anything, mock.Anything).Return(nil, writeConflictError())
	session.On("EndSession", mock.Anything).Return()

	client := &mockTransactionClient{}
	client.On("StartSession").Return(session, nil)

	sleepDurations := recordSleeps(t)

	result, err := TxWithRetries(context.Background(), client, txnFunc)

	require.Error(t, err)
	require.Nil(t, result)
	require.Len(t, *sleepDurations, DefaultMaxAttempts-1)
	session.AssertNumberOfCalls(t, "WithTransaction", DefaultMaxAttempts)
}

func TestTxWithRetries_NonRetryableError(t *testing.T) {
	domainErr := &NotFoundError{Key: "0x01", Message: "Claim not found or not in eligible state to transition"}

	session := &mockSession{}
	session.On("WithTransaction", mock.Anything, mock.Anything).Return(nil, domainErr).Once()
	session.On("EndSession", mock.Anything).Return()

	client := &mockTransactionClient{}
	client.On("StartSession").Return(session, nil)

	sleepDurations := recordSleeps(t)

	result, err := TxWithRetries(context.Background(), client, txnFunc)

	require.Nil(t, result)
	require.Empty(t, *sleepDurations)
	assert.True(t, IsNotFoundError(err))
	session.AssertExpectations(t)
}

func TestShouldRetry(t *testing.T) {
	assert.True(t, shouldRetry(writeConflictError()))
	assert.True(t, shouldRetry(mongo.CommandError{Code: 251, Name: "NoSuchTransaction"}))
	assert.False(t, shouldRetry(&InsufficientFundsError{Address: "0x01"}))
	assert.False(t, shouldRetry(&mongo.CommandError{Code: 403, Name: "NonRetryableError"}))
}
