package db

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMaxAttempts    = 4 // max attempt INCLUDES the first execution
	DefaultInitialBackoff = 100 * time.Millisecond
	DefaultBackoffFactor  = 2
)

type DBSession interface {
	EndSession(ctx context.Context)
	WithTransaction(
		ctx context.Context, fn func(sessCtx mongo.SessionContext) (interface{}, error),
		opts ...*options.TransactionOptions,
	) (interface{}, error)
}

type DBTransactionClient interface {
	StartSession(opts ...*options.SessionOptions) (DBSession, error)
}

type dbTransactionClient struct {
	*mongo.Client
}

type dbSessionWrapper struct {
	mongo.Session
}

func (c *dbTransactionClient) StartSession(opts ...*options.SessionOptions) (DBSession, error) {
	session, err := c.Client.StartSession(opts...)
	if err != nil {
		return nil, err
	}
	return &dbSessionWrapper{session}, nil
}

func (s *dbSessionWrapper) EndSession(ctx context.Context) {
	s.Session.EndSession(ctx)
}

func (s *dbSessionWrapper) WithTransaction(
	ctx context.Context, fn func(sessCtx mongo.SessionContext) (interface{}, error),
	opts ...*options.TransactionOptions,
) (interface{}, error) {
	return s.Session.WithTransaction(ctx, fn, opts...)
}

// txRetryTimer drives the waits between attempts, nil means the wall clock
var txRetryTimer backoff.Timer

func newTxBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = DefaultInitialBackoff
	b.Multiplier = DefaultBackoffFactor
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	return backoff.WithMaxRetries(b, DefaultMaxAttempts-1)
}

// TxWithRetries runs txnFunc in a multi document transaction, starting over with
// exponential backoff when the failure is transient.
func TxWithRetries(
	ctx context.Context,
	dbTransactionClient DBTransactionClient,
	txnFunc func(sessCtx mongo.SessionContext) (interface{}, error),
) (interface{}, error) {
	var (
		result  interface{}
		attempt int
	)
	operation := func() error {
		attempt++
		session, err := dbTransactionClient.StartSession()
		if err != nil {
			return backoff.Permanent(err)
		}
		defer session.EndSession(ctx)

		res, err := session.WithTransaction(ctx, txnFunc)
		if err != nil {
			if shouldRetry(err) {
				return err
			}
			log.Ctx(ctx).Debug().Err(err).Int("attempt", attempt).Msg("transaction failed")
			return backoff.Permanent(err)
		}
		result = res
		return nil
	}
	notify := func(err error, wait time.Duration) {
		log.Ctx(ctx).Warn().Err(err).Int("attempt", attempt).Dur("backoff", wait).
			Msg("transaction failed with retryable error, retrying")
	}

	err := backoff.RetryNotifyWithTimer(operation, backoff.WithContext(newTxBackOff(), ctx), notify, txRetryTimer)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Check for network-related, timeout errors, write conflicts or transaction aborted, which are generally transient should retry.
// Other errors such as duplicated keys or domain errors raised inside the transaction are non-retryable.
func shouldRetry(err error) bool {
	if mongo.IsNetworkError(err) {
		return true
	}
	if mongo.IsTimeout(err) {
		return true
	}
	if IsWriteConflictError(err) {
		return true
	}
	if IsTransactionAbortedError(err) {
		return true
	}
	return false
}
