package services

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/axalapp/claims-api-service/internal/clients/oracle"
	"github.com/axalapp/claims-api-service/internal/config"
	"github.com/axalapp/claims-api-service/internal/db"
	"github.com/axalapp/claims-api-service/internal/lock"
	"github.com/axalapp/claims-api-service/internal/types"
)

// Notifier publishes outbound claim notifications, e.g. a queue client
type Notifier interface {
	SendMessage(ctx context.Context, messageBody string) error
}

// Service layer contains the business logic and is used to interact with
// the database and other external clients (if any).
type Services struct {
	DbClient db.DBClient
	cfg      *config.Config
	params   *types.BondParams
	pools    []types.PoolDetails
	adapter  oracle.Adapter
	locker   lock.Locker
	notifier Notifier
	clock    func() time.Time
}

type Option func(*Services)

// WithClock overrides the time source used for claim timestamps and timeouts
func WithClock(clock func() time.Time) Option {
	return func(s *Services) {
		s.clock = clock
	}
}

func WithNotifier(notifier Notifier) Option {
	return func(s *Services) {
		s.notifier = notifier
	}
}

func New(
	ctx context.Context, cfg *config.Config, params *types.BondParams, pools []types.PoolDetails,
	dbClient db.DBClient, adapter oracle.Adapter, locker lock.Locker, opts ...Option,
) (*Services, error) {
	s := &Services{
		DbClient: dbClient,
		cfg:      cfg,
		params:   params,
		pools:    pools,
		adapter:  adapter,
		locker:   locker,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	log.Ctx(ctx).Debug().Int("pools", len(pools)).Str("bondToken", params.Token.Symbol).Msg("services initialized")
	return s, nil
}

// now is truncated to the store's timestamp precision so a claim read back
// compares equal to the one written
func (s *Services) now() time.Time {
	return s.clock().UTC().Truncate(time.Millisecond)
}

// DoHealthCheck checks the health of the services by ping the database.
func (s *Services) DoHealthCheck(ctx context.Context) error {
	return s.DbClient.Ping(ctx)
}

func (s *Services) SaveUnprocessableMessages(ctx context.Context, queueName, messageBody, receipt string) error {
	err := s.DbClient.SaveUnprocessableMessage(ctx, queueName, messageBody, receipt)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("error while saving unprocessable message")
		return types.NewErrorWithMsg(http.StatusInternalServerError, types.InternalServiceError, "error while saving unprocessable message")
	}
	return nil
}

// lockClaim takes the per claim lock. Failing to take it is an internal error.
func (s *Services) lockClaim(ctx context.Context, claimID string) (func(), *types.Error) {
	unlock, err := s.locker.Lock(ctx, claimID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("claimId", claimID).Msg("failed to acquire claim lock")
		return nil, types.NewInternalServiceError(err)
	}
	return unlock, nil
}
