package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/axalapp/claims-api-service/internal/config"
	"github.com/axalapp/claims-api-service/internal/observability/tracing"
	"github.com/axalapp/claims-api-service/internal/types"
)

// Sweeper settles every pending claim whose timeout has elapsed
type Sweeper interface {
	SettleExpiredClaims(ctx context.Context, now time.Time) (int, *types.Error)
}

type Scheduler struct {
	sweeper  Sweeper
	interval int
	cron     *cron.Cron

	// a sweep is skipped while the previous one still runs
	running sync.Mutex
}

func New(cfg *config.SchedulerConfig, sweeper Sweeper) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: cfg.TimeoutSweepInterval,
		cron:     cron.New(),
	}
}

// Start runs the timeout sweep every configured interval until ctx is done
func (s *Scheduler) Start(ctx context.Context) error {
	cronSpec := fmt.Sprintf("@every %ds", s.interval)
	_, err := s.cron.AddFunc(cronSpec, func() {
		s.sweep(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Info().Str("spec", cronSpec).Msg("Initiated claim timeout sweep")

	go func() {
		<-ctx.Done()
		log.Info().Msg("Stopping claim timeout sweep")
		<-s.cron.Stop().Done()
	}()
	return nil
}

func (s *Scheduler) sweep(ctx context.Context) {
	if !s.running.TryLock() {
		log.Debug().Msg("previous claim timeout sweep still running, skipping")
		return
	}
	defer s.running.Unlock()

	ctx, traceId, _ := tracing.WithTracing(ctx)
	logger := log.With().Str("job", "timeout_sweep").Str("traceId", traceId).Logger()
	ctx = logger.WithContext(ctx)

	settled, err := s.sweeper.SettleExpiredClaims(ctx, time.Now())
	if err != nil {
		logger.Error().Err(err).Int("settled", settled).Msg("claim timeout sweep failed")
		return
	}
	if settled > 0 {
		logger.Info().Int("settled", settled).Msg("settled matured claims")
	}
}
