package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/axalapp/claims-api-service/cmd/claims-api-service/cli"
	"github.com/axalapp/claims-api-service/cmd/claims-api-service/scripts"
	"github.com/axalapp/claims-api-service/internal/api"
	"github.com/axalapp/claims-api-service/internal/clients"
	"github.com/axalapp/claims-api-service/internal/config"
	"github.com/axalapp/claims-api-service/internal/db"
	"github.com/axalapp/claims-api-service/internal/db/model"
	"github.com/axalapp/claims-api-service/internal/lock"
	"github.com/axalapp/claims-api-service/internal/observability/healthcheck"
	"github.com/axalapp/claims-api-service/internal/observability/metrics"
	"github.com/axalapp/claims-api-service/internal/queue"
	queueclient "github.com/axalapp/claims-api-service/internal/queue/client"
	"github.com/axalapp/claims-api-service/internal/scheduler"
	"github.com/axalapp/claims-api-service/internal/services"
	"github.com/axalapp/claims-api-service/internal/types"
)

const shutdownTimeout = 10 * time.Second

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// setup cli commands and flags
	if err := cli.Setup(); err != nil {
		log.Fatal().Err(err).Msg("error while setting up cli")
	}

	// load config
	cfgPath := cli.GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	paramsPath := cli.GetBondParamsPath()
	params, err := types.NewBondParams(paramsPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading bond params file: %s", paramsPath))
	}

	poolsPath := cli.GetPoolsPath()
	pools, err := types.NewPools(poolsPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading pools file: %s", poolsPath))
	}

	// initialize metrics with the metrics address from config
	metrics.Init(cfg.Metrics.GetMetricsAddress(), cfg.Metrics.Path)

	dbClient, err := newDbClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up claims db")
	}

	locker, err := newLocker(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up claim locker")
	}

	clients := clients.New(cfg)

	notifications, err := queueclient.NewQueueClient(&cfg.Queue, queueclient.ClaimNotificationQueueName)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating ClaimNotificationQueueClient")
	}

	services, err := services.New(
		ctx, cfg, params, pools, dbClient, clients.Oracle, locker, services.WithNotifier(notifications),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up claims services layer")
	}

	queues, err := queue.New(&cfg.Queue, services, notifications)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up queues")
	}
	defer queues.StopReceivingMessages()

	// Check if the replay flag is set
	if cli.GetReplayFlag() {
		log.Info().Msg("Replay flag is set. Starting replay of unprocessable messages.")
		err := scripts.ReplayUnprocessableMessages(ctx, queues, services.DbClient)
		if err != nil {
			log.Fatal().Err(err).Msg("error while replaying unprocessable messages")
		}
		return
	}

	if clients.Simulated != nil {
		// Simulated outcomes go through the queue like real oracle deliveries
		clients.Simulated.SetResolutionHandler(func(ctx context.Context, assertionRef string, outcome types.Outcome) {
			if err := queues.PublishAssertionResolved(ctx, assertionRef, outcome); err != nil {
				log.Error().Err(err).Str("assertionRef", assertionRef).Msg("failed to publish simulated outcome")
			}
		})
		defer clients.Simulated.Stop()
	}

	if err := queues.StartReceivingMessages(); err != nil {
		log.Fatal().Err(err).Msg("error while starting queue processing")
	}

	if err := healthcheck.StartHealthCheckCron(
		ctx, cfg.Server.HealthCheckInterval, healthcheck.QueueDependency(queues), healthcheck.StoreDependency(services),
	); err != nil {
		log.Fatal().Err(err).Msg("error while starting health check cron")
	}

	if err := scheduler.New(&cfg.Scheduler, services).Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("error while starting claim timeout sweep")
	}

	apiServer, err := api.New(ctx, cfg, services)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up claims api service")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(apiServer.Start)
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down claims api service")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return apiServer.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("claims api service stopped with error")
	}
}

func newDbClient(ctx context.Context, cfg *config.Config) (db.DBClient, error) {
	if cli.GetInMemoryFlag() {
		log.Warn().Msg("using the in-memory store, all state is lost on restart")
		return db.NewMemoryDatabase(cfg.Db), nil
	}
	if err := model.Setup(ctx, cfg); err != nil {
		return nil, err
	}
	return db.New(ctx, cfg.Db)
}

func newLocker(ctx context.Context, cfg *config.Config) (lock.Locker, error) {
	if cfg.Lock.Type != config.LockTypeRedis {
		return lock.NewLocalLocker(), nil
	}
	locker := lock.NewRedisLocker(cfg.Lock)
	if err := locker.Ping(ctx); err != nil {
		return nil, fmt.Errorf("redis lock backend unreachable: %w", err)
	}
	return locker, nil
}
