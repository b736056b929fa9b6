package healthcheck

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultCronTime = 60
	pingTimeout    = 5 * time.Second
)

var logger zerolog.Logger = log.Logger

// terminate is swapped in tests
var terminate = terminateService

func SetLogger(customLogger zerolog.Logger) {
	logger = customLogger
}

// ConnectionChecker is implemented by the queues
type ConnectionChecker interface {
	IsConnectionHealthy() error
}

// StoreChecker is implemented by the services, it pings the claims store
type StoreChecker interface {
	DoHealthCheck(ctx context.Context) error
}

// Dependency is one dependency the service cannot run without
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

func QueueDependency(queues ConnectionChecker) Dependency {
	return Dependency{
		Name: "queues",
		Ping: func(context.Context) error { return queues.IsConnectionHealthy() },
	}
}

func StoreDependency(store StoreChecker) Dependency {
	return Dependency{Name: "store", Ping: store.DoHealthCheck}
}

// StartHealthCheckCron pings the dependencies every cronTime seconds and terminates
// the process as soon as one of them fails
func StartHealthCheckCron(ctx context.Context, cronTime int, deps ...Dependency) error {
	if cronTime == 0 {
		cronTime = defaultCronTime
	}
	cronSpec := fmt.Sprintf("@every %ds", cronTime)

	c := cron.New()
	_, err := c.AddFunc(cronSpec, func() {
		checkDependencies(ctx, deps)
	})
	if err != nil {
		return err
	}
	c.Start()
	logger.Info().Str("spec", cronSpec).Int("dependencies", len(deps)).Msg("Initiated Health Check Cron")

	go func() {
		<-ctx.Done()
		logger.Info().Msg("Stopping Health Check Cron")
		c.Stop()
	}()
	return nil
}

func checkDependencies(ctx context.Context, deps []Dependency) {
	var failed []string
	for _, d := range deps {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := d.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.Error().Err(err).Str("dependency", d.Name).Msg("health check failed")
			failed = append(failed, d.Name)
		}
	}
	if len(failed) > 0 {
		logger.Error().Str("failed", strings.Join(failed, ",")).Msg("One or more dependencies are not healthy.")
		terminate()
	}
}

func terminateService() {
	logger.Fatal().Msg("Terminating service due to health check failure.")
	os.Exit(1)
}
