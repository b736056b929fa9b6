package healthcheck

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkerFunc func() error

func (f checkerFunc) IsConnectionHealthy() error { return f() }

type storeFunc func(ctx context.Context) error

func (f storeFunc) DoHealthCheck(ctx context.Context) error { return f(ctx) }

func stubTerminate(t *testing.T) *atomic.Bool {
	var terminated atomic.Bool
	terminate = func() { terminated.Store(true) }
	t.Cleanup(func() { terminate = terminateService })
	return &terminated
}

func TestUnhealthyQueueTerminates(t *testing.T) {
	terminated := stubTerminate(t)
	healthy := StoreDependency(storeFunc(func(context.Context) error { return nil }))

	checkDependencies(context.Background(), []Dependency{QueueDependency(checkerFunc(func() error { return nil })), healthy})
	assert.False(t, terminated.Load())

	checkDependencies(context.Background(), []Dependency{
		QueueDependency(checkerFunc(func() error { return errors.New("connection closed") })), healthy,
	})
	assert.True(t, terminated.Load())
}

func TestUnreachableStoreTerminates(t *testing.T) {
	terminated := stubTerminate(t)

	var hadDeadline bool
	checkDependencies(context.Background(), []Dependency{StoreDependency(storeFunc(func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return errors.New("no primary")
	}))})
	assert.True(t, hadDeadline)
	assert.True(t, terminated.Load())
}

func TestHealthCheckCronRuns(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := StartHealthCheckCron(ctx, 1, QueueDependency(checkerFunc(func() error {
		calls.Add(1)
		return nil
	})))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
