package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axalapp/claims-api-service/internal/config"
	"github.com/axalapp/claims-api-service/internal/types"
)

type countingSweeper struct {
	calls atomic.Int32
	err   *types.Error
	block chan struct{}
}

func (s *countingSweeper) SettleExpiredClaims(ctx context.Context, now time.Time) (int, *types.Error) {
	s.calls.Add(1)
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return 0, s.err
	}
	return 1, nil
}

func TestSchedulerRunsSweep(t *testing.T) {
	sweeper := &countingSweeper{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(&config.SchedulerConfig{TimeoutSweepInterval: 1}, sweeper)
	require.NoError(t, s.Start(ctx))

	require.Eventually(t, func() bool { return sweeper.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestSweepSkipsWhileRunning(t *testing.T) {
	sweeper := &countingSweeper{block: make(chan struct{})}
	s := New(&config.SchedulerConfig{TimeoutSweepInterval: 1}, sweeper)

	done := make(chan struct{})
	go func() {
		s.sweep(context.Background())
		close(done)
	}()
	require.Eventually(t, func() bool { return sweeper.calls.Load() == 1 }, time.Second, 10*time.Millisecond)

	s.sweep(context.Background())
	assert.Equal(t, int32(1), sweeper.calls.Load())

	close(sweeper.block)
	<-done
}

func TestSweepErrorIsLogged(t *testing.T) {
	sweeper := &countingSweeper{err: types.NewInternalServiceError(errors.New("db down"))}
	s := New(&config.SchedulerConfig{TimeoutSweepInterval: 1}, sweeper)

	s.sweep(context.Background())
	assert.Equal(t, int32(1), sweeper.calls.Load())

	// The lock is released after a failed sweep
	s.sweep(context.Background())
	assert.Equal(t, int32(2), sweeper.calls.Load())
}
