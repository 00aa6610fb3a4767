package application

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T, l *Loop) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func TestLoop_RunsJobsInOrder(t *testing.T) {
	l := NewLoop(time.Second, nil)
	startLoop(t, l)

	var order []int
	for i := range 5 {
		require.NoError(t, l.Submit(context.Background(), func(context.Context) { order = append(order, i) }))
	}
	require.NoError(t, l.Do(context.Background(), func(context.Context) {}))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestLoop_RecoversPanics(t *testing.T) {
	l := NewLoop(time.Second, nil)
	startLoop(t, l)

	require.NoError(t, l.Do(context.Background(), func(context.Context) { panic("boom") }))
	ran := false
	require.NoError(t, l.Do(context.Background(), func(context.Context) { ran = true }))
	assert.True(t, ran)
}

func TestLoop_JobsHaveDeadline(t *testing.T) {
	l := NewLoop(50*time.Millisecond, nil)
	startLoop(t, l)

	var hasDeadline bool
	require.NoError(t, l.Do(context.Background(), func(ctx context.Context) {
		_, hasDeadline = ctx.Deadline()
	}))
	assert.True(t, hasDeadline)
}

func TestLoop_FiresSweeps(t *testing.T) {
	var runs atomic.Int32
	l := NewLoop(time.Second, nil, Sweep{
		Name:  "tick",
		Every: 5 * time.Millisecond,
		Run:   func(context.Context) { runs.Add(1) },
	}, Sweep{Name: "disabled"})
	startLoop(t, l)

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestLoop_SubmitAfterStop(t *testing.T) {
	l := NewLoop(time.Second, nil)
	cancel := startLoop(t, l)
	cancel()

	assert.Eventually(t, func() bool {
		return l.Submit(context.Background(), func(context.Context) {}) == ErrLoopStopped
	}, time.Second, 5*time.Millisecond)
}

// A caller that gave up must not see its job applied later.
func TestLoop_DoTimeoutSkipsQueuedJob(t *testing.T) {
	l := NewLoop(time.Second, nil)
	startLoop(t, l)

	release := make(chan struct{})
	require.NoError(t, l.Submit(context.Background(), func(context.Context) { <-release }))

	var applied atomic.Bool
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := l.Do(ctx, func(context.Context) { applied.Store(true) })
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, l.Do(context.Background(), func(context.Context) {}))
	assert.False(t, applied.Load())
}

func TestLoop_DoWaitsForStartedJob(t *testing.T) {
	l := NewLoop(time.Second, nil)
	startLoop(t, l)

	started := make(chan struct{})
	var finished atomic.Bool
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()
	err := l.Do(ctx, func(context.Context) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	})
	require.NoError(t, err)
	assert.True(t, finished.Load())
}
