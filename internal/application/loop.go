package application

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrLoopStopped is returned when work is submitted after Run has returned.
var ErrLoopStopped = errors.New("event loop stopped")

// Sweep is a periodic task run on the loop goroutine.
type Sweep struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context)
}

// Loop serializes every state-changing job and periodic sweep onto one
// goroutine. A sweep that falls behind is coalesced, never queued twice.
type Loop struct {
	jobs       chan func(context.Context)
	sweeps     []Sweep
	jobTimeout time.Duration
	log        *zap.Logger
	done       chan struct{}
}

// NewLoop builds a loop. jobTimeout bounds each job and each sweep run.
func NewLoop(jobTimeout time.Duration, log *zap.Logger, sweeps ...Sweep) *Loop {
	if jobTimeout <= 0 {
		jobTimeout = time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		jobs:       make(chan func(context.Context), 64),
		sweeps:     sweeps,
		jobTimeout: jobTimeout,
		log:        log,
		done:       make(chan struct{}),
	}
}

// Submit queues fn without waiting for it to run.
func (l *Loop) Submit(ctx context.Context, fn func(context.Context)) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}
	select {
	case l.jobs <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopStopped
	}
}

const (
	jobPending int32 = iota
	jobStarted
	jobAbandoned
)

// Do queues fn and waits until it has run. A job that has not started when
// ctx ends is skipped and Do returns ctx.Err(), so an error always means fn
// had no effect. Once fn has started Do waits for it and returns nil.
func (l *Loop) Do(ctx context.Context, fn func(context.Context)) error {
	var state atomic.Int32
	finished := make(chan struct{})
	err := l.Submit(ctx, func(ctx context.Context) {
		defer close(finished)
		if !state.CompareAndSwap(jobPending, jobStarted) {
			return
		}
		fn(ctx)
	})
	if err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		if state.CompareAndSwap(jobPending, jobAbandoned) {
			return ctx.Err()
		}
	case <-l.done:
		if state.CompareAndSwap(jobPending, jobAbandoned) {
			return ErrLoopStopped
		}
	}
	select {
	case <-finished:
	case <-l.done:
	}
	return nil
}

// Run processes jobs and sweeps until ctx is cancelled. It must be called
// once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	due := make(chan int, len(l.sweeps))
	pending := make([]atomic.Bool, len(l.sweeps))
	tickCtx, stopTickers := context.WithCancel(ctx)
	defer stopTickers()
	for i, sw := range l.sweeps {
		if sw.Every <= 0 {
			continue
		}
		go func(i int, every time.Duration) {
			ticker := time.NewTicker(every)
			defer ticker.Stop()
			for {
				select {
				case <-tickCtx.Done():
					return
				case <-ticker.C:
					if pending[i].CompareAndSwap(false, true) {
						due <- i
					}
				}
			}
		}(i, sw.Every)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.jobs:
			l.run(ctx, "job", fn)
		case i := <-due:
			pending[i].Store(false)
			l.run(ctx, l.sweeps[i].Name, l.sweeps[i].Run)
		}
	}
}

func (l *Loop) run(ctx context.Context, name string, fn func(context.Context)) {
	ctx, cancel := context.WithTimeout(ctx, l.jobTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("loop task panicked", zap.String("task", name), zap.String("panic", fmt.Sprint(r)))
		}
	}()
	fn(ctx)
}
