// Package timer runs the editor's UI loop: a single goroutine that fires a
// periodic tick and executes work posted to it between ticks.
package timer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultRateHz is the dispatch frequency used when none is configured.
const DefaultRateHz = 30

var (
	// ErrInvalidRate is returned for a non-positive rate.
	ErrInvalidRate = errors.New("timer: rate must be positive")
	// ErrStopped is returned by Post after the loop has stopped.
	ErrStopped = errors.New("timer: stopped")
)

// Ticker is the callback the loop fires, usually a bridge.
type Ticker interface {
	Tick()
}

// TickFunc adapts a function to Ticker.
type TickFunc func()

// Tick implements Ticker.
func (f TickFunc) Tick() { f() }

// Interval converts a rate in Hz to a tick period.
func Interval(rateHz int) time.Duration {
	if rateHz <= 0 {
		rateHz = DefaultRateHz
	}
	return time.Second / time.Duration(rateHz)
}

// Timer serializes ticks and posted work onto one goroutine. Work posted
// with Post never runs concurrently with a tick.
type Timer struct {
	target Ticker
	rate   int
	posts  chan func()

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
}

// New creates a timer that calls t.Tick rateHz times per second once
// started.
func New(t Ticker, rateHz int) (*Timer, error) {
	if t == nil {
		return nil, errors.New("timer: nil ticker")
	}
	if rateHz <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRate, rateHz)
	}
	return &Timer{
		target:  t,
		rate:    rateHz,
		posts:   make(chan func(), 16),
		stopped: make(chan struct{}),
	}, nil
}

// Rate returns the configured rate in Hz.
func (t *Timer) Rate() int {
	return t.rate
}

// Start runs the loop on a new goroutine. Calling Start on a running
// timer is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		t.Run(ctx)
	}(t.done)
}

// Stop ends a loop started with Start and waits for it to exit. It is safe
// to call more than once.
func (t *Timer) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Run fires ticks and runs posted work until ctx is done. A slow tick
// delays the next one; missed ticks are skipped rather than queued.
func (t *Timer) Run(ctx context.Context) {
	ticker := time.NewTicker(Interval(t.rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-t.posts:
			fn()
		case <-ticker.C:
			t.target.Tick()
		}
	}
}

// Post schedules fn to run on the loop goroutine between ticks. It blocks
// until fn is queued or ctx is done. Work posted before the loop runs is
// held until it starts. Use it for work that must not race with a tick,
// such as a UI engine reload.
func (t *Timer) Post(ctx context.Context, fn func()) error {
	select {
	case <-t.stopped:
		return ErrStopped
	default:
	}
	select {
	case t.posts <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-t.stopped:
		return ErrStopped
	}
}

// Call runs fn on the loop goroutine and waits for it to finish.
func (t *Timer) Call(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if err := t.Post(ctx, func() { result <- fn() }); err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the loop and makes further Post calls fail.
func (t *Timer) Close() {
	t.Stop()
	t.mu.Lock()
	defer t.mu.Unlock()
	select {
	case <-t.stopped:
	default:
		close(t.stopped)
	}
}
