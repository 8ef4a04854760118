// Package session accumulates snapshots at a fixed cadence for the lifetime
// of a monitoring session.
package session

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/droidscout/internal/errors"
	"codeberg.org/mutker/droidscout/internal/logger"
	"codeberg.org/mutker/droidscout/internal/snapshot"
)

const (
	// DefaultInterval is the cadence between session ticks
	DefaultInterval = 5 * time.Second
	// StopTimeout bounds the wait for an in-flight tick during Stop
	StopTimeout = 2 * time.Second
)

// State of the aggregator lifecycle.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// Snapshotter produces one snapshot per call.
type Snapshotter interface {
	Build(ctx context.Context, device string) snapshot.Snapshot
}

// Aggregator owns a monitoring session: it runs one background task that
// appends a snapshot to the history every interval until stopped. The
// history is the only shared mutable state and is guarded by the mutex.
type Aggregator struct {
	builder  Snapshotter
	device   string
	interval time.Duration

	mu      sync.Mutex
	state   State
	history []snapshot.Snapshot

	cancel context.CancelFunc
	done   chan struct{}
}

// NewAggregator returns an Idle aggregator. A non-positive interval falls
// back to the default; a nil builder is a caller error.
func NewAggregator(builder Snapshotter, device string, interval time.Duration) (*Aggregator, error) {
	errFactory := errors.New()

	if builder == nil {
		return nil, errFactory.New(errors.ErrNilRunner)
	}

	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Aggregator{
		builder:  builder,
		device:   device,
		interval: interval,
		state:    StateIdle,
	}, nil
}

// Start transitions to Running, clears prior history and begins producing
// snapshots on the configured interval. Calling Start while Running is a
// no-op.
func (a *Aggregator) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateRunning {
		return
	}

	a.state = StateRunning
	a.history = nil

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.done = make(chan struct{})

	go a.loop(ctx, a.done)

	logger.Info().
		Dur("interval", a.interval).
		Str("device", a.device).
		Msg("Session started")
}

// Stop transitions to Idle, waits bounded for the in-flight tick and returns
// the accumulated snapshots in capture order, resetting the history. Calling
// Stop while Idle returns an empty sequence.
func (a *Aggregator) Stop() []snapshot.Snapshot {
	a.mu.Lock()
	if a.state == StateIdle {
		a.mu.Unlock()
		return nil
	}

	a.state = StateIdle
	cancel := a.cancel
	done := a.done
	a.cancel = nil
	a.done = nil
	a.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(StopTimeout):
		logger.Warn().Msg("Timed out waiting for in-flight collection; abandoning it")
	}

	a.mu.Lock()
	history := a.history
	a.history = nil
	a.mu.Unlock()

	logger.Info().Int("snapshots", len(history)).Msg("Session stopped")

	return history
}

// Status reports the current state and the number of snapshots captured so
// far in the active session.
func (a *Aggregator) Status() (State, int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.state, len(a.history)
}

// Monitor samples on a fixed cadence outside of an aggregated session: one
// snapshot is built immediately, then one per interval until ctx is
// cancelled. Each snapshot is handed to emit as it is built.
func Monitor(ctx context.Context, builder Snapshotter, device string, interval time.Duration, emit func(snapshot.Snapshot)) error {
	errFactory := errors.New()

	if builder == nil {
		return errFactory.New(errors.ErrNilRunner)
	}

	if interval <= 0 {
		interval = DefaultInterval
	}

	emit(builder.Build(ctx, device))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			emit(builder.Build(ctx, device))
		}
	}
}

// loop is the single background task; it sleeps between ticks and exits at
// the next sleep boundary after cancellation. The done channel doubles as
// the run's identity: append only accepts snapshots from the current run.
func (a *Aggregator) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A failed tick still appends a snapshot with empty
			// sub-fields; ticks are never skipped or retried.
			snap := a.builder.Build(ctx, a.device)
			a.append(snap, done)
		}
	}
}

func (a *Aggregator) append(snap snapshot.Snapshot, done chan struct{}) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// A tick that outlived Stop's bounded wait belongs to a finished run
	// and must not resurrect history or leak into a restarted session.
	if a.state != StateRunning || a.done != done {
		return
	}

	a.history = append(a.history, snap)
}
