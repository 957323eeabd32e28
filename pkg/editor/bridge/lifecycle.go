package bridge

import (
	"errors"
	"fmt"
)

// ErrNoSink is returned by Reload when the builder returns a nil sink.
var ErrNoSink = errors.New("bridge: reload produced no sink")

// State is the dispatch state of a bridge.
type State int32

const (
	// Active means Tick dispatches normally.
	Active State = iota
	// Suspended means Tick does nothing. Changes keep accumulating and are
	// dispatched after the bridge becomes Active again.
	Suspended
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Suspended:
		return "suspended"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// State returns the current dispatch state.
func (b *Bridge) State() State {
	return State(b.state.Load())
}

// BeforeReload suspends dispatch ahead of a UI engine reload. Calling it
// while already suspended is a no-op.
func (b *Bridge) BeforeReload() {
	if State(b.state.Swap(int32(Suspended))) == Suspended {
		b.log.Debug("bridge: BeforeReload while already suspended")
	}
}

// AfterReload resumes dispatch once the reload has finished. Calling it
// without a preceding BeforeReload is a no-op.
func (b *Bridge) AfterReload() {
	if State(b.state.Swap(int32(Active))) == Active {
		b.log.Debug("bridge: AfterReload while already active")
	}
}

// SetSink replaces the dispatch target. A nil sink detaches it; Tick then
// behaves as if suspended.
func (b *Bridge) SetSink(s Sink) {
	if s == nil {
		b.sink.Store(nil)
		return
	}
	b.sink.Store(&sinkHandle{sink: s})
}

// Reload swaps the UI engine. The current sink is detached before build
// runs, and dispatch stays suspended until Reload returns.
//
// If build fails the bridge is left without a sink; pending changes are
// kept and delivered once a sink is attached again.
func (b *Bridge) Reload(build func() (Sink, error)) error {
	b.BeforeReload()
	defer b.AfterReload()

	b.SetSink(nil)
	s, err := build()
	if err != nil {
		b.failedReloads.Add(1)
		b.log.Error("bridge: reload failed: %v", err)
		return fmt.Errorf("bridge: reload: %w", err)
	}
	if s == nil {
		b.failedReloads.Add(1)
		b.log.Error("bridge: reload produced no sink")
		return ErrNoSink
	}

	b.SetSink(s)
	b.reloads.Add(1)
	b.log.Debug("bridge: reload complete, %d parameter(s) pending", b.table.Pending())
	return nil
}
