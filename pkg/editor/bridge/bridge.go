// Package bridge moves parameter changes from the host's audio thread to
// the editor's UI thread.
//
// Value changes are written into a readout table and published on each
// Tick, coalesced to the latest value per parameter and in ascending index
// order. Gesture begin/end notifications travel through a separate FIFO and
// are never coalesced. Dispatch is suspended while the UI engine reloads.
//
// Thread affinity:
//
//	ParameterValueChanged, ParameterGestureChanged   audio thread
//	Tick, BeforeReload, AfterReload, Reload, SetSink UI thread
//	State, Stats, Len                                any
package bridge

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/justyntemme/vst3ui/pkg/editor/gesture"
	"github.com/justyntemme/vst3ui/pkg/editor/readout"
	"github.com/justyntemme/vst3ui/pkg/framework/debug"
)

// ErrInvalidParameterCount is returned by New for a negative count.
var ErrInvalidParameterCount = errors.New("bridge: invalid parameter count")

// Bridge is the cross-thread parameter change bridge of one editor.
type Bridge struct {
	table    *readout.Table
	gestures *gesture.Queue
	sink     atomic.Pointer[sinkHandle]
	state    atomic.Int32
	inTick   atomic.Bool
	log      *debug.Logger

	rejected       atomic.Uint64
	lastRejected   atomic.Int64
	reportedReject uint64
	reportedDrops  uint64

	ticks         atomic.Uint64
	skipped       atomic.Uint64
	values        atomic.Uint64
	gestureEvents atomic.Uint64
	reloads       atomic.Uint64
	failedReloads atomic.Uint64
}

// Option configures a Bridge.
type Option func(*options)

type options struct {
	sink            Sink
	gestureCapacity int
	logger          *debug.Logger
}

// WithSink attaches the initial dispatch target.
func WithSink(s Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithGestureCapacity sets the size of the gesture queue.
func WithGestureCapacity(n int) Option {
	return func(o *options) { o.gestureCapacity = n }
}

// WithLogger sets the logger used from the UI thread.
func WithLogger(l *debug.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a bridge for paramCount parameters. The count is fixed for
// the lifetime of the bridge.
func New(paramCount int, opts ...Option) (*Bridge, error) {
	if paramCount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidParameterCount, paramCount)
	}

	o := options{gestureCapacity: gesture.DefaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = debug.Default()
	}

	b := &Bridge{
		table:    readout.New(paramCount),
		gestures: gesture.NewQueue(o.gestureCapacity),
		log:      o.logger,
	}
	b.lastRejected.Store(-1)
	if o.sink != nil {
		b.sink.Store(&sinkHandle{sink: o.sink})
	}
	return b, nil
}

// Len returns the parameter count the bridge was built for.
func (b *Bridge) Len() int {
	return b.table.Len()
}

// ParameterValueChanged records a new normalized value for index.
//
// Audio thread. Wait-free. An index outside [0, Len()) is a host contract
// violation: it panics in debug builds and is rejected and counted
// otherwise.
func (b *Bridge) ParameterValueChanged(index int, value float32) {
	if !b.table.Store(index, value) {
		b.reject(index)
	}
}

// ParameterGestureChanged forwards a gesture begin or end for index.
//
// Audio thread. Never blocks; if the gesture queue is full the event is
// dropped and counted.
func (b *Bridge) ParameterGestureChanged(index int, starting bool) {
	if uint(index) >= uint(b.table.Len()) {
		b.reject(index)
		return
	}
	b.gestures.Push(gesture.Event{Index: index, Starting: starting})
}

func (b *Bridge) reject(index int) {
	if debug.Enabled {
		debug.Assert(false, "parameter index %d out of range [0, %d)", index, b.table.Len())
	}
	b.lastRejected.Store(int64(index))
	b.rejected.Add(1)
}

// Tick runs one dispatch cycle. It is a no-op while suspended or while no
// sink is attached.
//
// Pending gestures are delivered first in the order they arrived, at most
// one gesture queue's capacity per cycle. Then every parameter changed
// since the last cycle is delivered in ascending index order with its
// latest value. If the sink triggers a reload from inside Tick, the
// remaining entries stay queued or dirty for the next cycle.
func (b *Bridge) Tick() {
	if !b.inTick.CompareAndSwap(false, true) {
		debug.Assert(false, "Tick called concurrently or re-entrantly")
		return
	}
	defer b.inTick.Store(false)

	b.ticks.Add(1)
	b.report()

	h := b.sink.Load()
	if State(b.state.Load()) == Suspended || h == nil {
		b.skipped.Add(1)
		return
	}
	sink := h.sink
	active := func() bool { return State(b.state.Load()) == Active }

	// At most one queue's worth of gestures per tick; the rest wait.
	b.gestures.Drain(b.gestures.Cap(), func(e gesture.Event) bool {
		sink.DispatchGesture(e.Index, e.Starting)
		b.gestureEvents.Add(1)
		return active()
	})
	if !active() {
		return
	}

	b.table.Flush(func(index int, value float32) bool {
		sink.DispatchParameterUpdate(index, value)
		b.values.Add(1)
		return active()
	})
}

// report logs contract violations and drops seen since the previous tick.
func (b *Bridge) report() {
	if r := b.rejected.Load(); r != b.reportedReject {
		b.log.Error("bridge: rejected %d write(s) with out-of-range parameter index (last %d, parameter count %d)",
			r-b.reportedReject, b.lastRejected.Load(), b.table.Len())
		b.reportedReject = r
	}
	if d := b.gestures.Dropped(); d != b.reportedDrops {
		b.log.Warn("bridge: gesture queue full, dropped %d event(s)", d-b.reportedDrops)
		b.reportedDrops = d
	}
}

// Pending returns the number of parameters with undispatched changes.
// Diagnostic only; it does not clear anything.
func (b *Bridge) Pending() int {
	return b.table.Pending()
}
