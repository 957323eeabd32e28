package bridge

// Stats is a snapshot of bridge counters.
type Stats struct {
	Ticks            uint64 // dispatch cycles run
	SkippedTicks     uint64 // cycles skipped while suspended or without a sink
	ValuesDispatched uint64
	GesturesSent     uint64
	GesturesDropped  uint64 // gesture queue overflows
	GesturesQueued   int
	RejectedWrites   uint64 // out-of-range indices from the host
	Reloads          uint64
	FailedReloads    uint64
}

// Stats returns the current counters.
func (b *Bridge) Stats() Stats {
	return Stats{
		Ticks:            b.ticks.Load(),
		SkippedTicks:     b.skipped.Load(),
		ValuesDispatched: b.values.Load(),
		GesturesSent:     b.gestureEvents.Load(),
		GesturesDropped:  b.gestures.Dropped(),
		GesturesQueued:   b.gestures.Len(),
		RejectedWrites:   b.rejected.Load(),
		Reloads:          b.reloads.Load(),
		FailedReloads:    b.failedReloads.Load(),
	}
}
