package bridge

// Sink receives the events the bridge dispatches to the UI engine.
// It is called on the UI thread only. Calls are fire-and-forget.
type Sink interface {
	DispatchParameterUpdate(index int, value float32)
	DispatchGesture(index int, starting bool)
}

// ParameterListener is what the host calls when a parameter changes.
//
// Both methods are called on the audio thread. Implementations must not
// block, allocate, or lock. The host serializes calls per parameter index
// but may call concurrently for different indices.
type ParameterListener interface {
	ParameterValueChanged(index int, value float32)
	ParameterGestureChanged(index int, starting bool)
}

// SinkFuncs adapts a pair of functions to Sink. Nil fields are skipped.
type SinkFuncs struct {
	Update  func(index int, value float32)
	Gesture func(index int, starting bool)
}

// DispatchParameterUpdate implements Sink.
func (f SinkFuncs) DispatchParameterUpdate(index int, value float32) {
	if f.Update != nil {
		f.Update(index, value)
	}
}

// DispatchGesture implements Sink.
func (f SinkFuncs) DispatchGesture(index int, starting bool) {
	if f.Gesture != nil {
		f.Gesture(index, starting)
	}
}

type sinkHandle struct {
	sink Sink
}

var _ ParameterListener = (*Bridge)(nil)
