// Package wire streams dispatched editor events to a UI engine running in
// another process. Each event is one CBOR-encoded Message.
package wire

import (
	"fmt"
	"io"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Kind identifies the event carried by a Message.
type Kind uint8

const (
	// KindValue is a coalesced parameter value update.
	KindValue Kind = iota + 1
	// KindGesture is a gesture begin or end.
	KindGesture
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindGesture:
		return "gesture"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Message is one event on the wire.
type Message struct {
	Kind     Kind    `cbor:"1,keyasint"`
	Index    int     `cbor:"2,keyasint"`
	Value    float32 `cbor:"3,keyasint,omitempty"`
	Starting bool    `cbor:"4,keyasint,omitempty"`
}

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// Encoder writes Messages to an io.Writer. It implements bridge.Sink.
//
// Sink methods cannot report failures, so the first write error is kept
// and every later event is discarded. Check Err after dispatching.
type Encoder struct {
	mu  sync.Mutex
	enc *cbor.Encoder
	err error
	n   uint64
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: encMode.NewEncoder(w)}
}

// DispatchParameterUpdate writes a KindValue message.
func (e *Encoder) DispatchParameterUpdate(index int, value float32) {
	e.write(Message{Kind: KindValue, Index: index, Value: value})
}

// DispatchGesture writes a KindGesture message.
func (e *Encoder) DispatchGesture(index int, starting bool) {
	e.write(Message{Kind: KindGesture, Index: index, Starting: starting})
}

func (e *Encoder) write(m Message) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.err != nil {
		return
	}
	if err := e.enc.Encode(m); err != nil {
		e.err = fmt.Errorf("wire: encode %s message: %w", m.Kind, err)
		return
	}
	e.n++
}

// Err returns the first write error, if any.
func (e *Encoder) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Count returns the number of messages written.
func (e *Encoder) Count() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.n
}

// Decoder reads Messages written by an Encoder.
type Decoder struct {
	dec *cbor.Decoder
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: cbor.NewDecoder(r)}
}

// Next returns the next message. It returns io.EOF at the end of the
// stream.
func (d *Decoder) Next() (Message, error) {
	var m Message
	if err := d.dec.Decode(&m); err != nil {
		if err == io.EOF {
			return Message{}, io.EOF
		}
		return Message{}, fmt.Errorf("wire: decode message: %w", err)
	}
	switch m.Kind {
	case KindValue, KindGesture:
	default:
		return Message{}, fmt.Errorf("wire: unknown message kind %d", m.Kind)
	}
	return m, nil
}
