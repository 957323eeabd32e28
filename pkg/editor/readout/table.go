// Package readout holds the per-parameter value readouts shared between
// the audio thread and the UI thread.
//
// The audio thread writes with Store; the UI thread collects with Flush
// (or entry by entry with Take).
// Neither side takes a lock. Writes between two flushes coalesce: only the
// last value written for a parameter is delivered.
package readout

import (
	"math"
	"sync/atomic"
	"unsafe"
)

const cacheLine = 64

// Entry is the readout for one parameter. It fills one cache line.
type Entry struct {
	value atomic.Uint32 // float32 bits
	dirty atomic.Bool
	_     [cacheLine - 8]byte
}

// Table is a fixed-size array of readouts, index-aligned with the host's
// parameter indices. Its length never changes after New.
type Table struct {
	entries []Entry
}

// New allocates a table with one entry per parameter. The entries start on
// a cache-line boundary so no two parameters share a line.
func New(count int) *Table {
	if count <= 0 {
		return &Table{}
	}
	return &Table{entries: alignedEntries(count)}
}

// alignedEntries carves count entries out of a byte buffer with one spare
// line of slack. Entry holds no pointers, so the buffer is safe to reuse.
func alignedEntries(count int) []Entry {
	buf := make([]byte, (count+1)*cacheLine)
	off := 0
	if rem := uintptr(unsafe.Pointer(&buf[0])) % cacheLine; rem != 0 {
		off = int(cacheLine - rem)
	}
	return unsafe.Slice((*Entry)(unsafe.Pointer(&buf[off])), count)
}

// Len returns the number of parameters the table was sized for.
func (t *Table) Len() int {
	return len(t.entries)
}

// Store records value for index and marks it dirty.
//
// Audio thread. Wait-free and allocation-free. The value is published
// before the dirty flag so a reader that sees dirty also sees the value.
// Returns false without writing if index is out of range.
func (t *Table) Store(index int, value float32) bool {
	if uint(index) >= uint(len(t.entries)) {
		return false
	}
	e := &t.entries[index]
	e.value.Store(math.Float32bits(value))
	e.dirty.Store(true)
	return true
}

// Take clears the dirty flag of index and, if it was set, returns the
// value. ok is false if the entry was clean or index is out of range.
//
// UI thread only. The flag is cleared before the value is read, so a write
// racing with Take either is returned now or re-sets the flag for the next
// Take. It is never lost.
func (t *Table) Take(index int) (value float32, ok bool) {
	if uint(index) >= uint(len(t.entries)) {
		return 0, false
	}
	e := &t.entries[index]
	if !e.dirty.Load() || !e.dirty.Swap(false) {
		return 0, false
	}
	return math.Float32frombits(e.value.Load()), true
}

// Flush calls fn for every dirty entry in ascending index order and
// returns the number of entries emitted. It stops early once fn returns
// false; entries after that one keep their dirty flag. UI thread only.
func (t *Table) Flush(fn func(index int, value float32) bool) int {
	n := 0
	for i := range t.entries {
		value, ok := t.Take(i)
		if !ok {
			continue
		}
		n++
		if !fn(i, value) {
			break
		}
	}
	return n
}

// Peek returns the current value and dirty flag of index without clearing
// anything. ok is false if index is out of range.
func (t *Table) Peek(index int) (value float32, dirty bool, ok bool) {
	if uint(index) >= uint(len(t.entries)) {
		return 0, false, false
	}
	e := &t.entries[index]
	return math.Float32frombits(e.value.Load()), e.dirty.Load(), true
}

// Pending counts dirty entries. Diagnostic; the count is stale as soon as
// the audio thread writes again.
func (t *Table) Pending() int {
	n := 0
	for i := range t.entries {
		if t.entries[i].dirty.Load() {
			n++
		}
	}
	return n
}
