package trb

import "fmt"

// DefaultCapacity is the capacity, in bytes, of a buffer constructed by
// NewDefault. It holds the most recent 315 entries.
const DefaultCapacity = 4096

// RingBuffer is a fixed-capacity circular byte buffer of encoded trace
// entries, fully allocated at construction. Appends are constant-time,
// allocation-free, and never fail: when the buffer is full, the single
// oldest entry is evicted to make room. That gives strict FIFO, bounded
// memory, lossy retention, with capacity as the caller's only retention
// control.
//
// RingBuffer performs no internal locking and is not safe for concurrent
// use. Either dedicate a buffer to one goroutine, or guard every call,
// including iteration, with external mutual exclusion.
type RingBuffer struct {
	data   []byte // fully allocated at construction
	begin  int    // offset of the oldest valid byte
	length int    // count of valid bytes, always a multiple of EntrySize
	ids    IDSource
}

// New returns an empty ring buffer of the given capacity in bytes,
// minting IDs from the process-wide global counter. New panics if the
// capacity cannot hold at least one entry: that is a programmer error,
// not a runtime condition.
func New(capacity int) *RingBuffer {
	return NewWithIDSource(capacity, NewGlobalIDSource())
}

// NewDefault returns an empty ring buffer of DefaultCapacity bytes.
func NewDefault() *RingBuffer {
	return New(DefaultCapacity)
}

// NewWithIDSource is like New, but mints IDs from the given source. Use
// a LocalIDSource when the buffer is owned by a single goroutine.
func NewWithIDSource(capacity int, ids IDSource) *RingBuffer {
	if capacity <= EntrySize {
		panic(fmt.Sprintf("trb: ring buffer capacity %d must exceed entry size %d", capacity, EntrySize))
	}
	if ids == nil {
		ids = NewGlobalIDSource()
	}
	return &RingBuffer{
		data: make([]byte, capacity),
		ids:  ids,
	}
}

// Cap returns the capacity of the buffer, in bytes.
func (rb *RingBuffer) Cap() int {
	return len(rb.data)
}

// Len returns the number of entries currently held.
func (rb *RingBuffer) Len() int {
	return rb.length / EntrySize
}

// end is the offset one past the newest valid byte.
func (rb *RingBuffer) end() int {
	return (rb.begin + rb.length) % len(rb.data)
}

// write appends one encoded entry, evicting the oldest entry first if
// the buffer is full. The buffer only ever holds whole entries, so a
// single eviction always frees exactly enough room.
func (rb *RingBuffer) write(rec *[EntrySize]byte) {
	var (
		end      = rb.end()
		capacity = len(rb.data)
	)

	if capacity-rb.length < EntrySize {
		rb.begin = (rb.begin + EntrySize) % capacity
		rb.length -= EntrySize
	}

	if end+EntrySize > capacity {
		// The record straddles the end of the block: write a prefix up
		// to capacity and wrap the rest to offset zero.
		middle := capacity - end
		copy(rb.data[end:], rec[:middle])
		copy(rb.data[:EntrySize-middle], rec[middle:])
	} else {
		copy(rb.data[end:end+EntrySize], rec[:])
	}

	rb.length += EntrySize
}

// append encodes and writes one entry stamped with the current time.
func (rb *RingBuffer) append(tr Trace, kind Kind) {
	e := Entry{
		Timestamp: now(),
		Tag:       tr.Tag(),
		Kind:      kind,
	}
	var rec [EntrySize]byte
	e.encode(rec[:])
	rb.write(&rec)
}

// TraceEvent implements Sink. The why parameter is accepted for
// interface compatibility but not persisted: the 13-byte record has no
// field for it. It may gain a home if correlation storage is added.
func (rb *RingBuffer) TraceEvent(tr Trace, why ID) ID {
	_ = why
	rb.append(tr, KindEvent)
	return rb.ids.NewID()
}

// TraceStart implements Sink. As with TraceEvent, why is accepted but
// not persisted.
func (rb *RingBuffer) TraceStart(tr Trace, why ID) ID {
	_ = why
	rb.append(tr, KindStart)
	return rb.ids.NewID()
}

// TraceStop implements Sink.
func (rb *RingBuffer) TraceStop(tr Trace) {
	rb.append(tr, KindStop)
}

//
//
//

// Entries decodes and returns every entry currently in the buffer,
// oldest first. It's a convenience over Iter for callers off the hot
// path who just want the data.
func (rb *RingBuffer) Entries() ([]Entry, error) {
	entries := make([]Entry, 0, rb.Len())
	it := rb.Iter()
	for it.Next() {
		entries = append(entries, it.Entry())
	}
	return entries, it.Err()
}

// Drain returns every entry currently in the buffer, oldest first, and
// resets the buffer to empty. Intended for off-hot-path aggregation of
// per-goroutine buffers; see Merge.
func (rb *RingBuffer) Drain() ([]Entry, error) {
	entries, err := rb.Entries()
	rb.begin, rb.length = 0, 0
	return entries, err
}

// Walk calls fn for each entry, oldest first, stopping early if fn
// returns an error and returning that error.
func (rb *RingBuffer) Walk(fn func(Entry) error) error {
	it := rb.Iter()
	for it.Next() {
		if err := fn(it.Entry()); err != nil {
			return err
		}
	}
	return it.Err()
}
