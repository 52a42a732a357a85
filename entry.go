package trb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// Kind distinguishes the three varieties of trace entry.
type Kind uint8

const (
	// KindEvent marks an instantaneous point event.
	KindEvent Kind = 0

	// KindStart marks the beginning of a span.
	KindStart Kind = 1

	// KindStop marks the end of a span, paired with the prior KindStart
	// for the same tag.
	KindStop Kind = 2
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindEvent:
		return "Event"
	case KindStart:
		return "Start"
	case KindStop:
		return "Stop"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// MarshalText implements encoding.TextMarshaler, so kinds render as
// names rather than numbers in e.g. JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

//
//
//

// EntrySize is the exact encoded size of one entry, in bytes. It is
// load-bearing: every offset computation in the ring buffer assumes each
// stored record occupies precisely this many bytes.
const EntrySize = 13

var (
	// ErrShortEntry is returned when decoding fewer than EntrySize bytes.
	ErrShortEntry = errors.New("short entry")

	// ErrInvalidKind is returned when decoding a record whose kind byte
	// is out of range. The codec never writes such a byte, so seeing one
	// means the input didn't come from the codec, or was corrupted.
	ErrInvalidKind = errors.New("invalid kind")
)

// Entry is one recorded trace mark. Entries have no independent
// identity: they exist as bytes in a buffer and are reconstructed on
// demand by decoding.
type Entry struct {
	// Timestamp is nanoseconds since the Unix epoch.
	Timestamp uint64 `json:"ts"`

	// Tag is the stable integer of the Trace variant that was marked.
	Tag uint32 `json:"tag"`

	// Kind says whether the mark was an event, a start, or a stop.
	Kind Kind `json:"kind"`
}

// Time returns the timestamp as a time.Time.
func (e Entry) Time() time.Time {
	return time.Unix(0, int64(e.Timestamp))
}

// MarshalBinary implements encoding.BinaryMarshaler, producing the
// 13-byte wire form: u64 timestamp, u32 tag, u8 kind, at fixed offsets
// with no padding, in native byte order.
func (e Entry) MarshalBinary() ([]byte, error) {
	buf := make([]byte, EntrySize)
	e.encode(buf)
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, the inverse of
// MarshalBinary. It rejects inputs shorter than EntrySize with
// ErrShortEntry, and kind bytes beyond KindStop with ErrInvalidKind.
func (e *Entry) UnmarshalBinary(data []byte) error {
	if len(data) < EntrySize {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrShortEntry, len(data), EntrySize)
	}
	if k := data[12]; k > uint8(KindStop) {
		return fmt.Errorf("%w: 0x%02x", ErrInvalidKind, k)
	}
	e.Timestamp = binary.NativeEndian.Uint64(data[0:8])
	e.Tag = binary.NativeEndian.Uint32(data[8:12])
	e.Kind = Kind(data[12])
	return nil
}

// encode packs the entry into buf, which must hold at least EntrySize
// bytes. Explicit fixed-offset stores, no struct reinterpretation.
func (e Entry) encode(buf []byte) {
	binary.NativeEndian.PutUint64(buf[0:8], e.Timestamp)
	binary.NativeEndian.PutUint32(buf[8:12], e.Tag)
	buf[12] = byte(e.Kind)
}

// now is the single clock read performed per append.
func now() uint64 {
	return uint64(time.Now().UnixNano())
}
