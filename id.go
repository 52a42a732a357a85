package trb

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is an opaque token returned by TraceEvent and TraceStart, used to
// correlate marks. The zero ID means "no ID", e.g. no causal parent.
type ID struct {
	hi, lo uint64
}

// IsZero reports whether the ID is the zero ID.
func (id ID) IsZero() bool {
	return id.hi == 0 && id.lo == 0
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return fmt.Sprintf("%016x%016x", id.hi, id.lo)
}

// IDSource mints a new unique ID on demand. IDs from one source are
// unique and monotonic within that source; there is no ordering
// guarantee across distinct sources.
type IDSource interface {
	NewID() ID
}

//
//
//

// GlobalIDSource mints IDs from a single process-wide monotonic counter.
// It's the cheapest strategy and safe for concurrent use, but the shared
// counter is a point of contention under heavy parallel tracing.
type GlobalIDSource struct {
	c *atomic.Uint64
}

var globalIDCounter atomic.Uint64

// NewGlobalIDSource returns an IDSource backed by the process-wide
// counter. All GlobalIDSource values share it, so IDs are unique across
// every instance.
func NewGlobalIDSource() *GlobalIDSource {
	return &GlobalIDSource{c: &globalIDCounter}
}

// NewID implements IDSource.
func (s *GlobalIDSource) NewID() ID {
	return ID{lo: s.c.Add(1)}
}

//
//
//

// LocalIDSource mints IDs from an unsynchronized per-source counter,
// qualified by an origin that is unique per source and, on Linux,
// carries the OS thread id of the constructing goroutine. It's intended
// to be owned by a single goroutine, one per ring buffer, so the hot
// path takes no atomic operation. IDs from different sources remain
// distinguishable after buffers are merged, and IDs within one source
// preserve causal order.
type LocalIDSource struct {
	origin uint64
	seq    uint64
}

// NewLocalIDSource returns a new source with a fresh origin. The
// returned source is not safe for concurrent use.
func NewLocalIDSource() *LocalIDSource {
	return &LocalIDSource{origin: threadOrigin()}
}

// NewID implements IDSource.
func (s *LocalIDSource) NewID() ID {
	s.seq++
	return ID{hi: s.origin, lo: s.seq}
}

// originSeq disambiguates sources constructed on the same OS thread.
var originSeq atomic.Uint64

//
//
//

// ULIDSource mints ULID-valued IDs: unique well beyond process scope,
// lexically sortable by creation time, but much more expensive than a
// counter. Useful when trace dumps from many processes are correlated
// after the fact.
type ULIDSource struct{}

var idEntropy = ulid.DefaultEntropy()

// NewID implements IDSource. It is safe for concurrent use.
func (ULIDSource) NewID() ID {
	u := ulid.MustNew(ulid.Timestamp(time.Now()), idEntropy)
	return ID{
		hi: binary.BigEndian.Uint64(u[0:8]),
		lo: binary.BigEndian.Uint64(u[8:16]),
	}
}
