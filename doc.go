// Package trb provides a low-overhead, fixed-capacity, in-process trace
// ring buffer. The package is inspired by the flight-recorder style of
// tracing: application code marks point events and start/stop spans, and
// the most recent marks are retained in a bounded block of memory for
// later inspection.
//
// The basic idea is to "log" into a pre-sized circular byte buffer
// rather than a destination like stdout or a file on disk. Each mark is
// packed into a fixed 13-byte record (timestamp, tag, kind) and appended
// to a [RingBuffer]. When the buffer is full, the oldest record is
// silently evicted to make room. Capacity is therefore the only
// retention control: a bigger buffer remembers further back.
//
// Appends never fail, never block, and never allocate, which makes the
// buffer suitable for hot paths. The cost of that is deliberate: records
// are lossy, in-memory only, and gone when the process exits.
//
// The buffer performs no internal locking. The intended deployment is
// one buffer per goroutine, paired with a [LocalIDSource], with
// cross-goroutine aggregation via [Merge] happening off the hot path.
// Sharing a single buffer between goroutines requires external mutual
// exclusion around every call, including iteration.
//
// Alternate destinations can implement the [Sink] interface; see
// [github.com/peterbourgon/trb/trbftrace] for a sink that forwards marks
// to the Linux kernel trace buffer instead.
package trb
