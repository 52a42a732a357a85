// Package trbftrace provides a trb.Sink that forwards trace marks to
// the Linux kernel tracing facility, via the trace_marker file. Marks
// written there interleave with kernel and scheduler events in the
// system trace, and are visible to standard tooling like trace-cmd and
// Perfetto, at the cost of a write syscall per mark.
//
// The sink shares no state with the ring buffer and is fully
// substitutable for it anywhere a trb.Sink is accepted. Retention and
// visibility are the kernel's: the marks land in the kernel's own ring
// buffer, subject to its sizing and its consumers.
//
// On platforms other than Linux, New returns an error.
package trbftrace

import (
	"fmt"

	"github.com/peterbourgon/trb"
)

// Sink writes one line per trace mark to the kernel trace_marker file.
// Unlike the ring-buffer sink, it renders the causal why parameter into
// the mark when one is given.
//
// Methods are safe for concurrent use as long as the IDSource is: each
// mark is a single write, which the kernel treats as one record.
type Sink struct {
	m      *marker
	labels trb.Labeler
	ids    trb.IDSource
}

var _ trb.Sink = (*Sink)(nil)

// New opens the kernel trace_marker file and returns a sink writing to
// it. The labels map tags to the names that appear in the system trace.
// A nil ids defaults to the process-wide global counter. The caller
// must Close the sink when done.
//
// Opening typically requires access to tracefs, which is mounted at
// /sys/kernel/tracing and usually root-only.
func New(labels trb.Labeler, ids trb.IDSource) (*Sink, error) {
	m, err := openMarker()
	if err != nil {
		return nil, fmt.Errorf("open trace_marker: %w", err)
	}
	if ids == nil {
		ids = trb.NewGlobalIDSource()
	}
	return &Sink{
		m:      m,
		labels: labels,
		ids:    ids,
	}, nil
}

// Close releases the trace_marker file descriptor.
func (s *Sink) Close() error {
	return s.m.close()
}

// TraceEvent implements trb.Sink.
func (s *Sink) TraceEvent(tr trb.Trace, why trb.ID) trb.ID {
	id := s.ids.NewID()
	s.m.write(formatMark(trb.KindEvent, s.labels.Label(tr.Tag()), id, why))
	return id
}

// TraceStart implements trb.Sink.
func (s *Sink) TraceStart(tr trb.Trace, why trb.ID) trb.ID {
	id := s.ids.NewID()
	s.m.write(formatMark(trb.KindStart, s.labels.Label(tr.Tag()), id, why))
	return id
}

// TraceStop implements trb.Sink.
func (s *Sink) TraceStop(tr trb.Trace) {
	s.m.write(formatMark(trb.KindStop, s.labels.Label(tr.Tag()), trb.ID{}, trb.ID{}))
}

// formatMark renders one trace_marker line. The kernel stamps its own
// timestamp on each record, so the line carries only what it can't
// know: the kind, the label, and any correlation tokens.
func formatMark(kind trb.Kind, label string, id, why trb.ID) string {
	switch {
	case id.IsZero():
		return fmt.Sprintf("trb: %s %s", kind, label)
	case why.IsZero():
		return fmt.Sprintf("trb: %s %s id=%s", kind, label, id)
	default:
		return fmt.Sprintf("trb: %s %s id=%s why=%s", kind, label, id, why)
	}
}
