package trb

// Trace identifies an application-defined kind of event or operation.
// Implementations are typically small enumerations, one variant per
// thing worth marking, each with a stable tag.
type Trace interface {
	// Tag should return a stable integer identifying the variant. Tags
	// are what the ring buffer stores, so they must not change between
	// the time an entry is written and the time it is read.
	Tag() uint32
}

// Labeler maps tags back to human-readable labels. A Labeler must be
// total over every tag its trace domain actually produces.
type Labeler interface {
	Label(tag uint32) string
}

// LabelMap is a Labeler over a fixed table. Tags without a label render
// as "unknown".
type LabelMap map[uint32]string

// Label implements Labeler.
func (m LabelMap) Label(tag uint32) string {
	if s, ok := m[tag]; ok {
		return s
	}
	return "unknown"
}

//
//
//

// Sink is any destination for trace marks. The ring buffer is the
// canonical implementation; trbftrace provides an OS-native alternative.
// Sinks differ in visibility and retention, and may interpret or ignore
// the causal why parameter differently; see the implementation docs.
type Sink interface {
	// TraceEvent records an instantaneous event and returns a fresh ID
	// for it. The why parameter optionally names a causal parent; pass
	// the zero ID for none.
	TraceEvent(tr Trace, why ID) ID

	// TraceStart records the beginning of a span and returns a fresh ID
	// for it. Pair it with a later TraceStop for the same tag.
	TraceStart(tr Trace, why ID) ID

	// TraceStop records the end of a span. It returns nothing: readers
	// pair Start and Stop entries by tag, not by token.
	TraceStop(tr Trace)
}
