package trb

import (
	"sort"
	"time"
)

// Merge combines several entry sequences, typically drained from
// per-goroutine buffers, into a single timestamp-ordered slice. Entries
// with equal timestamps keep their relative input order.
func Merge(seqs ...[]Entry) []Entry {
	var total int
	for _, s := range seqs {
		total += len(s)
	}

	merged := make([]Entry, 0, total)
	for _, s := range seqs {
		merged = append(merged, s...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})

	return merged
}

//
//
//

// Span is a completed Start/Stop pair for one tag.
type Span struct {
	Tag   uint32 `json:"tag"`
	Start uint64 `json:"start"` // ns since the Unix epoch
	Stop  uint64 `json:"stop"`  // ns since the Unix epoch
}

// Duration returns the span's elapsed time.
func (s Span) Duration() time.Duration {
	return time.Duration(s.Stop - s.Start)
}

// Spans pairs Start and Stop entries by tag and returns the completed
// spans in order of completion. Nested spans of the same tag pair
// innermost-first. Unmatched markers, which a lossy buffer can produce
// when one half of a pair is evicted, are dropped.
func Spans(entries []Entry) []Span {
	var (
		open  = map[uint32][]uint64{}
		spans []Span
	)

	for _, e := range entries {
		switch e.Kind {
		case KindStart:
			open[e.Tag] = append(open[e.Tag], e.Timestamp)

		case KindStop:
			starts := open[e.Tag]
			if len(starts) == 0 {
				continue // Stop whose Start was evicted
			}
			spans = append(spans, Span{
				Tag:   e.Tag,
				Start: starts[len(starts)-1],
				Stop:  e.Timestamp,
			})
			open[e.Tag] = starts[:len(starts)-1]
		}
	}

	return spans
}
