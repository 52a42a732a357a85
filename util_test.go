package trb_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/peterbourgon/trb"
)

func assertEqual[T any](t *testing.T, have, want T) {
	t.Helper()
	if !cmp.Equal(have, want) {
		t.Fatal(cmp.Diff(have, want))
	}
}

func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("error %v", err)
	}
}

//
//
//

// testTrace is the sample trace domain used throughout the tests.
type testTrace uint32

const (
	tagFoo testTrace = iota
	tagThing
	tagAnother
)

func (tt testTrace) Tag() uint32 { return uint32(tt) }

var testLabels = trb.LabelMap{
	uint32(tagFoo):     "Foo",
	uint32(tagThing):   "Thing",
	uint32(tagAnother): "Another",
}

// appendScenario writes the canonical six-mark sequence: an event, two
// nested span starts, another event, and the two matching stops.
func appendScenario(sink trb.Sink) {
	sink.TraceEvent(tagFoo, trb.ID{})
	sink.TraceStart(tagThing, trb.ID{})
	sink.TraceStart(tagAnother, trb.ID{})
	sink.TraceEvent(tagFoo, trb.ID{})
	sink.TraceStop(tagThing)
	sink.TraceStop(tagAnother)
}

// describe renders entries as "Kind Label" strings, the shape most
// scenario assertions care about.
func describe(entries []trb.Entry) []string {
	out := []string{}
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%s %s", e.Kind, testLabels.Label(e.Tag)))
	}
	return out
}
