package trb_test

import (
	"testing"

	"github.com/peterbourgon/trb"
)

func TestNoRollOver(t *testing.T) {
	t.Parallel()

	rb := trb.New(100 * trb.EntrySize)
	appendScenario(rb)

	entries, err := rb.Entries()
	assertNoError(t, err)
	assertEqual(t, describe(entries), []string{
		"Event Foo",
		"Start Thing",
		"Start Another",
		"Event Foo",
		"Stop Thing",
		"Stop Another",
	})
}

func TestRollOver(t *testing.T) {
	t.Parallel()

	// Room for five entries: the first mark is evicted by the sixth.
	rb := trb.New(5 * trb.EntrySize)
	appendScenario(rb)

	entries, err := rb.Entries()
	assertNoError(t, err)
	assertEqual(t, describe(entries), []string{
		"Start Thing",
		"Start Another",
		"Event Foo",
		"Stop Thing",
		"Stop Another",
	})
}

func TestRollOverUnevenCapacity(t *testing.T) {
	t.Parallel()

	// Capacity is not a multiple of the entry size, so records straddle
	// the end of the block and must decode across the wraparound.
	rb := trb.New(3*trb.EntrySize + 1)
	appendScenario(rb)

	entries, err := rb.Entries()
	assertNoError(t, err)
	assertEqual(t, describe(entries), []string{
		"Event Foo",
		"Stop Thing",
		"Stop Another",
	})
}

func TestEmptyBuffer(t *testing.T) {
	t.Parallel()

	rb := trb.New(trb.DefaultCapacity)

	assertEqual(t, rb.Len(), 0)

	it := rb.Iter()
	assertEqual(t, it.Next(), false)
	assertNoError(t, it.Err())
}

func TestSingleAppend(t *testing.T) {
	t.Parallel()

	rb := trb.New(trb.DefaultCapacity)
	rb.TraceStart(tagThing, trb.ID{})

	entries, err := rb.Entries()
	assertNoError(t, err)
	assertEqual(t, rb.Len(), 1)
	assertEqual(t, describe(entries), []string{"Start Thing"})
	assertEqual(t, entries[0].Tag, tagThing.Tag())
}

func TestMinimalCapacity(t *testing.T) {
	t.Parallel()

	// One byte more than an entry: the buffer holds exactly one entry,
	// and every subsequent append evicts its predecessor.
	rb := trb.New(trb.EntrySize + 1)
	appendScenario(rb)

	assertEqual(t, rb.Len(), 1)

	entries, err := rb.Entries()
	assertNoError(t, err)
	assertEqual(t, describe(entries), []string{"Stop Another"})
}

func TestIterDoesNotMutate(t *testing.T) {
	t.Parallel()

	rb := trb.New(4 * trb.EntrySize)
	appendScenario(rb)

	first, err := rb.Entries()
	assertNoError(t, err)

	second, err := rb.Entries()
	assertNoError(t, err)

	assertEqual(t, second, first)
	assertEqual(t, rb.Len(), 4)
}

func TestLongRollOver(t *testing.T) {
	t.Parallel()

	// Many times around the ring: the survivors are always the most
	// recent capacity-in-entries marks, oldest first.
	const n = 1000
	rb := trb.New(7 * trb.EntrySize)
	for i := 0; i < n; i++ {
		rb.TraceEvent(tagFoo, trb.ID{})
	}
	rb.TraceStop(tagAnother)

	assertEqual(t, rb.Len(), 7)

	entries, err := rb.Entries()
	assertNoError(t, err)
	assertEqual(t, describe(entries), []string{
		"Event Foo",
		"Event Foo",
		"Event Foo",
		"Event Foo",
		"Event Foo",
		"Event Foo",
		"Stop Another",
	})
}

func TestTimestampsNonDecreasing(t *testing.T) {
	t.Parallel()

	rb := trb.New(trb.DefaultCapacity)
	for i := 0; i < 50; i++ {
		rb.TraceEvent(tagFoo, trb.ID{})
	}

	entries, err := rb.Entries()
	assertNoError(t, err)
	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp < entries[i-1].Timestamp {
			t.Fatalf("entry %d: timestamp %d before predecessor %d", i, entries[i].Timestamp, entries[i-1].Timestamp)
		}
	}
}

func TestAppendIDsDistinct(t *testing.T) {
	t.Parallel()

	rb := trb.New(trb.DefaultCapacity)

	seen := map[trb.ID]bool{}
	for i := 0; i < 100; i++ {
		id := rb.TraceEvent(tagFoo, trb.ID{})
		if id.IsZero() {
			t.Fatal("zero ID from TraceEvent")
		}
		if seen[id] {
			t.Fatalf("duplicate ID %s", id)
		}
		seen[id] = true
	}
}

func TestDrain(t *testing.T) {
	t.Parallel()

	rb := trb.New(trb.DefaultCapacity)
	appendScenario(rb)

	entries, err := rb.Drain()
	assertNoError(t, err)
	assertEqual(t, len(entries), 6)
	assertEqual(t, rb.Len(), 0)

	after, err := rb.Entries()
	assertNoError(t, err)
	assertEqual(t, len(after), 0)

	// The buffer keeps working after a drain.
	rb.TraceEvent(tagFoo, trb.ID{})
	assertEqual(t, rb.Len(), 1)
}

func TestWalkStopsEarly(t *testing.T) {
	t.Parallel()

	rb := trb.New(trb.DefaultCapacity)
	appendScenario(rb)

	var count int
	errDone := errorString("done")
	err := rb.Walk(func(trb.Entry) error {
		count++
		if count == 2 {
			return errDone
		}
		return nil
	})
	assertEqual(t, err, error(errDone))
	assertEqual(t, count, 2)
}

type errorString string

func (e errorString) Error() string { return string(e) }

func TestNewPanicsOnTinyCapacity(t *testing.T) {
	t.Parallel()

	for _, capacity := range []int{-1, 0, 1, trb.EntrySize} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("capacity %d: expected panic", capacity)
				}
			}()
			trb.New(capacity)
		}()
	}

	// One past the entry size is the smallest legal capacity.
	rb := trb.New(trb.EntrySize + 1)
	assertEqual(t, rb.Cap(), trb.EntrySize+1)
}
