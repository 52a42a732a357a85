package trb

// EntryIter is a lazy, forward-only, oldest-first iterator over the
// entries present in a ring buffer when Iter was called. Usage follows
// the scanner idiom:
//
//	it := rb.Iter()
//	for it.Next() {
//		fmt.Println(it.Entry())
//	}
//	if err := it.Err(); err != nil {
//		// corrupted record
//	}
//
// The iterator borrows the buffer without copying or mutating it.
// Appending to the buffer during iteration is not allowed.
type EntryIter struct {
	rb        *RingBuffer
	cursor    int
	remaining int // bytes left to read
	entry     Entry
	err       error
}

// Iter returns an iterator over the entries currently in the buffer,
// oldest first. Two calls without intervening appends yield identical
// sequences.
func (rb *RingBuffer) Iter() *EntryIter {
	return &EntryIter{
		rb:        rb,
		cursor:    rb.begin,
		remaining: rb.length,
	}
}

// Next decodes the entry at the cursor and advances. It returns false
// when the sequence is exhausted or a record fails to decode; check Err
// to tell the two apart.
func (it *EntryIter) Next() bool {
	if it.err != nil || it.remaining < EntrySize {
		return false
	}

	var (
		data     = it.rb.data
		capacity = len(data)
	)

	// Mirror the write path: a record that straddles the end of the
	// block is reassembled through a contiguous scratch area.
	var rec [EntrySize]byte
	if it.cursor+EntrySize > capacity {
		middle := capacity - it.cursor
		copy(rec[:middle], data[it.cursor:])
		copy(rec[middle:], data[:EntrySize-middle])
	} else {
		copy(rec[:], data[it.cursor:it.cursor+EntrySize])
	}

	if err := it.entry.UnmarshalBinary(rec[:]); err != nil {
		it.err = err
		return false
	}

	it.cursor = (it.cursor + EntrySize) % capacity
	it.remaining -= EntrySize
	return true
}

// Entry returns the entry decoded by the most recent successful call to
// Next.
func (it *EntryIter) Entry() Entry {
	return it.entry
}

// Err returns the first decode error encountered, or nil if iteration
// ended by exhausting the sequence. The ring buffer's sole writer is
// its own codec, so a non-nil error means the underlying bytes were
// modified out of band.
func (it *EntryIter) Err() error {
	return it.err
}
