//go:build !linux

package trb

// threadOrigin returns a process-unique origin for a LocalIDSource. On
// platforms without a cheap thread id, the process-wide sequence alone
// provides uniqueness.
func threadOrigin() uint64 {
	return originSeq.Add(1)
}
