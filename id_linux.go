//go:build linux

package trb

import "golang.org/x/sys/unix"

// threadOrigin returns a process-unique origin for a LocalIDSource,
// folding in the OS thread id of the calling goroutine at construction
// time. The low 32 bits come from a process-wide sequence, so two
// sources constructed on the same thread still get distinct origins.
func threadOrigin() uint64 {
	return uint64(unix.Gettid())<<32 | originSeq.Add(1)&0xffffffff
}
