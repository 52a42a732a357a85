//go:build linux

package trbftrace

import "golang.org/x/sys/unix"

// tracefs moved out of debugfs in kernel 4.1; try the modern mount
// first and fall back to the legacy path.
var markerPaths = []string{
	"/sys/kernel/tracing/trace_marker",
	"/sys/kernel/debug/tracing/trace_marker",
}

type marker struct {
	fd int
}

func openMarker() (*marker, error) {
	var firstErr error
	for _, path := range markerPaths {
		fd, err := unix.Open(path, unix.O_WRONLY, 0)
		if err == nil {
			return &marker{fd: fd}, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func (m *marker) write(line string) {
	// Best effort: a mark that can't be written is dropped, matching
	// the lossy semantics of the ring-buffer sink.
	unix.Write(m.fd, []byte(line))
}

func (m *marker) close() error {
	return unix.Close(m.fd)
}
