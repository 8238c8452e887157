// Package arena provides a process-lifetime ownership-transfer allocator.
//
// Everything handed to the host runtime during type creation — name
// strings, doc buffers, method/property/member tables — becomes part of a
// type object whose lifetime equals the process. The host never frees these
// buffers and neither do we. Retaining them here makes the transfer
// explicit: an allocation placed in an Arena is reachable for the rest of
// the process, so the Go collector can never reclaim memory the host still
// references.
package arena

import (
	"fmt"
	"strings"
	"sync"
)

// Arena retains allocations forever. The zero value is ready to use.
type Arena struct {
	mu    sync.Mutex
	held  []any
	bytes int
}

// Global is the arena backing all type construction. Type objects are
// process-lifetime, so there is exactly one.
var Global = &Arena{}

// Retain transfers ownership of v to the arena. The value is reachable
// until process exit.
func (a *Arena) Retain(v any) {
	a.mu.Lock()
	a.held = append(a.held, v)
	a.mu.Unlock()
}

// Bytes retains b and returns it.
func (a *Arena) Bytes(b []byte) []byte {
	a.mu.Lock()
	a.held = append(a.held, b)
	a.bytes += len(b)
	a.mu.Unlock()
	return b
}

// CString copies s into a retained NUL-terminated buffer. If s already ends
// with a NUL it is used as-is. Panics if s contains an interior NUL: that
// is a malformed input from the descriptor producer, a programming error.
func (a *Arena) CString(s string) []byte {
	body := s
	if strings.HasSuffix(s, "\x00") {
		body = s[:len(s)-1]
	}
	if strings.IndexByte(body, 0) >= 0 {
		panic(fmt.Sprintf("arena: string contains interior NUL byte: %q", s))
	}
	buf := make([]byte, len(body)+1)
	copy(buf, body)
	return a.Bytes(buf)
}

// Count returns the number of retained allocations.
func (a *Arena) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.held)
}

// ByteSize returns the total size of retained byte buffers.
func (a *Arena) ByteSize() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bytes
}
