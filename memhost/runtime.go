// Package memhost is an in-memory implementation of hostabi.Runtime.
//
// It enforces the same structural rules a real embedding interpreter would
// (sentinel-terminated slot lists and tables, mandatory dealloc, qualified
// names) and materializes a live TypeRecord per created type, so the
// post-creation patcher has real host-owned memory to write into. The
// test suites run against it; a cgo binding to a real interpreter can
// replace it without touching type construction.
package memhost

import (
	"bytes"
	"fmt"
	"sync"
	"unsafe"

	"github.com/chazu/extclass/hostabi"
)

// Runtime is an in-memory host runtime. The zero value is not usable; call
// New.
type Runtime struct {
	mu      sync.Mutex
	lastErr error
	types   map[string]*createdType

	// StripDocSignatures simulates legacy host builds that strip the
	// signature block from doc buffers they generate. The manual doc
	// patch exists to bypass exactly this.
	StripDocSignatures bool

	// IgnoreBufferSlots simulates legacy host builds whose slot table
	// silently drops buffer-protocol slots; on those builds the pointers
	// only reach the type through the post-creation patcher.
	IgnoreBufferSlots bool

	buffers map[*byte][]byte

	genericGetAnchor byte
	genericSetAnchor byte
}

// createdType is one materialized type. The embedded TypeRecord must stay
// the first field: handles point at it, and TypeRecord() casts back.
type createdType struct {
	rec hostabi.TypeRecord

	base     hostabi.TypeHandle
	itemSize int

	newFn   hostabi.FuncPtr
	dealloc hostabi.FuncPtr
	alloc   hostabi.FuncPtr
	free    hostabi.FuncPtr

	methods []hostabi.MethodEntry
	getsets []hostabi.GetSetEntry
	members []hostabi.MemberEntry
	proto   map[int]hostabi.FuncPtr
}

// New creates an empty runtime.
func New() *Runtime {
	return &Runtime{
		types:   make(map[string]*createdType),
		buffers: make(map[*byte][]byte),
	}
}

// CreateTypeFromSpec validates the spec and materializes a type record.
// Returns the nil handle after recording an error when the spec violates
// the ABI's structural rules.
func (r *Runtime) CreateTypeFromSpec(spec *hostabi.TypeSpec) hostabi.TypeHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	ct, err := r.materialize(spec)
	if err != nil {
		r.lastErr = err
		return hostabi.TypeHandle{}
	}

	r.types[ct.rec.Name] = ct
	return hostabi.HandleFor(unsafe.Pointer(&ct.rec))
}

// LastError fetches and clears the most recent error.
func (r *Runtime) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.lastErr
	r.lastErr = nil
	return err
}

// AllocBuffer allocates a tracked host buffer.
func (r *Runtime) AllocBuffer(n int) []byte {
	b := make([]byte, n)
	r.mu.Lock()
	r.buffers[&b[0]] = b
	r.mu.Unlock()
	return b
}

// FreeBuffer releases a tracked host buffer. Freeing nil is a no-op.
func (r *Runtime) FreeBuffer(b []byte) {
	if len(b) == 0 {
		return
	}
	r.mu.Lock()
	delete(r.buffers, &b[0])
	r.mu.Unlock()
}

// LiveBuffers returns the number of outstanding host buffers. Test hook.
func (r *Runtime) LiveBuffers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buffers)
}

// GenericGetDict returns the host's generic instance-dict getter token.
func (r *Runtime) GenericGetDict() hostabi.FuncPtr {
	return hostabi.FuncPtr(uintptr(unsafe.Pointer(&r.genericGetAnchor)))
}

// GenericSetDict returns the host's generic instance-dict setter token.
func (r *Runtime) GenericSetDict() hostabi.FuncPtr {
	return hostabi.FuncPtr(uintptr(unsafe.Pointer(&r.genericSetAnchor)))
}

// TypeRecord exposes the patchable fields of a live type object. The
// handle points directly at the record, so this is a cast, exactly like a
// C host handing back a pointer into the type object.
func (r *Runtime) TypeRecord(h hostabi.TypeHandle) *hostabi.TypeRecord {
	if h.IsNil() {
		return nil
	}
	return (*hostabi.TypeRecord)(h.Pointer())
}

// Type returns the record for a created type by qualified name, or nil.
func (r *Runtime) Type(name string) *hostabi.TypeRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	ct, ok := r.types[name]
	if !ok {
		return nil
	}
	return &ct.rec
}

// TypeMeta returns the non-record metadata of a created type: its tables
// and lifecycle hooks. Test hook.
func (r *Runtime) TypeMeta(name string) (methods []hostabi.MethodEntry, getsets []hostabi.GetSetEntry, members []hostabi.MemberEntry, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ct, found := r.types[name]
	if !found {
		return nil, nil, nil, false
	}
	return ct.methods, ct.getsets, ct.members, true
}

// Len returns the number of created types.
func (r *Runtime) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.types)
}

// hostDoc builds the host-generated doc buffer from the supplied one,
// applying the signature-stripping quirk when enabled. The buffer is
// tracked like any other host allocation so the patcher may free it.
func (r *Runtime) hostDoc(doc []byte) []byte {
	text := doc
	if r.StripDocSignatures {
		// Legacy builds drop everything through the signature marker.
		if i := bytes.Index(text, []byte(")\n--\n\n")); i >= 0 {
			text = text[i+len(")\n--\n\n"):]
		}
	}
	buf := make([]byte, len(text))
	copy(buf, text)
	if len(buf) == 0 || buf[len(buf)-1] != 0 {
		buf = append(buf, 0)
	}
	r.buffers[&buf[0]] = buf
	return buf
}

func (r *Runtime) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("memhost.Runtime(%d types, %d buffers)", len(r.types), len(r.buffers))
}
