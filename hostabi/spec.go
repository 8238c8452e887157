package hostabi

import "unsafe"

// FuncPtr is an opaque native function pointer token. The zero value means
// "no function". This package never calls through one; it only moves them
// between tables.
type FuncPtr uintptr

// ---------------------------------------------------------------------------
// Type handles
// ---------------------------------------------------------------------------

// TypeHandle is an opaque reference to a fully constructed type object
// inside the host runtime. The zero value is the nil handle, returned by
// CreateTypeFromSpec on failure.
type TypeHandle struct {
	p unsafe.Pointer
}

// HandleFor wraps a host-owned pointer in an opaque handle. Runtime
// implementations use this when materializing a type.
func HandleFor(p unsafe.Pointer) TypeHandle {
	return TypeHandle{p: p}
}

// IsNil reports whether the handle refers to no type object.
func (h TypeHandle) IsNil() bool {
	return h.p == nil
}

// Pointer returns the underlying host pointer. Only Runtime implementations
// should look through a handle.
func (h TypeHandle) Pointer() unsafe.Pointer {
	return h.p
}

// ---------------------------------------------------------------------------
// Flat table entries
// ---------------------------------------------------------------------------

// MethodEntry is one row of a method table. Name and Doc are NUL-terminated
// byte buffers whose ownership has been transferred to the host. The zero
// entry (nil Name) is the table sentinel.
type MethodEntry struct {
	Name  []byte
	Func  FuncPtr
	Flags uint32
	Doc   []byte
}

// IsSentinel reports whether this is the all-zero terminating row.
func (e MethodEntry) IsSentinel() bool {
	return e.Name == nil && e.Func == 0 && e.Flags == 0 && e.Doc == nil
}

// GetSetEntry is one row of a property table. Either accessor may be zero.
// The zero entry is the table sentinel.
type GetSetEntry struct {
	Name    []byte
	Get     FuncPtr
	Set     FuncPtr
	Doc     []byte
	Closure FuncPtr
}

// IsSentinel reports whether this is the all-zero terminating row.
func (e GetSetEntry) IsSentinel() bool {
	return e.Name == nil && e.Get == 0 && e.Set == 0 && e.Doc == nil && e.Closure == 0
}

// MemberEntry is one row of a member table: a named field at a fixed offset
// inside the instance layout. The zero entry is the table sentinel.
type MemberEntry struct {
	Name     []byte
	TypeCode int
	Offset   int
	Flags    int
	Doc      []byte
}

// IsSentinel reports whether this is the all-zero terminating row.
func (e MemberEntry) IsSentinel() bool {
	return e.Name == nil && e.TypeCode == 0 && e.Offset == 0 && e.Flags == 0 && e.Doc == nil
}

// BufferProcs captures buffer-protocol function pointers intercepted from
// the slot stream on capability profiles where the slot table silently
// ignores them.
type BufferProcs struct {
	GetBuffer     FuncPtr
	ReleaseBuffer FuncPtr
}

// ---------------------------------------------------------------------------
// TypeSpec
// ---------------------------------------------------------------------------

// TypeSpec is the single, assembled specification handed to the host
// runtime. Name is the NUL-terminated qualified name ("module.Class").
// Slots is ordered and terminated by an all-zero Slot.
type TypeSpec struct {
	Name      []byte
	BasicSize int
	ItemSize  int
	Flags     uint32
	Slots     []Slot
}

// ---------------------------------------------------------------------------
// Live type records
// ---------------------------------------------------------------------------

// TypeRecord is the portion of a live, host-owned type object that legacy
// capability profiles patch directly after creation. Writing to one mutates
// host memory; all such writes are confined to typeobj's post-creation
// patcher.
type TypeRecord struct {
	Name      string
	BasicSize int
	Flags     uint32

	// Doc is the host-owned documentation buffer (NUL-terminated), or nil.
	Doc []byte

	// Buffer-protocol pointers; zero when the type has none.
	GetBuffer     FuncPtr
	ReleaseBuffer FuncPtr

	// Instance-layout offsets of the dict and weak-reference list fields;
	// zero when the type has neither.
	DictOffset     int
	WeakListOffset int
}
