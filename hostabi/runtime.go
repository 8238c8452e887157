package hostabi

// Runtime is the boundary to the host runtime: the operations extclass
// consumes to create a type and, on legacy capability profiles, to patch
// the finished object. Implementations: a cgo binding to a real
// interpreter, or memhost.Runtime for in-process use and tests.
type Runtime interface {
	// CreateTypeFromSpec materializes a type object from the assembled
	// spec. Returns the nil handle on failure; the caller must then
	// consult LastError.
	CreateTypeFromSpec(spec *TypeSpec) TypeHandle

	// LastError fetches and clears the error recorded by the most recent
	// failed operation.
	LastError() error

	// AllocBuffer and FreeBuffer manage host-owned raw buffers. Used only
	// by the legacy doc-string replacement path.
	AllocBuffer(n int) []byte
	FreeBuffer(b []byte)

	// GenericGetDict and GenericSetDict are the host's generic instance
	// dictionary accessors, used to synthesize a __dict__ property.
	GenericGetDict() FuncPtr
	GenericSetDict() FuncPtr

	// TypeRecord exposes the patchable fields of a live type object.
	// Only the post-creation patcher may write through the result.
	TypeRecord(h TypeHandle) *TypeRecord
}

// Capabilities describes which construction mechanisms the host runtime
// build supports. Resolved once (see package profile) and threaded
// explicitly into the table builders and the post-creation patcher; each
// gated code path is selected by one flag lookup.
type Capabilities struct {
	// SlotMembers: the host accepts member tables through the slot list
	// (SlotMembers). When false, dict/weaklist offsets are applied by the
	// post-creation patcher instead.
	SlotMembers bool

	// ManualBufferPatch: the slot table silently ignores buffer-protocol
	// slots; the collector must intercept them and the patcher must copy
	// them onto the finished type.
	ManualBufferPatch bool

	// ManualDocPatch: the host strips annotations from the doc buffer it
	// generates; the patcher must replace it with an exact copy of the
	// supplied text.
	ManualDocPatch bool

	// GenericDictAccessors: the host exposes generic dict getter/setter
	// functions usable for a synthesized __dict__ property.
	GenericDictAccessors bool
}
