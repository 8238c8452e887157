package hostabi

// ---------------------------------------------------------------------------
// Type flags
// ---------------------------------------------------------------------------

// Type flag bits for TypeSpec.Flags. Values match CPython's tp_flags bits.
const (
	// FlagHeapType marks a dynamically allocated type object. The host
	// sets this itself for spec-created types; listed for completeness.
	FlagHeapType uint32 = 1 << 9

	// FlagBaseType permits further subclassing of the type.
	FlagBaseType uint32 = 1 << 10

	// FlagHaveGC makes instances participate in the host's cycle
	// collector (traverse/clear protocol).
	FlagHaveGC uint32 = 1 << 14

	// FlagDefault is the baseline every created type carries.
	FlagDefault uint32 = 1 << 18
)

// ---------------------------------------------------------------------------
// Method calling-convention flags
// ---------------------------------------------------------------------------

// Calling-convention bits for MethodEntry.Flags.
const (
	MethVarargs  uint32 = 0x0001
	MethKeywords uint32 = 0x0002
	MethNoArgs   uint32 = 0x0004
	MethO        uint32 = 0x0008

	// MethClass and MethStatic select the binding behavior; they are
	// combined with one of the argument-passing bits above.
	MethClass  uint32 = 0x0010
	MethStatic uint32 = 0x0020

	MethFastcall uint32 = 0x0080
)

// ---------------------------------------------------------------------------
// Member descriptors
// ---------------------------------------------------------------------------

// Member type codes and flags for MemberEntry.
const (
	// MemberTypeSSizeT is the signed-size type code used for the
	// __dictoffset__ and __weaklistoffset__ members.
	MemberTypeSSizeT = 19

	// MemberFlagReadOnly rejects assignment to the member.
	MemberFlagReadOnly = 1
)
