package hostabi

// ---------------------------------------------------------------------------
// Slot identifiers
// ---------------------------------------------------------------------------

// Slot identifiers name one behavior of a type in the host runtime's ABI.
// Values match CPython's typeslots.h numbering.
const (
	// SlotEnd terminates a slot list; the terminating entry is all-zero.
	SlotEnd = 0

	// Buffer protocol. On legacy capability profiles these cannot be
	// registered through the slot table and must be patched onto the
	// finished type directly (see typeobj's post-creation patcher).
	SlotGetBuffer     = 1
	SlotReleaseBuffer = 2

	// Mapping protocol.
	SlotMapAssignSubscript = 3
	SlotMapLength          = 4
	SlotMapSubscript       = 5

	// Selected numeric protocol slots.
	SlotNumberAdd      = 7
	SlotNumberBool     = 9
	SlotNumberMultiply = 29
	SlotNumberNegative = 30
	SlotNumberSubtract = 36

	// Sequence protocol.
	SlotSeqAssignItem = 39
	SlotSeqConcat     = 40
	SlotSeqContains   = 41
	SlotSeqItem       = 44
	SlotSeqLength     = 45
	SlotSeqRepeat     = 46

	// Type object slots.
	SlotAlloc       = 47
	SlotBase        = 48
	SlotCall        = 50
	SlotClear       = 51
	SlotDealloc     = 52
	SlotDescrGet    = 54
	SlotDescrSet    = 55
	SlotDoc         = 56
	SlotGetAttro    = 58
	SlotHash        = 59
	SlotInit        = 60
	SlotIter        = 62
	SlotIterNext    = 63
	SlotMethods     = 64
	SlotNew         = 65
	SlotRepr        = 66
	SlotRichCompare = 67
	SlotSetAttro    = 69
	SlotStr         = 70
	SlotTraverse    = 71
	SlotMembers     = 72
	SlotGetSet      = 73
	SlotFree        = 74
)

// Slot pairs a slot identifier with its payload. Exactly one payload field
// is meaningful, selected by ID: most slots carry a bare function pointer in
// Func; SlotBase carries Base, SlotDoc carries Doc, and the three table
// slots (SlotMethods, SlotGetSet, SlotMembers) carry their table. The
// payload fields are the in-process stand-in for the C ABI's single
// void-pointer payload.
type Slot struct {
	ID      int
	Func    FuncPtr
	Base    TypeHandle
	Doc     []byte
	Methods []MethodEntry
	GetSets []GetSetEntry
	Members []MemberEntry
}

// FuncSlot builds a plain function-pointer slot.
func FuncSlot(id int, fn FuncPtr) Slot {
	return Slot{ID: id, Func: fn}
}

// IsEnd reports whether this is the all-zero terminating entry.
func (s Slot) IsEnd() bool {
	return s.ID == SlotEnd && s.Func == 0 && s.Base.IsNil() &&
		s.Doc == nil && s.Methods == nil && s.GetSets == nil && s.Members == nil
}
