// Package typeobj builds native type descriptors for the host runtime.
//
// A ClassDescriptor is the declarative description of one class: layout,
// lifecycle hooks, methods, properties, and protocol slots. CreateType
// flattens it into the single, sentinel-terminated TypeSpec the host
// runtime's ABI expects, invokes type creation, and (on legacy capability
// profiles) patches the finished object directly.
//
// Construction happens once per class, during initialization, and cannot be
// undone: a failure is process-fatal because the host may have already
// registered the type under its name.
package typeobj

import "github.com/chazu/extclass/hostabi"

// NoDoc is the Doc value meaning "no documentation". It mirrors the host
// ABI convention where an empty doc is a lone NUL terminator.
const NoDoc = "\x00"

// ClassDescriptor describes one class to be materialized as a host type
// object. It is produced once per class and consumed exactly once by
// CreateType.
type ClassDescriptor struct {
	Name   string
	Module string // empty means the host's default module
	Doc    string // NoDoc (or empty) means no documentation

	Base      hostabi.TypeHandle
	BasicSize int // instance memory size; must cover the base layout

	// Lifecycle hooks. Dealloc is mandatory; the rest are optional.
	// A zero New installs FallbackNew, which rejects direct construction.
	New     hostabi.FuncPtr
	Dealloc hostabi.FuncPtr
	Alloc   hostabi.FuncPtr
	Free    hostabi.FuncPtr

	// Instance-layout offsets of the __dict__ and weak-reference list
	// fields; nil when the class has neither.
	DictOffset     *int
	WeakListOffset *int

	Methods    []MethodDef
	ProtoSlots []hostabi.Slot

	// IsGC requests cycle-collector participation even when no
	// traverse/clear slot is declared.
	IsGC bool

	// IsBaseType permits subclassing.
	IsBaseType bool
}

// MethodKind tags the role of a MethodDef.
type MethodKind int

const (
	MethodKindInstance MethodKind = iota
	MethodKindClass
	MethodKindStatic
	MethodKindGetter
	MethodKindSetter

	// MethodKindClassAttr is a class attribute initializer; it is not a
	// type-object member and the table builders skip it.
	MethodKindClassAttr
)

// MethodDef is one method, accessor, or attribute definition. Getter and
// Setter definitions sharing a Name describe the same logical property.
type MethodDef struct {
	Kind  MethodKind
	Name  string
	Func  hostabi.FuncPtr
	Flags uint32 // calling-convention bits (hostabi.MethVarargs etc.)
	Doc   string
}
