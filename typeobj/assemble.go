package typeobj

import (
	"fmt"
	"unsafe"

	"github.com/tliron/commonlog"

	"github.com/chazu/extclass/arena"
	"github.com/chazu/extclass/hostabi"
	"github.com/chazu/extclass/registry"
)

var log = commonlog.GetLogger("extclass.typeobj")

// fallbackNewAnchor gives FallbackNew a unique, non-zero token value.
var fallbackNewAnchor byte

// FallbackNew is the reserved construction hook installed when a descriptor
// supplies no construct hook. A Runtime maps it to its "not constructible
// directly" rejection function.
var FallbackNew = hostabi.FuncPtr(uintptr(unsafe.Pointer(&fallbackNewAnchor)))

// Builder constructs type objects against one host runtime and one
// capability profile.
type Builder struct {
	rt   hostabi.Runtime
	caps hostabi.Capabilities
	reg  *registry.Registry
}

// NewBuilder creates a builder for the given runtime and capabilities.
func NewBuilder(rt hostabi.Runtime, caps hostabi.Capabilities) *Builder {
	return &Builder{rt: rt, caps: caps}
}

// WithRegistry makes the builder record every created type in reg.
func (b *Builder) WithRegistry(reg *registry.Registry) *Builder {
	b.reg = reg
	return b
}

// CreateType consumes a descriptor and materializes the type in the host
// runtime, returning its handle.
//
// Failure is process-fatal: a malformed descriptor panics during assembly,
// and a creation failure reports the host's error and panics. There is no
// recovery path — the host may have partially registered the type under
// its name, and no unregister operation exists.
func (b *Builder) CreateType(d *ClassDescriptor) hostabi.TypeHandle {
	name := qualifiedName(d.Module, d.Name)
	docBuf := classDoc(d.Doc)

	slots := make([]hostabi.Slot, 0, 8+len(d.ProtoSlots))
	slots = append(slots, hostabi.Slot{ID: hostabi.SlotBase, Base: d.Base})
	if docBuf != nil {
		slots = append(slots, hostabi.Slot{ID: hostabi.SlotDoc, Doc: docBuf})
	}

	newFn := d.New
	if newFn == 0 {
		newFn = FallbackNew
	}
	slots = append(slots, hostabi.FuncSlot(hostabi.SlotNew, newFn))

	if d.Dealloc == 0 {
		panic(fmt.Sprintf("typeobj: class %s declares no dealloc hook", d.Name))
	}
	slots = append(slots, hostabi.FuncSlot(hostabi.SlotDealloc, d.Dealloc))

	if d.Alloc != 0 {
		slots = append(slots, hostabi.FuncSlot(hostabi.SlotAlloc, d.Alloc))
	}
	if d.Free != 0 {
		slots = append(slots, hostabi.FuncSlot(hostabi.SlotFree, d.Free))
	}

	if members := memberTable(b.caps, d.DictOffset, d.WeakListOffset); len(members) > 0 {
		arena.Global.Retain(members)
		slots = append(slots, hostabi.Slot{ID: hostabi.SlotMembers, Members: members})
	}
	if methods := methodTable(d.Methods); len(methods) > 0 {
		arena.Global.Retain(methods)
		slots = append(slots, hostabi.Slot{ID: hostabi.SlotMethods, Methods: methods})
	}
	if getsets := getSetTable(b.rt, b.caps, d.DictOffset == nil, d.Methods); len(getsets) > 0 {
		arena.Global.Retain(getsets)
		slots = append(slots, hostabi.Slot{ID: hostabi.SlotGetSet, GetSets: getsets})
	}

	collected := collectProtoSlots(b.caps, d.ProtoSlots)
	slots = append(slots, collected.slots...)
	slots = append(slots, hostabi.Slot{}) // end sentinel

	spec := &hostabi.TypeSpec{
		Name:      arena.Global.CString(name),
		BasicSize: d.BasicSize,
		ItemSize:  0,
		Flags:     typeFlags(collected.hasGCMethods, d.IsGC, d.IsBaseType),
		Slots:     slots,
	}
	// The slot list and everything it references now belong to the host
	// for the rest of the process.
	arena.Global.Retain(slots)

	h := b.rt.CreateTypeFromSpec(spec)
	if h.IsNil() {
		err := b.rt.LastError()
		log.Criticalf("creating class %s: %s", d.Name, err)
		panic(fmt.Sprintf("typeobj: an error occurred while initializing class %s: %v", d.Name, err))
	}

	// Pointer-level fixups must happen before the handle escapes.
	b.patchCreatedType(h, d, docBuf, collected.buffer)

	if b.reg != nil {
		b.reg.Record(name, h, spec.Flags)
	}
	return h
}

// CreateType builds a type with a one-shot builder. Convenience for callers
// that construct a single class.
func CreateType(rt hostabi.Runtime, caps hostabi.Capabilities, d *ClassDescriptor) hostabi.TypeHandle {
	return NewBuilder(rt, caps).CreateType(d)
}
