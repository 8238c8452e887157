package typeobj

import (
	"strings"
	"testing"

	"github.com/chazu/extclass/hostabi"
	"github.com/chazu/extclass/memhost"
	"github.com/chazu/extclass/registry"
)

// specRecorder captures the assembled TypeSpec on its way to the host.
type specRecorder struct {
	*memhost.Runtime
	spec *hostabi.TypeSpec
}

func (s *specRecorder) CreateTypeFromSpec(spec *hostabi.TypeSpec) hostabi.TypeHandle {
	s.spec = spec
	return s.Runtime.CreateTypeFromSpec(spec)
}

func slotIDs(spec *hostabi.TypeSpec) []int {
	ids := make([]int, 0, len(spec.Slots))
	for _, s := range spec.Slots {
		ids = append(ids, s.ID)
	}
	return ids
}

// pointDescriptor is the minimal well-formed descriptor used across tests.
func pointDescriptor() *ClassDescriptor {
	return &ClassDescriptor{
		Name:       "Point",
		Doc:        NoDoc,
		BasicSize:  16,
		Dealloc:    100,
		IsBaseType: true,
	}
}

// ---------------------------------------------------------------------------
// Assembly tests
// ---------------------------------------------------------------------------

func TestCreateTypeMinimal(t *testing.T) {
	rt := &specRecorder{Runtime: memhost.New()}

	h := CreateType(rt, modernCaps, pointDescriptor())
	if h.IsNil() {
		t.Fatal("CreateType returned nil handle")
	}

	spec := rt.spec
	if got := string(spec.Name); got != "builtins.Point\x00" {
		t.Errorf("spec name = %q, want builtins.Point", got)
	}
	if spec.BasicSize != 16 || spec.ItemSize != 0 {
		t.Errorf("sizes = (%d, %d), want (16, 0)", spec.BasicSize, spec.ItemSize)
	}
	if want := hostabi.FlagDefault | hostabi.FlagBaseType; spec.Flags != want {
		t.Errorf("flags = %#x, want %#x", spec.Flags, want)
	}

	// No doc, no tables: base, new, dealloc, end.
	want := []int{hostabi.SlotBase, hostabi.SlotNew, hostabi.SlotDealloc, hostabi.SlotEnd}
	got := slotIDs(spec)
	if len(got) != len(want) {
		t.Fatalf("slot ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slot ids = %v, want %v", got, want)
		}
	}
	if !spec.Slots[len(spec.Slots)-1].IsEnd() {
		t.Error("slot list is not sentinel-terminated")
	}

	// No construct hook supplied: the fallback rejection hook goes in.
	if spec.Slots[1].Func != FallbackNew {
		t.Error("new slot is not the fallback hook")
	}
}

func TestCreateTypeSlotOrder(t *testing.T) {
	rt := &specRecorder{Runtime: memhost.New()}
	dict := 8

	d := &ClassDescriptor{
		Name:       "Blob",
		Module:     "storage",
		Doc:        "A blob.",
		BasicSize:  32,
		New:        1,
		Dealloc:    2,
		Alloc:      3,
		Free:       4,
		DictOffset: &dict,
		Methods: []MethodDef{
			{Kind: MethodKindInstance, Name: "read", Func: 5, Flags: hostabi.MethVarargs},
			{Kind: MethodKindGetter, Name: "size", Func: 6},
		},
		ProtoSlots: []hostabi.Slot{
			hostabi.FuncSlot(hostabi.SlotRepr, 7),
			hostabi.FuncSlot(hostabi.SlotHash, 8),
		},
	}

	CreateType(rt, modernCaps, d)

	want := []int{
		hostabi.SlotBase, hostabi.SlotDoc, hostabi.SlotNew, hostabi.SlotDealloc,
		hostabi.SlotAlloc, hostabi.SlotFree, hostabi.SlotMembers,
		hostabi.SlotMethods, hostabi.SlotGetSet,
		hostabi.SlotRepr, hostabi.SlotHash, hostabi.SlotEnd,
	}
	got := slotIDs(rt.spec)
	if len(got) != len(want) {
		t.Fatalf("slot ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slot ids = %v, want %v", got, want)
		}
	}

	if got := string(rt.spec.Name); got != "storage.Blob\x00" {
		t.Errorf("spec name = %q, want storage.Blob", got)
	}
}

func TestCreateTypeGCFlag(t *testing.T) {
	// Via the descriptor boolean.
	rt := memhost.New()
	d := pointDescriptor()
	d.IsGC = true
	CreateType(rt, modernCaps, d)
	if rec := rt.Type("builtins.Point"); rec.Flags&hostabi.FlagHaveGC == 0 {
		t.Error("IsGC descriptor: GC flag not set")
	}

	// Via a traverse slot.
	rt = memhost.New()
	d = pointDescriptor()
	d.Name = "Node"
	d.ProtoSlots = []hostabi.Slot{hostabi.FuncSlot(hostabi.SlotTraverse, 9)}
	CreateType(rt, modernCaps, d)
	if rec := rt.Type("builtins.Node"); rec.Flags&hostabi.FlagHaveGC == 0 {
		t.Error("traverse slot: GC flag not set")
	}

	// Neither.
	rt = memhost.New()
	CreateType(rt, modernCaps, pointDescriptor())
	if rec := rt.Type("builtins.Point"); rec.Flags&hostabi.FlagHaveGC != 0 {
		t.Error("GC flag set with neither signal")
	}
}

func TestCreateTypeMissingDeallocPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for descriptor without dealloc hook")
		}
	}()
	d := pointDescriptor()
	d.Dealloc = 0
	CreateType(memhost.New(), modernCaps, d)
}

func TestCreateTypeHostFailureIsFatal(t *testing.T) {
	rt := memhost.New()
	d := pointDescriptor()
	d.BasicSize = 0 // the host rejects a non-positive instance size

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on host creation failure")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "Point") {
			t.Errorf("panic %v does not name the class", r)
		}
		if rt.Len() != 0 {
			t.Error("failed creation left a type behind")
		}
		if rt.LastError() != nil {
			t.Error("host error was not consumed before aborting")
		}
	}()
	CreateType(rt, modernCaps, d)
}

func TestCreateTypeRecordsInRegistry(t *testing.T) {
	rt := memhost.New()
	reg := registry.New()

	h := NewBuilder(rt, modernCaps).WithRegistry(reg).CreateType(pointDescriptor())

	e := reg.Lookup("builtins.Point")
	if e == nil {
		t.Fatal("created type not recorded")
	}
	if e.ID == "" {
		t.Error("entry has no id")
	}
	if e.Handle != h {
		t.Error("entry handle differs from returned handle")
	}
	if e.Flags&hostabi.FlagBaseType == 0 {
		t.Error("entry flags missing basetype bit")
	}
}

func TestCreateTypeMethodsReachHost(t *testing.T) {
	rt := memhost.New()
	d := pointDescriptor()
	d.Methods = []MethodDef{
		{Kind: MethodKindInstance, Name: "area", Func: 5, Flags: hostabi.MethNoArgs},
	}

	CreateType(rt, modernCaps, d)

	methods, getsets, members, ok := rt.TypeMeta("builtins.Point")
	if !ok {
		t.Fatal("type not found in host")
	}
	if len(methods) != 1 {
		t.Fatalf("host sees %d methods, want 1", len(methods))
	}
	if len(getsets) != 0 || len(members) != 0 {
		t.Errorf("unexpected tables: getsets=%d members=%d", len(getsets), len(members))
	}
}
