package memhost

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/chazu/extclass/hostabi"
)

// materialize checks a spec against the ABI's structural rules and builds
// the live type. Caller holds r.mu.
func (r *Runtime) materialize(spec *hostabi.TypeSpec) (*createdType, error) {
	name, err := specName(spec.Name)
	if err != nil {
		return nil, err
	}
	if spec.BasicSize <= 0 {
		return nil, fmt.Errorf("memhost: type %s: basic size %d is not positive", name, spec.BasicSize)
	}
	if n := len(spec.Slots); n == 0 || !spec.Slots[n-1].IsEnd() {
		return nil, fmt.Errorf("memhost: type %s: slot list is not sentinel-terminated", name)
	}

	ct := &createdType{
		rec: hostabi.TypeRecord{
			Name:      name,
			BasicSize: spec.BasicSize,
			Flags:     spec.Flags,
		},
		itemSize: spec.ItemSize,
		proto:    make(map[int]hostabi.FuncPtr),
	}

	seen := make(map[int]bool)
	for _, s := range spec.Slots[:len(spec.Slots)-1] {
		if s.IsEnd() {
			return nil, fmt.Errorf("memhost: type %s: interior slot-list sentinel", name)
		}
		if s.ID <= 0 {
			return nil, fmt.Errorf("memhost: type %s: invalid slot id %d", name, s.ID)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("memhost: type %s: duplicate slot id %d", name, s.ID)
		}
		seen[s.ID] = true

		if err := r.applySlot(ct, s); err != nil {
			return nil, fmt.Errorf("memhost: type %s: %w", name, err)
		}
	}

	if ct.dealloc == 0 {
		return nil, fmt.Errorf("memhost: type %s: no dealloc slot", name)
	}
	return ct, nil
}

// applySlot installs one slot into the type under construction.
func (r *Runtime) applySlot(ct *createdType, s hostabi.Slot) error {
	switch s.ID {
	case hostabi.SlotBase:
		ct.base = s.Base

	case hostabi.SlotDoc:
		if len(s.Doc) == 0 || s.Doc[len(s.Doc)-1] != 0 {
			return fmt.Errorf("doc slot is not NUL-terminated")
		}
		ct.rec.Doc = r.hostDoc(s.Doc)

	case hostabi.SlotNew:
		ct.newFn = s.Func
	case hostabi.SlotDealloc:
		if s.Func == 0 {
			return fmt.Errorf("dealloc slot carries no function")
		}
		ct.dealloc = s.Func
	case hostabi.SlotAlloc:
		ct.alloc = s.Func
	case hostabi.SlotFree:
		ct.free = s.Func

	case hostabi.SlotMethods:
		if err := checkMethodTable(s.Methods); err != nil {
			return err
		}
		ct.methods = s.Methods[:len(s.Methods)-1]

	case hostabi.SlotGetSet:
		if err := checkGetSetTable(s.GetSets); err != nil {
			return err
		}
		ct.getsets = s.GetSets[:len(s.GetSets)-1]

	case hostabi.SlotMembers:
		if err := checkMemberTable(s.Members); err != nil {
			return err
		}
		ct.members = s.Members[:len(s.Members)-1]
		for _, m := range ct.members {
			switch cstr(m.Name) {
			case "__dictoffset__":
				ct.rec.DictOffset = m.Offset
			case "__weaklistoffset__":
				ct.rec.WeakListOffset = m.Offset
			}
		}

	default:
		// Generic protocol slot. Legacy builds silently drop the buffer
		// protocol here; the pointers then only reach the type through
		// the post-creation patcher.
		if s.ID == hostabi.SlotGetBuffer || s.ID == hostabi.SlotReleaseBuffer {
			if !r.IgnoreBufferSlots {
				ct.proto[s.ID] = s.Func
				if s.ID == hostabi.SlotGetBuffer {
					ct.rec.GetBuffer = s.Func
				} else {
					ct.rec.ReleaseBuffer = s.Func
				}
			}
			return nil
		}
		ct.proto[s.ID] = s.Func
	}
	return nil
}

// specName decodes and validates the qualified type name.
func specName(raw []byte) (string, error) {
	if len(raw) == 0 || raw[len(raw)-1] != 0 {
		return "", fmt.Errorf("memhost: type name is not NUL-terminated")
	}
	name := string(raw[:len(raw)-1])
	if name == "" {
		return "", fmt.Errorf("memhost: empty type name")
	}
	if bytes.IndexByte(raw[:len(raw)-1], 0) >= 0 {
		return "", fmt.Errorf("memhost: type name contains interior NUL")
	}
	if !strings.Contains(name, ".") {
		return "", fmt.Errorf("memhost: type name %q is not module-qualified", name)
	}
	return name, nil
}

func checkMethodTable(table []hostabi.MethodEntry) error {
	if len(table) < 2 {
		return fmt.Errorf("method table must be omitted when empty")
	}
	if !table[len(table)-1].IsSentinel() {
		return fmt.Errorf("method table is not sentinel-terminated")
	}
	for i, e := range table[:len(table)-1] {
		if e.IsSentinel() {
			return fmt.Errorf("method table has interior sentinel at %d", i)
		}
		if err := checkCString("method name", e.Name); err != nil {
			return err
		}
		if e.Func == 0 {
			return fmt.Errorf("method %s carries no function", cstr(e.Name))
		}
	}
	return nil
}

func checkGetSetTable(table []hostabi.GetSetEntry) error {
	if len(table) < 2 {
		return fmt.Errorf("getset table must be omitted when empty")
	}
	if !table[len(table)-1].IsSentinel() {
		return fmt.Errorf("getset table is not sentinel-terminated")
	}
	for i, e := range table[:len(table)-1] {
		if e.IsSentinel() {
			return fmt.Errorf("getset table has interior sentinel at %d", i)
		}
		if err := checkCString("property name", e.Name); err != nil {
			return err
		}
		if e.Get == 0 && e.Set == 0 {
			return fmt.Errorf("property %s has neither accessor", cstr(e.Name))
		}
	}
	return nil
}

func checkMemberTable(table []hostabi.MemberEntry) error {
	if len(table) < 2 {
		return fmt.Errorf("member table must be omitted when empty")
	}
	if !table[len(table)-1].IsSentinel() {
		return fmt.Errorf("member table is not sentinel-terminated")
	}
	for i, e := range table[:len(table)-1] {
		if e.IsSentinel() {
			return fmt.Errorf("member table has interior sentinel at %d", i)
		}
		if err := checkCString("member name", e.Name); err != nil {
			return err
		}
	}
	return nil
}

func checkCString(what string, raw []byte) error {
	if len(raw) == 0 || raw[len(raw)-1] != 0 {
		return fmt.Errorf("%s is not NUL-terminated", what)
	}
	if bytes.IndexByte(raw[:len(raw)-1], 0) >= 0 {
		return fmt.Errorf("%s contains interior NUL", what)
	}
	return nil
}

// cstr decodes a NUL-terminated buffer for diagnostics.
func cstr(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		return string(raw[:i])
	}
	return string(raw)
}
