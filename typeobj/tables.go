package typeobj

import (
	"fmt"

	"github.com/chazu/extclass/arena"
	"github.com/chazu/extclass/hostabi"
)

// ---------------------------------------------------------------------------
// Method table
// ---------------------------------------------------------------------------

// methodTable flattens the callable method kinds (instance/class/static)
// into the host's raw method-definition table, in descriptor order. The
// table is terminated by an all-zero sentinel iff it is non-empty; an empty
// table is omitted from the slot list entirely.
func methodTable(defs []MethodDef) []hostabi.MethodEntry {
	var table []hostabi.MethodEntry
	for _, d := range defs {
		switch d.Kind {
		case MethodKindInstance, MethodKindClass, MethodKindStatic:
			table = append(table, d.methodEntry())
		}
	}
	if len(table) > 0 {
		table = append(table, hostabi.MethodEntry{})
	}
	return table
}

// methodEntry converts one callable definition to the host ABI
// representation. A definition that cannot be converted is a malformed
// descriptor — a defect in the producer, so conversion failure panics.
func (d MethodDef) methodEntry() hostabi.MethodEntry {
	if d.Name == "" {
		panic("typeobj: method definition with empty name")
	}
	if d.Func == 0 {
		panic(fmt.Sprintf("typeobj: method %s has no function pointer", d.Name))
	}
	flags := d.Flags
	switch d.Kind {
	case MethodKindClass:
		flags |= hostabi.MethClass
	case MethodKindStatic:
		flags |= hostabi.MethStatic
	}
	e := hostabi.MethodEntry{
		Name:  arena.Global.CString(d.Name),
		Func:  d.Func,
		Flags: flags,
	}
	if d.Doc != "" {
		e.Doc = arena.Global.CString(d.Doc)
	}
	return e
}

// ---------------------------------------------------------------------------
// Property table
// ---------------------------------------------------------------------------

// getSetTable merges getter and setter definitions sharing a name into
// single property entries. isDictDummy is true when the class has no
// instance dictionary; otherwise a __dict__ property backed by the host's
// generic accessors is synthesized when the capability profile has them.
// Sentinel-terminated iff non-empty.
func getSetTable(rt hostabi.Runtime, caps hostabi.Capabilities, isDictDummy bool, defs []MethodDef) []hostabi.GetSetEntry {
	var (
		table []hostabi.GetSetEntry
		index = make(map[string]int)
	)

	// Later definitions overwrite individual fields of the entry sharing
	// their name, never the whole entry.
	slot := func(name string) *hostabi.GetSetEntry {
		i, ok := index[name]
		if !ok {
			i = len(table)
			index[name] = i
			table = append(table, hostabi.GetSetEntry{Name: arena.Global.CString(name)})
		}
		return &table[i]
	}

	for _, d := range defs {
		switch d.Kind {
		case MethodKindGetter:
			e := slot(d.Name)
			e.Get = d.Func
			if d.Doc != "" {
				e.Doc = arena.Global.CString(d.Doc)
			}
		case MethodKindSetter:
			e := slot(d.Name)
			e.Set = d.Func
			if d.Doc != "" {
				e.Doc = arena.Global.CString(d.Doc)
			}
		}
	}

	if !isDictDummy && caps.GenericDictAccessors {
		table = append(table, hostabi.GetSetEntry{
			Name: arena.Global.CString("__dict__"),
			Get:  rt.GenericGetDict(),
			Set:  rt.GenericSetDict(),
		})
	}

	if len(table) > 0 {
		table = append(table, hostabi.GetSetEntry{})
	}
	return table
}

// ---------------------------------------------------------------------------
// Member table
// ---------------------------------------------------------------------------

// memberTable emits read-only offset descriptors for the dict and
// weak-reference list fields. Only capability profiles with slot-based
// member registration take this path; elsewhere the offsets are applied by
// the post-creation patcher. Sentinel-terminated iff non-empty.
func memberTable(caps hostabi.Capabilities, dictOffset, weakListOffset *int) []hostabi.MemberEntry {
	if !caps.SlotMembers {
		return nil
	}

	offsetEntry := func(name string, offset int) hostabi.MemberEntry {
		return hostabi.MemberEntry{
			Name:     arena.Global.CString(name),
			TypeCode: hostabi.MemberTypeSSizeT,
			Offset:   offset,
			Flags:    hostabi.MemberFlagReadOnly,
		}
	}

	var table []hostabi.MemberEntry
	if dictOffset != nil {
		table = append(table, offsetEntry("__dictoffset__", *dictOffset))
	}
	if weakListOffset != nil {
		table = append(table, offsetEntry("__weaklistoffset__", *weakListOffset))
	}
	if len(table) > 0 {
		table = append(table, hostabi.MemberEntry{})
	}
	return table
}
