package typeobj

import (
	"testing"

	"github.com/chazu/extclass/hostabi"
	"github.com/chazu/extclass/memhost"
)

// ---------------------------------------------------------------------------
// Post-creation patcher tests
// ---------------------------------------------------------------------------

func TestPatchReplacesStrippedDoc(t *testing.T) {
	rt := memhost.New()
	rt.StripDocSignatures = true

	const doc = "Point(x, y)\n--\n\nA point in the plane."
	d := pointDescriptor()
	d.Doc = doc

	CreateType(rt, legacyCaps, d)

	rec := rt.Type("builtins.Point")
	if got := string(rec.Doc); got != doc+"\x00" {
		t.Errorf("patched doc = %q, want exact copy of supplied text", got)
	}
	// The host's stripped buffer was freed; only the replacement remains.
	if n := rt.LiveBuffers(); n != 1 {
		t.Errorf("live host buffers = %d, want 1", n)
	}
}

func TestNoDocPatchOnModernHost(t *testing.T) {
	rt := memhost.New()
	rt.StripDocSignatures = false

	const doc = "A point in the plane."
	d := pointDescriptor()
	d.Doc = doc

	CreateType(rt, modernCaps, d)

	// The host's own buffer is kept; no replacement happens.
	rec := rt.Type("builtins.Point")
	if got := string(rec.Doc); got != doc+"\x00" {
		t.Errorf("doc = %q, want host-generated copy", got)
	}
	if n := rt.LiveBuffers(); n != 1 {
		t.Errorf("live host buffers = %d, want 1 (host's own)", n)
	}
}

func TestPatchInstallsBufferProcs(t *testing.T) {
	rt := memhost.New()
	rt.IgnoreBufferSlots = true // legacy host drops buffer slots

	d := pointDescriptor()
	d.ProtoSlots = []hostabi.Slot{
		hostabi.FuncSlot(hostabi.SlotGetBuffer, 31),
		hostabi.FuncSlot(hostabi.SlotReleaseBuffer, 32),
	}

	CreateType(rt, legacyCaps, d)

	rec := rt.Type("builtins.Point")
	if rec.GetBuffer != 31 || rec.ReleaseBuffer != 32 {
		t.Errorf("buffer procs = (%d, %d), want patched (31, 32)",
			rec.GetBuffer, rec.ReleaseBuffer)
	}
}

func TestBufferSlotsDirectOnModernHost(t *testing.T) {
	rt := memhost.New()

	d := pointDescriptor()
	d.ProtoSlots = []hostabi.Slot{
		hostabi.FuncSlot(hostabi.SlotGetBuffer, 31),
		hostabi.FuncSlot(hostabi.SlotReleaseBuffer, 32),
	}

	CreateType(rt, modernCaps, d)

	rec := rt.Type("builtins.Point")
	if rec.GetBuffer != 31 || rec.ReleaseBuffer != 32 {
		t.Errorf("buffer procs = (%d, %d), want slot-registered (31, 32)",
			rec.GetBuffer, rec.ReleaseBuffer)
	}
}

func TestPatchWritesOffsetsWithoutMemberTable(t *testing.T) {
	rt := memhost.New()
	dict, weak := 16, 24

	d := pointDescriptor()
	d.DictOffset = &dict
	d.WeakListOffset = &weak

	CreateType(rt, legacyCaps, d)

	rec := rt.Type("builtins.Point")
	if rec.DictOffset != 16 || rec.WeakListOffset != 24 {
		t.Errorf("offsets = (%d, %d), want patched (16, 24)",
			rec.DictOffset, rec.WeakListOffset)
	}
}

func TestMemberTableSetsOffsetsOnModernHost(t *testing.T) {
	rt := memhost.New()
	dict, weak := 16, 24

	d := pointDescriptor()
	d.DictOffset = &dict
	d.WeakListOffset = &weak

	CreateType(rt, modernCaps, d)

	rec := rt.Type("builtins.Point")
	if rec.DictOffset != 16 || rec.WeakListOffset != 24 {
		t.Errorf("offsets = (%d, %d), want member-table (16, 24)",
			rec.DictOffset, rec.WeakListOffset)
	}
	_, _, members, _ := rt.TypeMeta("builtins.Point")
	if len(members) != 2 {
		t.Errorf("host sees %d members, want 2", len(members))
	}
}
