package typeobj

import "github.com/chazu/extclass/hostabi"

// patchCreatedType performs the direct field patches that legacy capability
// profiles require after creation. It is the one place in extclass that
// writes into a live, host-owned type object; everything it touches goes
// through the TypeRecord the runtime exposes for the handle. It must run
// after creation succeeds and before the handle is returned to any caller.
//
// On profiles where slot-based construction is fully sufficient this is a
// no-op.
func (b *Builder) patchCreatedType(h hostabi.TypeHandle, d *ClassDescriptor, docBuf []byte, procs hostabi.BufferProcs) {
	caps := b.caps
	if !caps.ManualDocPatch && !caps.ManualBufferPatch && caps.SlotMembers {
		return
	}

	rec := b.rt.TypeRecord(h)

	if caps.ManualDocPatch && docBuf != nil {
		// The host strips annotations when it generates the doc buffer
		// itself. Free its buffer and install an exact copy of the
		// supplied text, trailing NUL included.
		b.rt.FreeBuffer(rec.Doc)
		buf := b.rt.AllocBuffer(len(docBuf))
		copy(buf, docBuf)
		rec.Doc = buf
	}

	if caps.ManualBufferPatch {
		// Buffer-protocol slots were silently ignored by the slot table;
		// install the intercepted pointers directly.
		rec.GetBuffer = procs.GetBuffer
		rec.ReleaseBuffer = procs.ReleaseBuffer
	}

	if !caps.SlotMembers {
		// No member-table mechanism; write the offsets onto the type.
		if d.DictOffset != nil {
			rec.DictOffset = *d.DictOffset
		}
		if d.WeakListOffset != nil {
			rec.WeakListOffset = *d.WeakListOffset
		}
	}
}
