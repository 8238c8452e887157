package typeobj

import "github.com/chazu/extclass/hostabi"

// collectedSlots is the result of walking a descriptor's protocol slots.
type collectedSlots struct {
	// slots are the pass-through protocol slots, in descriptor order.
	slots []hostabi.Slot

	// hasGCMethods is true iff any slot implements the traverse/clear
	// protocol; it feeds the GC flag calculation.
	hasGCMethods bool

	// buffer holds buffer-protocol pointers intercepted for the
	// post-creation patcher. Only populated on capability profiles where
	// the slot table silently ignores buffer slots.
	buffer hostabi.BufferProcs
}

// collectProtoSlots walks the protocol-slot overrides. All slots pass
// through unchanged; traverse/clear presence and (when the profile needs
// manual buffer patching) the buffer-protocol pointers are noted along the
// way.
func collectProtoSlots(caps hostabi.Capabilities, protoSlots []hostabi.Slot) collectedSlots {
	var c collectedSlots
	for _, s := range protoSlots {
		if s.ID == hostabi.SlotTraverse || s.ID == hostabi.SlotClear {
			c.hasGCMethods = true
		}
		if caps.ManualBufferPatch {
			switch s.ID {
			case hostabi.SlotGetBuffer:
				c.buffer.GetBuffer = s.Func
			case hostabi.SlotReleaseBuffer:
				c.buffer.ReleaseBuffer = s.Func
			}
		}
		c.slots = append(c.slots, s)
	}
	return c
}

// typeFlags derives the final flag bitmask. Total function of its inputs;
// no error path.
func typeFlags(hasGCMethods, isGC, isBaseType bool) uint32 {
	flags := hostabi.FlagDefault
	if hasGCMethods || isGC {
		flags |= hostabi.FlagHaveGC
	}
	if isBaseType {
		flags |= hostabi.FlagBaseType
	}
	return flags
}
