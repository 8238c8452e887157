package registry

import (
	"fmt"
	"sort"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Snapshots use CBOR canonical mode for deterministic encoding: encoding
// the same registry content twice yields identical bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("registry: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// SnapshotEntry is the wire form of one registry entry. Handles are
// process-local pointers and are not exported.
type SnapshotEntry struct {
	ID      string    `cbor:"id"`
	Name    string    `cbor:"name"`
	Flags   uint32    `cbor:"flags"`
	Created time.Time `cbor:"created"`
}

// Snapshot serializes the registry to CBOR bytes, sorted by qualified name.
func (r *Registry) Snapshot() ([]byte, error) {
	entries := r.All()

	wire := make([]SnapshotEntry, 0, len(entries))
	for _, e := range entries {
		wire = append(wire, SnapshotEntry{
			ID:      e.ID,
			Name:    e.Name,
			Flags:   e.Flags,
			Created: e.Created,
		})
	}
	sort.Slice(wire, func(i, j int) bool { return wire[i].Name < wire[j].Name })

	data, err := cborEncMode.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("registry: marshal snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot deserializes snapshot bytes.
func DecodeSnapshot(data []byte) ([]SnapshotEntry, error) {
	var wire []SnapshotEntry
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("registry: unmarshal snapshot: %w", err)
	}
	return wire, nil
}
