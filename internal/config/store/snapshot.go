package store

import (
	"github.com/dshills/blockconf/internal/config/value"
)

// Snapshot is an immutable copy of a store's contents, taken before a
// parse pass so the diff engine can compare against the new store.
type Snapshot struct {
	order  []BlockID
	blocks map[BlockID]snapBlock
}

type snapBlock struct {
	keys []string
	vals map[string]value.Value
}

// Snapshot copies the store's current contents.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		order:  make([]BlockID, len(s.order)),
		blocks: make(map[BlockID]snapBlock, len(s.blocks)),
	}
	copy(snap.order, s.order)

	for id, b := range s.blocks {
		sb := snapBlock{
			keys: make([]string, len(b.keys)),
			vals: make(map[string]value.Value, len(b.vals)),
		}
		copy(sb.keys, b.keys)
		for k, v := range b.vals {
			sb.vals[k] = v
		}
		snap.blocks[id] = sb
	}
	return snap
}

// Blocks returns the snapshot's block identifiers in first-header order.
func (sn Snapshot) Blocks() []BlockID {
	ids := make([]BlockID, len(sn.order))
	copy(ids, sn.order)
	return ids
}

// Has returns true if the snapshot contains the identified block.
func (sn Snapshot) Has(id BlockID) bool {
	_, ok := sn.blocks[id]
	return ok
}

// Keys returns the identified block's keys in first-definition order,
// or nil if the block is not in the snapshot.
func (sn Snapshot) Keys(id BlockID) []string {
	sb, ok := sn.blocks[id]
	if !ok {
		return nil
	}
	keys := make([]string, len(sb.keys))
	copy(keys, sb.keys)
	return keys
}

// Get returns the value for key in the identified block, or false if
// the block or key is not in the snapshot.
func (sn Snapshot) Get(id BlockID, key string) (value.Value, bool) {
	sb, ok := sn.blocks[id]
	if !ok {
		return value.Value{}, false
	}
	v, ok := sb.vals[key]
	return v, ok
}
