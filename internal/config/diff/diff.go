// Package diff computes per-key change records between a pre-parse
// snapshot and the freshly parsed store.
//
// One record is produced for every (block, key) pair present in either
// side, including pairs whose value did not change, so observers see
// every key on every parse pass.
package diff

import (
	"github.com/dshills/blockconf/internal/config/store"
	"github.com/dshills/blockconf/internal/config/value"
)

// ChangeRecord describes one (block, key) pair across a parse pass.
// A nil Old means the key was added; a nil New means it was removed.
// They are never both nil.
type ChangeRecord struct {
	Block store.BlockID
	Key   string
	Old   *value.Value
	New   *value.Value
}

// Changed reports whether the old and new values differ, treating
// absence as different from any value.
func (r ChangeRecord) Changed() bool {
	if r.Old == nil || r.New == nil {
		return r.Old != r.New
	}
	return !r.Old.Equal(*r.New)
}

// Compute compares the pre-parse snapshot against the current store and
// returns one record per (block, key) pair in the union of both.
//
// Order is deterministic: blocks in new-store header order, each with
// its new keys in definition order followed by keys that existed only
// in the snapshot, then blocks absent from the new store in snapshot
// order.
func Compute(old store.Snapshot, cur *store.Store) []ChangeRecord {
	var records []ChangeRecord

	for _, id := range cur.Blocks() {
		seen := make(map[string]bool)
		for _, key := range cur.KeysOf(id) {
			seen[key] = true
			records = append(records, record(old, cur, id, key))
		}
		// Keys removed from a surviving block.
		for _, key := range old.Keys(id) {
			if !seen[key] {
				records = append(records, record(old, cur, id, key))
			}
		}
	}

	// Blocks that disappeared entirely.
	for _, id := range old.Blocks() {
		if _, ok := cur.Block(id); ok {
			continue
		}
		for _, key := range old.Keys(id) {
			records = append(records, record(old, cur, id, key))
		}
	}

	return records
}

func record(old store.Snapshot, cur *store.Store, id store.BlockID, key string) ChangeRecord {
	rec := ChangeRecord{Block: id, Key: key}
	if v, ok := old.Get(id, key); ok {
		rec.Old = &v
	}
	if v, ok := cur.Get(id, key); ok {
		rec.New = &v
	}
	return rec
}
