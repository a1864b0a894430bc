// Package store provides the in-memory configuration store.
//
// A store maps block identifiers to blocks of key/value entries. Both
// the store and each block preserve first-definition order so queries
// and change notification are deterministic. The store performs no
// locking of its own; the owning Config serializes access.
package store

import (
	"github.com/dshills/blockconf/internal/config/value"
)

// BlockID identifies a block by type and optional name.
// An empty Name denotes the unnamed block of a type, which is distinct
// from every named block of the same type.
type BlockID struct {
	Type string
	Name string
}

// Unnamed returns the identifier for the unnamed block of a type.
func Unnamed(typ string) BlockID {
	return BlockID{Type: typ}
}

// Named returns the identifier for a named block.
func Named(typ, name string) BlockID {
	return BlockID{Type: typ, Name: name}
}

// IsNamed returns true if the identifier refers to a named block.
func (id BlockID) IsNamed() bool {
	return id.Name != ""
}

// String returns "type" for unnamed blocks and "type/name" for named
// blocks. This form is also used in event names and exports.
func (id BlockID) String() string {
	if id.Name == "" {
		return id.Type
	}
	return id.Type + "/" + id.Name
}

// Block is an ordered mapping from key to value.
type Block struct {
	id   BlockID
	keys []string
	vals map[string]value.Value
}

// NewBlock creates an empty block with the given identifier.
func NewBlock(id BlockID) *Block {
	return &Block{
		id:   id,
		vals: make(map[string]value.Value),
	}
}

// ID returns the block's identifier.
func (b *Block) ID() BlockID {
	return b.id
}

// Set stores a value under key, overwriting any previous value.
// The key keeps its first-definition position.
func (b *Block) Set(key string, v value.Value) {
	if _, ok := b.vals[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.vals[key] = v
}

// Get returns the value for key, or false if the key is not defined.
func (b *Block) Get(key string) (value.Value, bool) {
	v, ok := b.vals[key]
	return v, ok
}

// Keys returns the block's keys in first-definition order.
func (b *Block) Keys() []string {
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	return keys
}

// Len returns the number of keys in the block.
func (b *Block) Len() int {
	return len(b.keys)
}

// Store maps block identifiers to blocks, in first-header order.
type Store struct {
	order  []BlockID
	blocks map[BlockID]*Block
}

// New creates an empty store.
func New() *Store {
	return &Store{
		blocks: make(map[BlockID]*Block),
	}
}

// Open returns the block for id, creating it if necessary.
// A created block is appended to the store's block order.
func (s *Store) Open(id BlockID) *Block {
	if b, ok := s.blocks[id]; ok {
		return b
	}
	b := NewBlock(id)
	s.blocks[id] = b
	s.order = append(s.order, id)
	return b
}

// Block returns the block for id, or false if it does not exist.
func (s *Store) Block(id BlockID) (*Block, bool) {
	b, ok := s.blocks[id]
	return b, ok
}

// Get returns the value for key in the identified block.
// Returns false if the block or the key does not exist.
func (s *Store) Get(id BlockID, key string) (value.Value, bool) {
	b, ok := s.blocks[id]
	if !ok {
		return value.Value{}, false
	}
	return b.Get(key)
}

// NamesOf returns the names of all named blocks of the given type, in
// first-header order. The unnamed block of the type is not included.
func (s *Store) NamesOf(typ string) []string {
	var names []string
	for _, id := range s.order {
		if id.Type == typ && id.IsNamed() {
			names = append(names, id.Name)
		}
	}
	return names
}

// KeysOf returns the keys of the identified block in first-definition
// order, or an empty slice if the block does not exist.
func (s *Store) KeysOf(id BlockID) []string {
	b, ok := s.blocks[id]
	if !ok {
		return nil
	}
	return b.Keys()
}

// Blocks returns the block identifiers in first-header order.
func (s *Store) Blocks() []BlockID {
	ids := make([]BlockID, len(s.order))
	copy(ids, s.order)
	return ids
}

// Len returns the number of blocks in the store.
func (s *Store) Len() int {
	return len(s.order)
}

// Adopt replaces the store's contents with those of src.
// The store's identity is preserved so collaborators holding a
// reference observe the new contents.
func (s *Store) Adopt(src *Store) {
	s.order = src.order
	s.blocks = src.blocks
}
