// Package export renders a parsed store as TOML or JSON for tooling
// and interop.
//
// Blocks keep their wire addressing: the unnamed block of a type is the
// top-level key "type", a named block is "type/name".
package export

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/sjson"

	"github.com/dshills/blockconf/internal/config/store"
)

// TOML renders the store as a TOML document with one table per block.
func TOML(s *store.Store) ([]byte, error) {
	doc := make(map[string]any, s.Len())
	for _, id := range s.Blocks() {
		table := make(map[string]any)
		for _, key := range s.KeysOf(id) {
			v, _ := s.Get(id, key)
			table[key] = v.Interface()
		}
		doc[id.String()] = table
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("rendering TOML: %w", err)
	}
	return out, nil
}

// JSON renders the store as a JSON object with one member per block,
// built path by path so key order follows the store.
func JSON(s *store.Store) ([]byte, error) {
	doc := []byte("{}")
	var err error

	for _, id := range s.Blocks() {
		block := id.String()
		keys := s.KeysOf(id)
		if len(keys) == 0 {
			doc, err = sjson.SetRawBytes(doc, escapePath(block), []byte("{}"))
			if err != nil {
				return nil, fmt.Errorf("rendering JSON block %s: %w", block, err)
			}
			continue
		}
		for _, key := range keys {
			v, _ := s.Get(id, key)
			path := escapePath(block) + "." + escapePath(key)
			doc, err = sjson.SetBytes(doc, path, v.Interface())
			if err != nil {
				return nil, fmt.Errorf("rendering JSON key %s.%s: %w", block, key, err)
			}
		}
	}

	return doc, nil
}

// escapePath escapes sjson path metacharacters in one path segment.
// Identifiers cannot contain them today; this guards the few that
// could sneak in through future grammar changes.
func escapePath(seg string) string {
	out := make([]byte, 0, len(seg))
	for i := 0; i < len(seg); i++ {
		switch seg[i] {
		case '.', '*', '?', '\\', '|', '#', '@':
			out = append(out, '\\')
		}
		out = append(out, seg[i])
	}
	return string(out)
}
