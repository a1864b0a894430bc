// Package config provides the block-structured configuration system.
//
// A configuration file is line-oriented UTF-8 text made of block
// headers and key assignments:
//
//	# comment
//	[ someBlock ]
//	someKey = "some string"
//	otherKey = 12
//	ports = [8000..8003]
//
//	[ cookies: sugar ]
//	shape = 'round'
//
// A header opens the unnamed block of a type ("[someBlock]") or one of
// several named blocks ("[cookies: sugar]"). Values are typed literals:
// quoted strings, integers, floats, and flat lists with eager range
// expansion ('a'..'e', 5..1).
//
// # Rehash and change events
//
// Config.Rehash re-reads the source and rebuilds the store in one
// atomic pass. The previous contents are diffed against the new ones
// and one event per (block, key) pair fires through the event sink,
// including pairs whose value did not change, so listeners see every
// key on every pass. Event names are a stable wire format:
//
//	change:<type>:<key>          unnamed block
//	change:<type>/<name>:<key>   named block
//
// Any parse error aborts the whole pass: the previous store stays
// untouched and no events fire.
//
// # Basic usage
//
//	cfg := config.New("app.conf")
//	if err := cfg.Rehash(); err != nil {
//	    log.Fatal(err)
//	}
//
//	v, ok := cfg.Get(store.Unnamed("someBlock"), "someKey")
//	names := cfg.NamesOf("cookies")
//
//	cfg.OnChange(store.Unnamed("someBlock"), "someKey",
//	    func(old, new *value.Value) error {
//	        // nil pointer means the key was absent on that side
//	        return nil
//	    })
//
// # Sub-packages
//
//   - value/parser: tokenizing and evaluating the file format
//   - store: ordered block store, snapshots, accessors
//   - diff: per-key change records between parse passes
//   - notify: event naming and the sink capability interface
//   - loader: byte-source and file system abstraction
//   - watcher: polling file watcher for live reload
//   - export: TOML/JSON rendering of the store
package config
