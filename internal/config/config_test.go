package config

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/dshills/blockconf/internal/config/loader"
	"github.com/dshills/blockconf/internal/config/notify"
	"github.com/dshills/blockconf/internal/config/store"
	"github.com/dshills/blockconf/internal/config/value"
	"github.com/dshills/blockconf/internal/event"
)

const sampleConf = `
[ someBlock ]
someKey = "some string"
otherKey = 12
`

func newTestConfig(t *testing.T, contents string, opts ...Option) (*Config, *loader.MemFS) {
	t.Helper()
	fs := loader.NewMemFS()
	fs.WriteFile("app.conf", []byte(contents))

	opts = append([]Option{WithFileSystem(fs)}, opts...)
	cfg := New("app.conf", opts...)
	t.Cleanup(cfg.Close)
	return cfg, fs
}

func TestConfig_EndToEnd(t *testing.T) {
	cfg, _ := newTestConfig(t, sampleConf)
	if err := cfg.Rehash(); err != nil {
		t.Fatalf("Rehash() error: %v", err)
	}

	id := store.Unnamed("someBlock")
	if v, ok := cfg.Get(id, "someKey"); !ok || !v.Equal(value.String("some string")) {
		t.Errorf("Get(someKey) = %v, %v", v, ok)
	}
	if v, ok := cfg.Get(id, "otherKey"); !ok || !v.Equal(value.Int(12)) {
		t.Errorf("Get(otherKey) = %v, %v", v, ok)
	}
	if keys := cfg.KeysOf(id); !reflect.DeepEqual(keys, []string{"someKey", "otherKey"}) {
		t.Errorf("KeysOf = %v", keys)
	}
	if _, ok := cfg.Get(id, "missing"); ok {
		t.Error("Get(missing) should report absent")
	}
	if _, ok := cfg.Get(store.Unnamed("noSuchBlock"), "someKey"); ok {
		t.Error("Get on absent block should report absent")
	}
}

func TestConfig_RehashTwiceFiresUnchangedEvents(t *testing.T) {
	cfg, _ := newTestConfig(t, sampleConf)

	type fired struct {
		event    string
		old, new *value.Value
	}
	var events []fired
	bus, _ := cfg.Sink().(*event.Bus)
	bus.Tap(func(name string, old, new *value.Value) {
		events = append(events, fired{name, old, new})
	})

	if err := cfg.Rehash(); err != nil {
		t.Fatalf("first Rehash() error: %v", err)
	}
	events = nil

	if err := cfg.Rehash(); err != nil {
		t.Fatalf("second Rehash() error: %v", err)
	}

	// One event per existing pair, each with old == new.
	want := []string{"change:someBlock:someKey", "change:someBlock:otherKey"}
	var names []string
	for _, e := range events {
		names = append(names, e.event)
		if e.old == nil || e.new == nil {
			t.Errorf("%s: absent value on unchanged pair", e.event)
			continue
		}
		if !e.old.Equal(*e.new) {
			t.Errorf("%s: old %s != new %s", e.event, e.old, e.new)
		}
	}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("events = %v, want %v", names, want)
	}
}

func TestConfig_OnChange(t *testing.T) {
	cfg, fs := newTestConfig(t, sampleConf)

	var old, new *value.Value
	calls := 0
	err := cfg.OnChange(store.Unnamed("someBlock"), "otherKey",
		func(o, n *value.Value) error {
			calls++
			old, new = o, n
			return nil
		})
	if err != nil {
		t.Fatalf("OnChange() error: %v", err)
	}

	if err := cfg.Rehash(); err != nil {
		t.Fatalf("Rehash() error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if old != nil {
		t.Errorf("first parse old = %v, want nil", old)
	}
	if new == nil || !new.Equal(value.Int(12)) {
		t.Errorf("first parse new = %v, want 12", new)
	}

	fs.WriteFile("app.conf", []byte("[someBlock]\nsomeKey = \"some string\"\notherKey = 13\n"))
	if err := cfg.Rehash(); err != nil {
		t.Fatalf("Rehash() error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
	if old == nil || !old.Equal(value.Int(12)) {
		t.Errorf("old = %v, want 12", old)
	}
	if new == nil || !new.Equal(value.Int(13)) {
		t.Errorf("new = %v, want 13", new)
	}
}

func TestConfig_KeyRemoval(t *testing.T) {
	cfg, fs := newTestConfig(t, sampleConf)

	var removals []*value.Value
	cfg.OnChange(store.Unnamed("someBlock"), "otherKey",
		func(o, n *value.Value) error {
			removals = append(removals, n)
			return nil
		})

	if err := cfg.Rehash(); err != nil {
		t.Fatalf("Rehash() error: %v", err)
	}

	fs.WriteFile("app.conf", []byte("[someBlock]\nsomeKey = \"some string\"\n"))
	if err := cfg.Rehash(); err != nil {
		t.Fatalf("Rehash() error: %v", err)
	}

	if len(removals) != 2 {
		t.Fatalf("callback ran %d times, want 2", len(removals))
	}
	if removals[1] != nil {
		t.Errorf("removal event new = %v, want nil", removals[1])
	}
	if _, ok := cfg.Get(store.Unnamed("someBlock"), "otherKey"); ok {
		t.Error("Get after removal should report absent")
	}
}

func TestConfig_NamedBlocks(t *testing.T) {
	cfg, _ := newTestConfig(t, `
[cookies: sugar]
type = 'crunchy'

[cookies: chocolate]
type = 'chewy'
`)
	if err := cfg.Rehash(); err != nil {
		t.Fatalf("Rehash() error: %v", err)
	}

	if names := cfg.NamesOf("cookies"); !reflect.DeepEqual(names, []string{"sugar", "chocolate"}) {
		t.Errorf("NamesOf = %v", names)
	}
	if v, ok := cfg.Get(store.Named("cookies", "sugar"), "type"); !ok || !v.Equal(value.String("crunchy")) {
		t.Errorf("sugar = %v, %v", v, ok)
	}
	if v, ok := cfg.Get(store.Named("cookies", "chocolate"), "type"); !ok || !v.Equal(value.String("chewy")) {
		t.Errorf("chocolate = %v, %v", v, ok)
	}
}

func TestConfig_AbortedPassKeepsOldStore(t *testing.T) {
	cfg, fs := newTestConfig(t, sampleConf)
	if err := cfg.Rehash(); err != nil {
		t.Fatalf("Rehash() error: %v", err)
	}

	var fired int
	bus, _ := cfg.Sink().(*event.Bus)
	bus.Tap(func(name string, old, new *value.Value) { fired++ })

	fs.WriteFile("app.conf", []byte("[someBlock]\nfoo = [1,2\n"))
	err := cfg.Rehash()
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("Rehash() = %v, want ErrSyntax", err)
	}

	// Old values still visible; nothing fired for the aborted pass.
	if v, ok := cfg.Get(store.Unnamed("someBlock"), "someKey"); !ok || !v.Equal(value.String("some string")) {
		t.Errorf("Get after aborted pass = %v, %v", v, ok)
	}
	if v, ok := cfg.Get(store.Unnamed("someBlock"), "otherKey"); !ok || !v.Equal(value.Int(12)) {
		t.Errorf("Get after aborted pass = %v, %v", v, ok)
	}
	if fired != 0 {
		t.Errorf("aborted pass fired %d events", fired)
	}
}

func TestConfig_SourceUnreadable(t *testing.T) {
	fs := loader.NewMemFS()
	cfg := New("missing.conf", WithFileSystem(fs))
	defer cfg.Close()

	err := cfg.Rehash()
	if !errors.Is(err, ErrSourceUnreadable) {
		t.Errorf("Rehash() = %v, want ErrSourceUnreadable", err)
	}
}

func TestConfig_ListenerErrorPropagates(t *testing.T) {
	cfg, _ := newTestConfig(t, sampleConf)

	boom := errors.New("boom")
	cfg.OnChange(store.Unnamed("someBlock"), "someKey",
		func(o, n *value.Value) error { return boom })

	err := cfg.Rehash()
	if !errors.Is(err, boom) {
		t.Errorf("Rehash() = %v, want listener error", err)
	}

	// The parse itself succeeded, so the new store is installed.
	if _, ok := cfg.Get(store.Unnamed("someBlock"), "someKey"); !ok {
		t.Error("store not installed after listener failure")
	}
}

func TestConfig_OnChangeOptionsPassThrough(t *testing.T) {
	cfg, _ := newTestConfig(t, sampleConf)

	var order []string
	record := func(tag string) notify.Handler {
		return func(o, n *value.Value) error {
			order = append(order, tag)
			return nil
		}
	}

	id := store.Unnamed("someBlock")
	cfg.OnChange(id, "someKey", record("low"), notify.Option(event.WithPriority(event.PriorityLow)))
	cfg.OnChange(id, "someKey", record("critical"), notify.Option(event.WithPriority(event.PriorityCritical)))
	cfg.OnChange(id, "someKey", record("dup"), notify.Option(event.WithName("shared")))
	cfg.OnChange(id, "someKey", record("dedup"), notify.Option(event.WithName("shared")))

	if err := cfg.Rehash(); err != nil {
		t.Fatalf("Rehash() error: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"critical", "dedup", "low"}) {
		t.Errorf("order = %v", order)
	}
}

func TestConfig_SharedStore(t *testing.T) {
	shared := store.New()
	cfg, _ := newTestConfig(t, sampleConf, WithStore(shared))

	if err := cfg.Rehash(); err != nil {
		t.Fatalf("Rehash() error: %v", err)
	}

	// The collaborator holding the shared store sees the parse results.
	if v, ok := shared.Get(store.Unnamed("someBlock"), "otherKey"); !ok || !v.Equal(value.Int(12)) {
		t.Errorf("shared store Get = %v, %v", v, ok)
	}
}

func TestConfig_RangeValues(t *testing.T) {
	cfg, _ := newTestConfig(t, `
[ranges]
letters = 'a'..'e'
countdown = 5..1
ports = [8000..8002]
`)
	if err := cfg.Rehash(); err != nil {
		t.Fatalf("Rehash() error: %v", err)
	}

	id := store.Unnamed("ranges")
	letters, _ := cfg.Get(id, "letters")
	want := value.List(value.String("a"), value.String("b"), value.String("c"), value.String("d"), value.String("e"))
	if !letters.Equal(want) {
		t.Errorf("letters = %s, want %s", letters, want)
	}

	countdown, _ := cfg.Get(id, "countdown")
	if !countdown.Equal(value.List(value.Int(5), value.Int(4), value.Int(3), value.Int(2), value.Int(1))) {
		t.Errorf("countdown = %s", countdown)
	}

	ports, _ := cfg.Get(id, "ports")
	if !ports.Equal(value.List(value.Int(8000), value.Int(8001), value.Int(8002))) {
		t.Errorf("ports = %s", ports)
	}
}

func TestConfig_Export(t *testing.T) {
	cfg, _ := newTestConfig(t, sampleConf)
	if err := cfg.Rehash(); err != nil {
		t.Fatalf("Rehash() error: %v", err)
	}

	jsonDoc, err := cfg.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	if len(jsonDoc) == 0 || jsonDoc[0] != '{' {
		t.Errorf("ExportJSON() = %s", jsonDoc)
	}

	tomlDoc, err := cfg.ExportTOML()
	if err != nil {
		t.Fatalf("ExportTOML() error: %v", err)
	}
	if len(tomlDoc) == 0 {
		t.Error("ExportTOML() returned empty document")
	}
}

func TestConfig_WatcherRehashes(t *testing.T) {
	fs := loader.NewMemFS()
	fs.WriteFile("app.conf", []byte("[b]\nk = 1\n"))

	cfg := New("app.conf",
		WithFileSystem(fs),
		WithWatcher(true),
		WithPollInterval(10*time.Millisecond))
	defer cfg.Close()

	if err := cfg.Rehash(); err != nil {
		t.Fatalf("Rehash() error: %v", err)
	}

	fs.WriteFile("app.conf", []byte("[b]\nk = 2\n"))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v, ok := cfg.Get(store.Unnamed("b"), "k"); ok && v.Equal(value.Int(2)) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("watcher did not trigger a rehash")
}
