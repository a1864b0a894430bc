package export

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"

	"github.com/dshills/blockconf/internal/config/store"
	"github.com/dshills/blockconf/internal/config/value"
)

func fixture() *store.Store {
	s := store.New()

	b := s.Open(store.Unnamed("someBlock"))
	b.Set("someKey", value.String("some string"))
	b.Set("otherKey", value.Int(12))
	b.Set("ratio", value.Float(1.5))
	b.Set("ports", value.List(value.Int(8000), value.Int(8001)))

	s.Open(store.Named("cookies", "sugar")).Set("shape", value.String("round"))
	s.Open(store.Named("cookies", "chocolate")).Set("shape", value.String("square"))
	return s
}

func TestJSON(t *testing.T) {
	doc, err := JSON(fixture())
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	tests := []struct {
		path string
		want string
	}{
		{"someBlock.someKey", "some string"},
		{"someBlock.otherKey", "12"},
		{"someBlock.ratio", "1.5"},
		{"someBlock.ports.0", "8000"},
		{"someBlock.ports.1", "8001"},
		{"cookies/sugar.shape", "round"},
		{"cookies/chocolate.shape", "square"},
	}

	for _, tt := range tests {
		res := gjson.GetBytes(doc, tt.path)
		if !res.Exists() {
			t.Errorf("path %q missing in %s", tt.path, doc)
			continue
		}
		if res.String() != tt.want {
			t.Errorf("path %q = %q, want %q", tt.path, res.String(), tt.want)
		}
	}

	if gjson.GetBytes(doc, "absent").Exists() {
		t.Error("unexpected top-level member")
	}
}

func TestJSON_EmptyStore(t *testing.T) {
	doc, err := JSON(store.New())
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if string(doc) != "{}" {
		t.Errorf("JSON(empty) = %s, want {}", doc)
	}
}

func TestJSON_EmptyBlock(t *testing.T) {
	s := store.New()
	s.Open(store.Unnamed("bare"))

	doc, err := JSON(s)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	res := gjson.GetBytes(doc, "bare")
	if !res.Exists() || !res.IsObject() {
		t.Errorf("bare block = %s", doc)
	}
}

func TestTOML(t *testing.T) {
	out, err := TOML(fixture())
	if err != nil {
		t.Fatalf("TOML() error: %v", err)
	}

	var doc map[string]map[string]any
	if err := toml.Unmarshal(out, &doc); err != nil {
		t.Fatalf("output is not valid TOML: %v\n%s", err, out)
	}

	if got := doc["someBlock"]["someKey"]; got != "some string" {
		t.Errorf("someKey = %v", got)
	}
	if got := doc["someBlock"]["otherKey"]; got != int64(12) {
		t.Errorf("otherKey = %v (%T)", got, got)
	}
	if got := doc["cookies/sugar"]["shape"]; got != "round" {
		t.Errorf("cookies/sugar shape = %v", got)
	}
	ports, ok := doc["someBlock"]["ports"].([]any)
	if !ok || len(ports) != 2 || ports[0] != int64(8000) {
		t.Errorf("ports = %v", doc["someBlock"]["ports"])
	}
}
