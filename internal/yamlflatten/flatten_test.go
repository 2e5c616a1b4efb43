// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package yamlflatten

import (
	"encoding/json"
	"testing"
)

func TestFlattenScalarTypes(t *testing.T) {
	doc := []byte(`
demo:
  number: 42
  ratio: 3.14
  enabled: true
  missing: null
  label: hello
`)
	m, err := Flatten(doc)
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}

	cases := map[string]interface{}{
		"demo.number":  42,
		"demo.ratio":   3.14,
		"demo.enabled": true,
		"demo.missing": nil,
		"demo.label":   "hello",
	}
	for k, want := range cases {
		got, ok := m.Get(k)
		if !ok {
			t.Fatalf("missing key %q", k)
		}
		gotJSON, _ := json.Marshal(got)
		wantJSON, _ := json.Marshal(want)
		if string(gotJSON) != string(wantJSON) {
			t.Errorf("key %q = %s, want %s", k, gotJSON, wantJSON)
		}
	}
}

func TestFlattenSequence(t *testing.T) {
	doc := []byte(`
servers:
  - host: a
    port: 1
  - host: b
    port: 2
`)
	m, err := Flatten(doc)
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}
	want := map[string]interface{}{
		"servers[0].host": "a",
		"servers[0].port": 1,
		"servers[1].host": "b",
		"servers[1].port": 2,
	}
	for k, v := range want {
		got, ok := m.Get(k)
		if !ok || got != v {
			t.Errorf("key %q = %v, want %v", k, got, v)
		}
	}
}

func TestFlattenOrderPreserved(t *testing.T) {
	doc := []byte(`
zeta: 1
alpha: 2
middle:
  b: 1
  a: 2
`)
	m, err := Flatten(doc)
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}
	want := []string{"zeta", "alpha", "middle.b", "middle.a"}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFlattenEmptyCollections(t *testing.T) {
	doc := []byte(`
empty_map: {}
empty_seq: []
present: 1
`)
	m, err := Flatten(doc)
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("expected only 'present' to survive, got keys %v", m.Keys())
	}
	if _, ok := m.Get("present"); !ok {
		t.Error("expected 'present' key")
	}
}

func TestFlattenEmptyDocument(t *testing.T) {
	m, err := Flatten([]byte(""))
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("expected empty map, got %v", m.Keys())
	}
}

func TestFlattenIdempotent(t *testing.T) {
	doc := []byte("a:\n  b: 1\n  c: [1, 2]\n")
	m1, err := Flatten(doc)
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}
	m2, err := Flatten(doc)
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}
	if len(m1.Keys()) != len(m2.Keys()) {
		t.Fatalf("key count mismatch between runs")
	}
	for i, k := range m1.Keys() {
		if m2.Keys()[i] != k {
			t.Fatalf("key order mismatch at %d: %q != %q", i, k, m2.Keys()[i])
		}
		v1, _ := m1.Get(k)
		v2, _ := m2.Get(k)
		j1, _ := json.Marshal(v1)
		j2, _ := json.Marshal(v2)
		if string(j1) != string(j2) {
			t.Fatalf("value mismatch at %q: %s != %s", k, j1, j2)
		}
	}
}

func TestFlattenInvalidYaml(t *testing.T) {
	_, err := Flatten([]byte("a: [unterminated"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestOrderedMapMarshalJSON(t *testing.T) {
	m := NewOrderedMap()
	m.Set("b", 1)
	m.Set("a", 2)
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"b":1,"a":2}`
	if string(b) != want {
		t.Errorf("Marshal() = %s, want %s", b, want)
	}
}
