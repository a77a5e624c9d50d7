// Package content holds the in-memory page content tree and the rules that every
// compiled tree must satisfy.
package content

import (
	"math"

	"gopkg.in/yaml.v3"
)

// Map is an insertion-ordered mapping from string keys to content values.
//
// Values are one of: string, int, int64, uint64, float64, bool, nil, *Map or []any.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key. A new key is appended; an existing key keeps its position.
func (m *Map) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Rename moves the value stored under from to a key named to, keeping its position.
// If to already exists elsewhere, that entry is dropped.
func (m *Map) Rename(from, to string) {
	if from == to {
		return
	}
	v, ok := m.values[from]
	if !ok {
		return
	}
	if _, exists := m.values[to]; exists {
		m.remove(to)
	}
	for i, k := range m.keys {
		if k == from {
			m.keys[i] = to
			break
		}
	}
	delete(m.values, from)
	m.values[to] = v
}

func (m *Map) remove(key string) {
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	delete(m.values, key)
}

// GetMap returns the nested mapping stored under key.
func (m *Map) GetMap(key string) (*Map, bool) {
	v, ok := m.values[key].(*Map)
	return v, ok
}

// GetString returns the string stored under key.
func (m *Map) GetString(key string) (string, bool) {
	v, ok := m.values[key].(string)
	return v, ok
}

// MarshalYAML renders the mapping as a YAML node keeping key order.
func (m *Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		var value yaml.Node
		if err := value.Encode(m.values[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&value,
		)
	}
	return node, nil
}

// Equal reports whether a and b hold structurally equal content values.
// Numbers compare by value regardless of their Go type.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case *Map:
		bv, ok := b.(*Map)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for i, k := range av.keys {
			if bv.keys[i] != k || !Equal(av.values[k], bv.values[k]) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	}

	if an, ok := number(a); ok {
		bn, ok := number(b)
		if !ok {
			return false
		}
		if math.IsNaN(an) && math.IsNaN(bn) {
			return true
		}
		return an == bn
	}
	return a == b
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
