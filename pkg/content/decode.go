package content

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyDocument is returned when a source decodes to nothing or to null.
	ErrEmptyDocument = errors.New("document is empty")
	// ErrNotMapping is returned when the document root is not a mapping.
	ErrNotMapping = errors.New("document root is not a mapping")
	// ErrTooManyNodes is returned when alias expansion grows past maxNodes.
	ErrTooManyNodes = errors.New("document expands to too many nodes")
)

const (
	maxAliasDepth = 64
	maxNodes      = 100_000
)

// decoder counts expanded nodes so nested aliases cannot grow without bound.
type decoder struct {
	nodes int
}

// Decode parses a YAML (or JSON) document into an ordered Map.
func Decode(data []byte) (*Map, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, ErrEmptyDocument
	}

	root := doc.Content[0]
	if root.Kind == yaml.AliasNode {
		root = root.Alias
	}
	switch {
	case root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null":
		return nil, ErrEmptyDocument
	case root.Kind != yaml.MappingNode:
		return nil, ErrNotMapping
	}

	d := &decoder{}
	v, err := d.fromNode(root, 0)
	if err != nil {
		return nil, err
	}
	return v.(*Map), nil
}

func (d *decoder) fromNode(n *yaml.Node, depth int) (any, error) {
	if depth > maxAliasDepth {
		return nil, fmt.Errorf("line %d: nesting too deep", n.Line)
	}
	d.nodes++
	if d.nodes > maxNodes {
		return nil, fmt.Errorf("line %d: %w (limit %d)", n.Line, ErrTooManyNodes, maxNodes)
	}

	switch n.Kind {
	case yaml.AliasNode:
		return d.fromNode(n.Alias, depth+1)
	case yaml.MappingNode:
		m := NewMap()
		if err := d.fillMap(m, n, depth); err != nil {
			return nil, err
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := d.fromNode(item, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		// Timestamps keep their source text; the generated modules hold strings.
		if n.ShortTag() == "!!timestamp" {
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
}

func (d *decoder) fillMap(m *Map, n *yaml.Node, depth int) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valueNode := n.Content[i], n.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == "!!merge" {
			if err := d.merge(m, valueNode, depth); err != nil {
				return err
			}
			continue
		}
		if keyNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
		}

		v, err := d.fromNode(valueNode, depth+1)
		if err != nil {
			return err
		}
		m.Set(keyNode.Value, v)
	}
	return nil
}

// merge applies a "<<" merge key: a mapping, an alias of one, or a sequence of them.
func (d *decoder) merge(m *Map, n *yaml.Node, depth int) error {
	if n.Kind == yaml.SequenceNode {
		for _, item := range n.Content {
			if err := d.merge(m, item, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	v, err := d.fromNode(n, depth+1)
	if err != nil {
		return err
	}
	src, ok := v.(*Map)
	if !ok {
		return fmt.Errorf("line %d: merge value must be a mapping", n.Line)
	}
	for _, k := range src.keys {
		if _, exists := m.values[k]; !exists {
			m.Set(k, src.values[k])
		}
	}
	return nil
}
