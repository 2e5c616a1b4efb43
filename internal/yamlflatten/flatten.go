// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package yamlflatten parses YAML and flattens it into a dotted-key,
// insertion-ordered, JSON-scalar-typed mapping. It decodes into a
// gopkg.in/yaml.v3 Node tree rather than a plain map, because only the
// Node API preserves mapping-key source order and scalar tags —
// information a plain Unmarshal into map[string]interface{} would
// discard.
package yamlflatten

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Flatten parses doc as a single YAML document and flattens it:
// mapping keys compose as "<parent>.<child>", sequence elements as
// "<parent>[<index>]", and scalars become leaves typed as JSON
// scalars (numbers stay numbers, booleans booleans, null null, strings
// strings). Empty mappings and sequences contribute no entries. An
// empty or all-comment document flattens to an empty map.
func Flatten(doc []byte) (*OrderedMap, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(doc, &root); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	out := NewOrderedMap()

	if root.Kind == 0 || len(root.Content) == 0 {
		return out, nil
	}

	if err := flattenNode(root.Content[0], "", out); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenNode(node *yaml.Node, prefix string, out *OrderedMap) error {
	switch node.Kind {
	case yaml.AliasNode:
		return flattenNode(node.Alias, prefix, out)

	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			valNode := node.Content[i+1]
			childPrefix := keyNode.Value
			if prefix != "" {
				childPrefix = prefix + "." + keyNode.Value
			}
			if err := flattenNode(valNode, childPrefix, out); err != nil {
				return err
			}
		}
		return nil

	case yaml.SequenceNode:
		for idx, item := range node.Content {
			childPrefix := fmt.Sprintf("%s[%d]", prefix, idx)
			if err := flattenNode(item, childPrefix, out); err != nil {
				return err
			}
		}
		return nil

	case yaml.ScalarNode:
		var v interface{}
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("decode scalar at %q: %w", prefix, err)
		}
		out.Set(prefix, v)
		return nil

	default:
		return fmt.Errorf("unsupported yaml node kind %d at %q", node.Kind, prefix)
	}
}
