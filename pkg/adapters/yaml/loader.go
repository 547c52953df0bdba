// Package yaml loads configuration trees from YAML documents.
//
// Every mapping value becomes a named sub-tree and every other value an
// attribute, so a stand is described as:
//
//	Stand:
//	  Used: true
//	  Multimeter:
//	    Used: true
//	    Info: Keithley 2010
//	    Link:
//	      Used: true
//	      Address: 192.168.0.10
//	      Port: 5025
//
// A key with an empty value (`Errors:`) is an empty sub-tree.
package yaml

import (
	"fmt"
	"os"

	"github.com/aretw0/testbench/pkg/adapters/memory"
	"github.com/aretw0/testbench/pkg/domain"
	backend "gopkg.in/yaml.v3"
)

// Load reads and parses a YAML configuration file.
func Load(path string) (*memory.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	tree, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

// Parse builds a configuration tree from a YAML document. Structural errors
// wrap domain.MalformedConfig and carry the offending line.
func Parse(data []byte) (*memory.Tree, error) {
	var doc backend.Node
	if err := backend.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.MalformedConfig, err)
	}
	if doc.Kind == 0 {
		return memory.NewTree(nil), nil
	}

	root := &doc
	if root.Kind == backend.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != backend.MappingNode {
		return nil, fmt.Errorf("%w: line %d: top level must be a mapping", domain.MalformedConfig, root.Line)
	}

	values, err := toMap(root)
	if err != nil {
		return nil, err
	}
	return memory.NewTree(values), nil
}

func toMap(n *backend.Node) (map[string]any, error) {
	out := make(map[string]any, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != backend.ScalarNode {
			return nil, fmt.Errorf("%w: line %d: keys must be scalars", domain.MalformedConfig, k.Line)
		}
		if _, dup := out[k.Value]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate key %q", domain.MalformedConfig, k.Line, k.Value)
		}
		for v.Kind == backend.AliasNode && v.Alias != nil {
			v = v.Alias
		}

		switch {
		case v.Kind == backend.MappingNode:
			child, err := toMap(v)
			if err != nil {
				return nil, err
			}
			out[k.Value] = child
		case v.Kind == backend.ScalarNode && v.Tag == "!!null":
			out[k.Value] = map[string]any{}
		default:
			var val any
			if err := v.Decode(&val); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", domain.MalformedConfig, v.Line, err)
			}
			out[k.Value] = val
		}
	}
	return out, nil
}
