package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at a dotted path and where it was set.
//
// Paths follow the YAML keys, with list indices as numbers:
//
//	gap_px
//	bar.height
//	layouts.1.symbol
//	bindings.M-Return
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

// lookupValue walks the YAML encoding of cfg, so every path that can be
// written in a file can be explained.
func lookupValue(cfg *Config, path string) (any, error) {
	var root yaml.Node
	if err := root.Encode(cfg); err != nil {
		return nil, err
	}

	node := &root
	parts := strings.Split(path, ".")
	for i := 0; i < len(parts); i++ {
		part := parts[i]
		switch node.Kind {
		case yaml.MappingNode:
			next := mappingValue(node, part)
			// Binding chords never contain dots, but keep the rest of the path
			// together for keys that might.
			if next == nil {
				next = mappingValue(node, strings.Join(parts[i:], "."))
				if next != nil {
					i = len(parts)
				}
			}
			if next == nil {
				return nil, fmt.Errorf("unknown path: %s", path)
			}
			node = next
		case yaml.SequenceNode:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node.Content) {
				return nil, fmt.Errorf("unknown path: %s", path)
			}
			node = node.Content[idx]
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	}

	var out any
	if err := node.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
