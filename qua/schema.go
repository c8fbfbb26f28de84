package qua

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// field binds one record member to its YAML mapping key. Aliases are only
// consulted on decode; encode always writes name.
type field struct {
	name    string
	aliases []string
	decode  func(*yaml.Node) error
	encode  func() (*yaml.Node, error)
}

func (f field) matches(key string) bool {
	if f.name == key {
		return true
	}
	for _, a := range f.aliases {
		if a == key {
			return true
		}
	}
	return false
}

// scalar maps a single YAML scalar onto *p. Enum types plug in through their
// own UnmarshalYAML/MarshalYAML.
func scalar[T any](name string, p *T, aliases ...string) field {
	return field{
		name:    name,
		aliases: aliases,
		decode: func(n *yaml.Node) error {
			if n.Kind != yaml.ScalarNode {
				return kindError(n, "a scalar")
			}
			return n.Decode(p)
		},
		encode: func() (*yaml.Node, error) {
			return encodeValue(*p)
		},
	}
}

// list maps a YAML sequence of records onto *p, building every element from
// its own defaults.
func list[T any, P interface {
	*T
	yaml.Unmarshaler
}](name string, p *[]T, aliases ...string) field {
	return field{
		name:    name,
		aliases: aliases,
		decode: func(n *yaml.Node) error {
			return decodeSeq[T, P](n, p)
		},
		encode: func() (*yaml.Node, error) {
			return encodeValue(*p)
		},
	}
}

func decodeMapping(n *yaml.Node, fields []field) error {
	n = deref(n)
	if n.Kind != yaml.MappingNode {
		return kindError(n, "a mapping")
	}
	seen := make([]string, len(fields))
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := deref(n.Content[i]), deref(n.Content[i+1])
		if k.Kind != yaml.ScalarNode {
			continue
		}
		idx := -1
		for j := range fields {
			if fields[j].matches(k.Value) {
				idx = j
				break
			}
		}
		if idx < 0 {
			continue
		}
		if seen[idx] != "" {
			return fmt.Errorf("line %d: key %q duplicates %q", k.Line, k.Value, seen[idx])
		}
		seen[idx] = k.Value
		if isNull(v) {
			continue
		}
		if err := fields[idx].decode(v); err != nil {
			return fmt.Errorf("%s: %w", fields[idx].name, err)
		}
	}
	return nil
}

func encodeMapping(fields []field) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range fields {
		v, err := f.encode()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		out.Content = append(out.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.name},
			v,
		)
	}
	return out, nil
}

func decodeSeq[T any, P interface {
	*T
	yaml.Unmarshaler
}](n *yaml.Node, dst *[]T) error {
	if n.Kind != yaml.SequenceNode {
		return kindError(n, "a sequence")
	}
	out := make([]T, 0, len(n.Content))
	for i, item := range n.Content {
		var v T
		if err := P(&v).UnmarshalYAML(deref(item)); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, v)
	}
	*dst = out
	return nil
}

func encodeValue(v any) (*yaml.Node, error) {
	n := new(yaml.Node)
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func kindError(n *yaml.Node, want string) error {
	got := "unknown node"
	switch n.Kind {
	case yaml.DocumentNode:
		got = "a document"
	case yaml.SequenceNode:
		got = "a sequence"
	case yaml.MappingNode:
		got = "a mapping"
	case yaml.ScalarNode:
		got = fmt.Sprintf("%s %q", n.ShortTag(), n.Value)
	}
	return fmt.Errorf("line %d: expected %s, found %s", n.Line, want, got)
}
