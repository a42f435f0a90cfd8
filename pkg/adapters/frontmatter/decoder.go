// Package frontmatter decodes YAML frontmatter into ordered metadata.
package frontmatter

import (
	"fmt"
	"strings"

	"github.com/keboola/go-utils/pkg/orderedmap"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/notekit/pkg/core"
)

// Decoder implements core.Decoder using YAML.
// Since YAML is a superset of JSON it also reads exported notes back.
type Decoder struct{}

// NewDecoder creates a new YAML frontmatter decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

var _ core.Decoder = (*Decoder)(nil)

// Decode parses raw into metadata, keeping the key order of the source.
// Empty or comment-only input yields empty metadata.
func (d *Decoder) Decode(raw string) (core.Metadata, error) {
	if strings.TrimSpace(raw) == "" {
		return core.NewMetadata(), nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if doc.Kind == 0 || (doc.Kind == yaml.DocumentNode && len(doc.Content) == 0) {
		return core.NewMetadata(), nil
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		root = root.Content[0]
	}
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return core.NewMetadata(), nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("frontmatter must be a mapping, got %s", kindName(root.Kind))
	}

	if err := validate(&doc); err != nil {
		return nil, err
	}
	v, err := newConverter().convert(root)
	if err != nil {
		return nil, err
	}
	return v.(core.Metadata), nil
}

// Value decodes a single YAML value (scalar, sequence or mapping).
// Empty input decodes to an empty string.
func Value(raw string) (any, error) {
	if raw == "" {
		return "", nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", raw, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return "", nil
	}
	if err := validate(&doc); err != nil {
		return nil, err
	}
	return newConverter().convert(doc.Content[0])
}

// validate runs yaml.v3's own decoder over the tree, which rejects anchors
// that contain themselves and documents with excessive aliasing.
func validate(doc *yaml.Node) error {
	var discard any
	if err := doc.Decode(&discard); err != nil {
		return fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	return nil
}

// converter turns a yaml.Node tree into metadata values.
type converter struct {
	// expanding holds the anchors whose aliases are being expanded.
	expanding map[*yaml.Node]bool
}

func newConverter() *converter {
	return &converter{expanding: make(map[*yaml.Node]bool)}
}

func (c *converter) convert(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return c.convert(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unknown anchor %q", n.Line, n.Value)
		}
		if c.expanding[n.Alias] {
			return nil, fmt.Errorf("line %d: anchor %q contains itself", n.Line, n.Value)
		}
		c.expanding[n.Alias] = true
		defer delete(c.expanding, n.Alias)
		return c.convert(n.Alias)
	case yaml.MappingNode:
		m := orderedmap.New()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind == yaml.ScalarNode && k.Tag == "!!merge" {
				if err := c.merge(m, v); err != nil {
					return nil, err
				}
				continue
			}
			key, err := keyOf(k)
			if err != nil {
				return nil, err
			}
			val, err := c.convert(v)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			m.Set(key, val)
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			val, err := c.convert(item)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node %s", n.Line, kindName(n.Kind))
	}
}

// merge applies a "<<" merge key: explicit keys win over merged ones.
func (c *converter) merge(dst *orderedmap.OrderedMap, src *yaml.Node) error {
	nodes := []*yaml.Node{src}
	if src.Kind == yaml.SequenceNode {
		nodes = src.Content
	}
	for _, node := range nodes {
		val, err := c.convert(node)
		if err != nil {
			return err
		}
		m, ok := val.(*orderedmap.OrderedMap)
		if !ok {
			return fmt.Errorf("line %d: merge value must be a mapping", node.Line)
		}
		for _, k := range m.Keys() {
			if _, exists := dst.Get(k); exists {
				continue
			}
			v, _ := m.Get(k)
			dst.Set(k, v)
		}
	}
	return nil
}

func keyOf(k *yaml.Node) (string, error) {
	if k.Kind == yaml.AliasNode && k.Alias != nil {
		k = k.Alias
	}
	if k.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
	}
	return k.Value, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
