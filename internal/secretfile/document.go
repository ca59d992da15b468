package secretfile

import (
	"gopkg.in/yaml.v3"
)

// Document is a single YAML mapping that keeps its key order through a
// parse/write round trip.
type Document struct {
	root *yaml.Node
}

// NewDocument returns an empty mapping document.
func NewDocument() *Document {
	return &Document{root: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}}
}

// Root returns the underlying mapping node.
func (d *Document) Root() *yaml.Node {
	return d.root
}

// Kind returns the resource kind, or "" when absent.
func (d *Document) Kind() string {
	return d.String("kind")
}

// Name returns metadata.name, or "" when absent.
func (d *Document) Name() string {
	return d.String("metadata", "name")
}

// Namespace returns metadata.namespace, or "" when absent.
func (d *Document) Namespace() string {
	return d.String("metadata", "namespace")
}

// IsSealedSecret reports whether the document is a SealedSecret resource.
func (d *Document) IsSealedSecret() bool {
	return d.Kind() == "SealedSecret"
}

// Get walks nested mappings and returns the node at keys, or nil.
func (d *Document) Get(keys ...string) *yaml.Node {
	node := d.root
	for _, k := range keys {
		node = lookup(node, k)
		if node == nil {
			return nil
		}
	}
	return node
}

// String returns the scalar value at keys, or "" if it is missing or not a
// scalar.
func (d *Document) String(keys ...string) string {
	node := d.Get(keys...)
	if node == nil || node.Kind != yaml.ScalarNode {
		return ""
	}
	return node.Value
}

// Mapping returns the mapping node at keys. With create set, missing or
// null intermediate mappings are added; otherwise nil is returned for them.
// A non-mapping value on the path yields nil.
func (d *Document) Mapping(create bool, keys ...string) *yaml.Node {
	node := d.root
	for _, k := range keys {
		next := lookup(node, k)
		switch {
		case next == nil && create:
			next = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content, scalar(k), next)
		case next == nil:
			return nil
		case isNull(next) && create:
			*next = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		case next.Kind != yaml.MappingNode:
			return nil
		}
		node = next
	}
	return node
}

// SetString sets key to a string scalar inside mapping, replacing an
// existing value in place so the key keeps its position.
func SetString(mapping *yaml.Node, key, value string) {
	if v := lookup(mapping, key); v != nil {
		*v = *scalar(value)
		return
	}
	mapping.Content = append(mapping.Content, scalar(key), scalar(value))
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
