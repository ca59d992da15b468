// Package secretfile reads and writes single-document Kubernetes YAML
// files such as Secrets and SealedSecrets.
package secretfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMultipleDocuments is returned for files holding more than one
	// non-empty YAML document.
	ErrMultipleDocuments = errors.New("file contains multiple YAML documents")

	// ErrNotMapping is returned when the top level of the document is not
	// a mapping.
	ErrNotMapping = errors.New("top-level YAML value is not a mapping")
)

// ParseError wraps every failure of Parse with the offending path.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads exactly one YAML document from path. Empty files and files
// that only contain null documents yield (nil, nil).
func Parse(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var docs []*yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &ParseError{Path: path, Err: err}
		}
		if isEmptyDocument(&node) {
			continue
		}
		docs = append(docs, &node)
	}

	switch len(docs) {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, &ParseError{Path: path, Err: ErrMultipleDocuments}
	}

	root := docs[0]
	if root.Kind == yaml.DocumentNode {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{Path: path, Err: ErrNotMapping}
	}

	return &Document{root: root}, nil
}

// Write serializes doc to path with two-space indentation.
func Write(path string, doc *Document) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc.root); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, buf.Bytes(), mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func isEmptyDocument(n *yaml.Node) bool {
	if n.Kind != yaml.DocumentNode {
		return false
	}
	return len(n.Content) == 0 || isNull(n.Content[0])
}
