// Package kustomize registers sealed secret files as kustomization
// resources.
package kustomize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stuttgart-things/kubeseal-auto/internal/secretfile"
	"gopkg.in/yaml.v3"
)

const (
	APIVersion = "kustomize.config.k8s.io/v1beta1"
	Kind       = "Kustomization"
)

// Resources returns the resources list of the kustomization at path.
func Resources(path string) ([]string, error) {
	doc, err := secretfile.Parse(path)
	if err != nil || doc == nil {
		return nil, err
	}
	seq := doc.Get("resources")
	if seq == nil {
		return nil, nil
	}
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%s: resources is not a list", path)
	}

	out := make([]string, 0, len(seq.Content))
	for _, n := range seq.Content {
		out = append(out, n.Value)
	}
	return out, nil
}

// Register adds file to the resources of the kustomization at path,
// creating the kustomization when it does not exist. file is stored
// relative to the kustomization's directory. Other keys are kept as they
// are. Register reports whether the file was changed.
func Register(path, file string) (bool, error) {
	resource, err := relative(path, file)
	if err != nil {
		return false, err
	}

	doc, err := secretfile.Parse(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if doc == nil {
		doc = secretfile.NewDocument()
		root := doc.Mapping(true)
		secretfile.SetString(root, "apiVersion", APIVersion)
		secretfile.SetString(root, "kind", Kind)
	}

	root := doc.Mapping(true)
	seq := doc.Get("resources")
	switch {
	case seq == nil:
		seq = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "resources"}, seq)
	case seq.Tag == "!!null":
		*seq = yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	case seq.Kind != yaml.SequenceNode:
		return false, fmt.Errorf("%s: resources is not a list", path)
	}

	for _, n := range seq.Content {
		if n.Value == resource {
			return false, nil
		}
	}
	seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: resource})

	if err := secretfile.Write(path, doc); err != nil {
		return false, err
	}
	return true, nil
}

func relative(kustomization, file string) (string, error) {
	base, err := filepath.Abs(filepath.Dir(kustomization))
	if err != nil {
		return "", err
	}
	target, err := filepath.Abs(file)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", fmt.Errorf("resource %s: %w", file, err)
	}
	return filepath.ToSlash(rel), nil
}
