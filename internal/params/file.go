package params

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseFile reads and parses a secret request file (YAML or JSON)
func ParseFile(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading params file: %w", err)
	}

	var req Request

	// Detect format by extension or try both
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, &req); err != nil {
			if jsonErr := json.Unmarshal(data, &req); jsonErr != nil {
				return nil, fmt.Errorf("parsing params file (tried YAML and JSON): %w", err)
			}
		}
	}

	// relative file references are resolved against the params file
	base := filepath.Dir(path)
	for i, f := range req.Files {
		req.Files[i] = resolve(base, f)
	}
	if req.TLS.Key != "" {
		req.TLS.Key = resolve(base, req.TLS.Key)
	}
	if req.TLS.Cert != "" {
		req.TLS.Cert = resolve(base, req.TLS.Cert)
	}

	return &req, nil
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
