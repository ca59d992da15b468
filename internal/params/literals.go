package params

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// LiteralEntry turns "key=value" into a --from-literal flag.
func LiteralEntry(s string) (string, error) {
	key, _, ok := strings.Cut(s, "=")
	if !ok {
		return "", fmt.Errorf("invalid literal %q (expected key=value)", s)
	}
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("invalid literal %q: key is empty", s)
	}
	return "--from-literal=" + s, nil
}

// BulkLiteralEntries parses one key=value pair per line. Blank lines are
// ignored; lines without "=" are counted in skipped.
func BulkLiteralEntries(text string) (entries []string, skipped int) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		entry, err := LiteralEntry(line)
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, skipped
}

// FileEntry turns a path into a --from-file flag after checking it exists.
func FileEntry(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("file %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("file %s is a directory", path)
	}
	return "--from-file=" + path, nil
}

// Entries builds the kubectl flags for a generic secret from inline
// key=value literals and file paths.
func Entries(literals, files []string) ([]string, error) {
	var entries []string
	for _, l := range literals {
		e, err := LiteralEntry(l)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	for _, f := range files {
		e, err := FileEntry(f)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// MergeLiterals merges file literals with inline key=value literals
// (inline takes precedence) and returns them as sorted key=value pairs.
func MergeLiterals(fileLiterals map[string]string, inline []string) ([]string, error) {
	merged := make(map[string]string, len(fileLiterals))
	for k, v := range fileLiterals {
		merged[k] = v
	}
	for _, l := range inline {
		k, v, ok := strings.Cut(l, "=")
		if !ok {
			return nil, fmt.Errorf("invalid literal %q (expected key=value)", l)
		}
		merged[k] = v
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+merged[k])
	}
	return out, nil
}
