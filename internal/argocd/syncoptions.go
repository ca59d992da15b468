// Package argocd keeps the Argo CD sync-options annotation on generated
// SealedSecret manifests up to date.
package argocd

import (
	"fmt"
	"strings"

	"github.com/stuttgart-things/kubeseal-auto/internal/secretfile"
)

const (
	// SyncOptionsKey is the annotation Argo CD reads per-resource sync options from.
	SyncOptionsKey = "argocd.argoproj.io/sync-options"

	// SkipDryRunOption lets Argo CD apply a SealedSecret before the CRD exists.
	SkipDryRunOption = "SkipDryRunOnMissingResource=true"
)

// MergeOption returns current with option placed first. Empty entries and
// any earlier setting of the same option key are dropped; other options
// keep their order.
func MergeOption(current, option string) string {
	prefix := option
	if i := strings.Index(option, "="); i >= 0 {
		prefix = option[:i+1]
	}

	merged := []string{option}
	for _, opt := range strings.Split(current, ",") {
		opt = strings.TrimSpace(opt)
		if opt == "" || strings.HasPrefix(opt, prefix) {
			continue
		}
		merged = append(merged, opt)
	}
	return strings.Join(merged, ",")
}

// Apply merges SkipDryRunOption into the sync-options annotation of doc,
// creating metadata.annotations when needed. Applying twice is a no-op.
func Apply(doc *secretfile.Document) error {
	annotations := doc.Mapping(true, "metadata", "annotations")
	if annotations == nil {
		return fmt.Errorf("metadata.annotations is not a mapping")
	}

	current := doc.String("metadata", "annotations", SyncOptionsKey)
	secretfile.SetString(annotations, SyncOptionsKey, MergeOption(current, SkipDryRunOption))
	return nil
}

// ApplyFile applies the annotation to the document stored at path and
// writes it back. Empty files are left untouched.
func ApplyFile(path string) error {
	doc, err := secretfile.Parse(path)
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	if err := Apply(doc); err != nil {
		return fmt.Errorf("annotating %s: %w", path, err)
	}
	return secretfile.Write(path, doc)
}
