package params

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

// ValidateName checks s is a DNS-1123 subdomain, the rule Kubernetes
// applies to Secret names and namespaces.
func ValidateName(s string) error {
	if s == "" {
		return fmt.Errorf("must not be empty")
	}
	if msgs := validation.IsDNS1123Subdomain(s); len(msgs) > 0 {
		return fmt.Errorf("%q is invalid: %s", s, strings.Join(msgs, "; "))
	}
	return nil
}
