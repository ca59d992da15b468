package params

import (
	"fmt"
	"strings"
)

// SecretType is the kubectl create secret subcommand to use.
type SecretType string

const (
	Generic        SecretType = "generic"
	TLS            SecretType = "tls"
	DockerRegistry SecretType = "docker-registry"
)

// SecretTypes lists the supported types in prompt order.
var SecretTypes = []SecretType{Generic, TLS, DockerRegistry}

// ParseSecretType maps user input to a SecretType.
func ParseSecretType(s string) (SecretType, error) {
	for _, t := range SecretTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown secret type %q (expected generic, tls or docker-registry)", s)
}

// SecretParams identifies the secret to create.
type SecretParams struct {
	Name      string
	Namespace string
	Type      SecretType
}

// Validate checks name and namespace are valid Kubernetes object names.
func (p SecretParams) Validate() error {
	if err := ValidateName(p.Name); err != nil {
		return fmt.Errorf("secret name: %w", err)
	}
	if err := ValidateName(p.Namespace); err != nil {
		return fmt.Errorf("namespace: %w", err)
	}
	if _, err := ParseSecretType(string(p.Type)); err != nil {
		return err
	}
	return nil
}

// DockerCredentials are the inputs of a docker-registry secret.
type DockerCredentials struct {
	Server   string
	Username string
	Password string
}

// Validate requires every field to be set.
func (c DockerCredentials) Validate() error {
	switch {
	case c.Server == "":
		return fmt.Errorf("docker server is required")
	case c.Username == "":
		return fmt.Errorf("docker username is required")
	case c.Password == "":
		return fmt.Errorf("docker password is required")
	}
	return nil
}

// Request describes a secret to create without prompting. It is read from
// a YAML or JSON params file.
type Request struct {
	Name      string            `yaml:"name" json:"name"`
	Namespace string            `yaml:"namespace" json:"namespace"`
	Type      string            `yaml:"type" json:"type"`
	Literals  map[string]string `yaml:"literals" json:"literals"`
	Files     []string          `yaml:"files" json:"files"`
	TLS       TLSFiles          `yaml:"tls" json:"tls"`
	Docker    DockerRegistryRef `yaml:"docker" json:"docker"`
}

// TLSFiles points at the key pair of a tls secret.
type TLSFiles struct {
	Key  string `yaml:"key" json:"key"`
	Cert string `yaml:"cert" json:"cert"`
}

// DockerRegistryRef holds the non-sensitive docker-registry inputs. The
// password is never read from a file.
type DockerRegistryRef struct {
	Server   string `yaml:"server" json:"server"`
	Username string `yaml:"username" json:"username"`
}
