package params

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFile_YAML(t *testing.T) {
	content := `name: db-credentials
namespace: apps
type: generic
literals:
  username: admin
  password: s3cret
files:
  - ca.crt
`
	tmpFile := createTempFile(t, "request.yaml", content)

	req, err := ParseFile(tmpFile)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	if req.Name != "db-credentials" {
		t.Errorf("expected name 'db-credentials', got '%s'", req.Name)
	}
	if req.Namespace != "apps" {
		t.Errorf("expected namespace 'apps', got '%s'", req.Namespace)
	}
	if req.Literals["password"] != "s3cret" {
		t.Errorf("expected password literal, got '%v'", req.Literals["password"])
	}
	want := filepath.Join(filepath.Dir(tmpFile), "ca.crt")
	if len(req.Files) != 1 || req.Files[0] != want {
		t.Errorf("expected files [%s], got %v", want, req.Files)
	}
}

func TestParseFile_JSON(t *testing.T) {
	content := `{
  "name": "registry",
  "namespace": "ci",
  "type": "docker-registry",
  "docker": {"server": "ghcr.io", "username": "bot"}
}`
	tmpFile := createTempFile(t, "request.json", content)

	req, err := ParseFile(tmpFile)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	if req.Type != "docker-registry" {
		t.Errorf("expected type 'docker-registry', got '%s'", req.Type)
	}
	if req.Docker.Server != "ghcr.io" || req.Docker.Username != "bot" {
		t.Errorf("unexpected docker settings: %+v", req.Docker)
	}
}

func TestParseFile_TLSPathsAbsolute(t *testing.T) {
	content := "name: web\nnamespace: apps\ntype: tls\ntls:\n  key: /etc/tls/tls.key\n  cert: tls.crt\n"
	tmpFile := createTempFile(t, "request.yml", content)

	req, err := ParseFile(tmpFile)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	if req.TLS.Key != "/etc/tls/tls.key" {
		t.Errorf("absolute path changed: %s", req.TLS.Key)
	}
	if req.TLS.Cert != filepath.Join(filepath.Dir(tmpFile), "tls.crt") {
		t.Errorf("relative path not resolved: %s", req.TLS.Cert)
	}
}

func TestParseFile_UnknownExtension(t *testing.T) {
	tmpFile := createTempFile(t, "request.txt", `{"name": "x", "namespace": "y"}`)

	req, err := ParseFile(tmpFile)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if req.Name != "x" {
		t.Errorf("expected name 'x', got '%s'", req.Name)
	}
}

func TestParseFile_Errors(t *testing.T) {
	if _, err := ParseFile("/nonexistent/request.yaml"); err == nil {
		t.Error("expected error for missing file")
	}

	tmpFile := createTempFile(t, "bad.json", "{not json")
	if _, err := ParseFile(tmpFile); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func createTempFile(t *testing.T, name, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, name)
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	return tmpFile
}
