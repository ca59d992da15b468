package kubectl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stuttgart-things/kubeseal-auto/internal/params"
	"github.com/stuttgart-things/kubeseal-auto/internal/runner"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

var testParams = params.SecretParams{Name: "db", Namespace: "apps"}

func TestCreateGeneric(t *testing.T) {
	mock := &runner.MockRunner{Out: "kind: Secret\n"}
	c := New("", mock)
	out := filepath.Join(t.TempDir(), "staging.yaml")

	err := c.CreateGeneric(context.Background(), testParams, []string{"--from-literal=user=admin", "--from-file=ca.crt"}, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := strings.Join(mock.Calls[0], " ")
	want := "kubectl create secret generic db --namespace apps --dry-run=client -o yaml --from-literal=user=admin --from-file=ca.crt"
	if got != want {
		t.Errorf("unexpected command:\n got: %s\nwant: %s", got, want)
	}

	data, _ := os.ReadFile(out)
	if string(data) != "kind: Secret\n" {
		t.Errorf("staging file not written, got %q", data)
	}
}

func TestCreateGeneric_NoEntries(t *testing.T) {
	mock := &runner.MockRunner{}

	err := New("kubectl", mock).CreateGeneric(context.Background(), testParams, nil, filepath.Join(t.TempDir(), "s.yaml"))
	if err == nil {
		t.Fatal("expected error for missing entries")
	}
	if len(mock.Calls) != 0 {
		t.Errorf("kubectl must not run without entries")
	}
}

func TestCreateTLS(t *testing.T) {
	dir := t.TempDir()
	pair := DefaultTLSPair(dir)
	mock := &runner.MockRunner{Out: "kind: Secret\n"}
	c := New("kubectl", mock)

	err := c.CreateTLS(context.Background(), testParams, pair, filepath.Join(dir, "s.yaml"))
	if err == nil {
		t.Fatal("expected error for missing TLS files")
	}
	if !strings.Contains(err.Error(), "tls.key") || !strings.Contains(err.Error(), "tls.crt") {
		t.Errorf("error should list both missing files, got: %v", err)
	}

	for _, f := range []string{pair.Key, pair.Cert} {
		if err := os.WriteFile(f, []byte("pem"), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", f, err)
		}
	}

	if err := c.CreateTLS(context.Background(), testParams, pair, filepath.Join(dir, "s.yaml")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.Join(mock.Calls[0], " ")
	if !strings.Contains(got, "create secret tls db") || !strings.Contains(got, "--key "+pair.Key) || !strings.Contains(got, "--cert "+pair.Cert) {
		t.Errorf("unexpected command: %s", got)
	}
}

func TestCreateDockerRegistry_PasswordOnStdin(t *testing.T) {
	mock := &runner.MockRunner{Out: "kind: Secret\n"}
	creds := params.DockerCredentials{Server: "ghcr.io", Username: "bot", Password: "hunter2"}

	err := New("kubectl", mock).CreateDockerRegistry(context.Background(), testParams, creds, filepath.Join(t.TempDir(), "s.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, arg := range mock.Calls[0] {
		if strings.Contains(arg, "hunter2") {
			t.Fatalf("password leaked into arguments: %v", mock.Calls[0])
		}
	}
	got := strings.Join(mock.Calls[0], " ")
	if !strings.Contains(got, "--docker-server=ghcr.io --docker-username=bot --docker-password-stdin") {
		t.Errorf("unexpected command: %s", got)
	}
	if mock.Stdins[0] != "hunter2" {
		t.Errorf("expected password on stdin, got %q", mock.Stdins[0])
	}
}

func TestCreateDockerRegistry_Quiet(t *testing.T) {
	mock := &runner.MockRunner{Out: "kind: Secret\n"}
	creds := params.DockerCredentials{Server: "ghcr.io", Username: "robot-user", Password: "hunter2"}

	err := New("kubectl", mock).CreateDockerRegistry(context.Background(), testParams, creds, filepath.Join(t.TempDir(), "s.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mock.Quiet[0] {
		t.Error("docker-registry command must be run quietly")
	}
}

func TestCreateDockerRegistry_FailureHidesCredentials(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "kubectl")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\necho boom >&2\nexit 3\n"), 0755); err != nil {
		t.Fatal(err)
	}
	creds := params.DockerCredentials{Server: "ghcr.io", Username: "robot-user", Password: "hunter2"}

	err := New(bin, &runner.ExecRunner{}).CreateDockerRegistry(context.Background(), testParams, creds, filepath.Join(t.TempDir(), "s.yaml"))

	var cmdErr *runner.CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *runner.CommandError, got %v", err)
	}
	if cmdErr.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", cmdErr.ExitCode)
	}
	for _, secret := range []string{"robot-user", "ghcr.io", "hunter2"} {
		if strings.Contains(err.Error(), secret) {
			t.Errorf("error leaked %q: %v", secret, err)
		}
	}
}

func TestCreateDockerRegistry_MissingCredentials(t *testing.T) {
	mock := &runner.MockRunner{}
	creds := params.DockerCredentials{Server: "ghcr.io", Username: "bot"}

	err := New("kubectl", mock).CreateDockerRegistry(context.Background(), testParams, creds, filepath.Join(t.TempDir(), "s.yaml"))
	if err == nil || !strings.Contains(err.Error(), "password") {
		t.Errorf("expected password error, got %v", err)
	}
}

func TestCreate_Dispatch(t *testing.T) {
	mock := &runner.MockRunner{Out: "kind: Secret\n"}
	p := testParams
	p.Type = params.Generic

	err := New("kubectl", mock).Create(context.Background(), p, Input{Entries: []string{"--from-literal=a=b"}}, filepath.Join(t.TempDir(), "s.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.Calls[0][3] != "generic" {
		t.Errorf("expected generic subcommand, got %v", mock.Calls[0])
	}

	p.Type = "opaque"
	if err := New("kubectl", mock).Create(context.Background(), p, Input{}, "unused"); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestGetSecret(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "kind-dev-secret-backup.yaml")

	mock := &runner.MockRunner{Out: "kind: Secret\n"}
	if err := New("kubectl", mock).GetSecret(context.Background(), "kind-dev", "kube-system", "sealed-secrets-key", out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.Join(mock.Calls[0], " ")
	want := "kubectl get secret -n kube-system sealed-secrets-key -o yaml --context=kind-dev"
	if got != want {
		t.Errorf("unexpected command:\n got: %s\nwant: %s", got, want)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("backup not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("backup holds a private key and must be 0600, got %o", perm)
	}

	failing := &runner.MockRunner{Err: &runner.CommandError{Command: "kubectl", ExitCode: 1, Stderr: "forbidden"}}
	err = New("kubectl", failing).GetSecret(context.Background(), "kind-dev", "kube-system", "sealed-secrets-key", out)

	var cmdErr *runner.CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *runner.CommandError, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("partial backup file must be removed on failure")
	}
}
