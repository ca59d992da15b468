package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestExecRunner_Stdout(t *testing.T) {
	var out bytes.Buffer
	r := &ExecRunner{}

	err := r.Run(context.Background(), Cmd{
		Name:   "sh",
		Args:   []string{"-c", "cat"},
		Stdin:  strings.NewReader("hello"),
		Stdout: &out,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "hello" {
		t.Errorf("expected stdout hello, got %q", out.String())
	}
}

func TestExecRunner_CommandError(t *testing.T) {
	r := &ExecRunner{}

	err := r.Run(context.Background(), Cmd{
		Name: "sh",
		Args: []string{"-c", "echo boom >&2; exit 3"},
	})

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %v", err)
	}
	if cmdErr.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", cmdErr.ExitCode)
	}
	if cmdErr.Stderr != "boom" {
		t.Errorf("expected stderr boom, got %q", cmdErr.Stderr)
	}
	if !strings.Contains(cmdErr.Error(), "exit code 3") {
		t.Errorf("error should mention exit code, got: %v", cmdErr)
	}
}

func TestExecRunner_QuietHidesArgs(t *testing.T) {
	r := &ExecRunner{}

	err := r.Run(context.Background(), Cmd{
		Name:  "sh",
		Args:  []string{"-c", "exit 1", "hunter2"},
		Quiet: true,
	})

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %v", err)
	}
	if strings.Contains(cmdErr.Error(), "hunter2") {
		t.Errorf("quiet command leaked its arguments: %v", cmdErr)
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := &ExecRunner{}

	err := r.Run(context.Background(), Cmd{Name: "definitely-not-a-real-binary-xyz"})

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %v", err)
	}
	if cmdErr.ExitCode != -1 {
		t.Errorf("expected exit code -1 for a binary that never started, got %d", cmdErr.ExitCode)
	}
}

func TestRunToFile(t *testing.T) {
	tests := []struct {
		name      string
		mock      *MockRunner
		wantErr   bool
		wantFile  bool
		wantBytes string
	}{
		{
			name:      "success writes output",
			mock:      &MockRunner{Out: "kind: Secret\n"},
			wantFile:  true,
			wantBytes: "kind: Secret\n",
		},
		{
			name: "failure removes partial output",
			mock: &MockRunner{RunFn: func(c Cmd) error {
				_, _ = c.Stdout.Write([]byte("partial"))
				return &CommandError{Command: "kubectl", ExitCode: 1}
			}},
			wantErr:  true,
			wantFile: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.yaml")

			err := RunToFile(context.Background(), tt.mock, Cmd{Name: "kubectl"}, path, PublicFile)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RunToFile() error = %v, wantErr %v", err, tt.wantErr)
			}

			data, statErr := os.ReadFile(path)
			if tt.wantFile {
				if statErr != nil {
					t.Fatalf("expected output file: %v", statErr)
				}
				if string(data) != tt.wantBytes {
					t.Errorf("expected %q, got %q", tt.wantBytes, string(data))
				}
			} else if !os.IsNotExist(statErr) {
				t.Errorf("expected output file to be removed, stat error = %v", statErr)
			}
		})
	}
}

func TestMockRunner_RecordsCalls(t *testing.T) {
	m := &MockRunner{}

	_ = m.Run(context.Background(), Cmd{Name: "kubeseal", Args: []string{"--format=yaml"}, Stdin: strings.NewReader("in")})

	if len(m.Calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(m.Calls))
	}
	if strings.Join(m.Calls[0], " ") != "kubeseal --format=yaml" {
		t.Errorf("unexpected call: %v", m.Calls[0])
	}
	if m.Stdins[0] != "in" {
		t.Errorf("expected stdin to be recorded, got %q", m.Stdins[0])
	}
}

func TestRunToFile_PrivateFile(t *testing.T) {
	dir := t.TempDir()
	fresh := filepath.Join(dir, "fresh.yaml")
	existing := filepath.Join(dir, "existing.yaml")
	if err := os.WriteFile(existing, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{fresh, existing} {
		mock := &MockRunner{Out: "kind: Secret\n"}
		if err := RunToFile(context.Background(), mock, Cmd{Name: "kubectl"}, path, PrivateFile); err != nil {
			t.Fatalf("RunToFile(%s) error = %v", path, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != PrivateFile {
			t.Errorf("%s: expected mode %o, got %o", filepath.Base(path), PrivateFile, perm)
		}
	}
}
