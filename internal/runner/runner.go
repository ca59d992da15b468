package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Cmd describes a single subprocess invocation. Stdin and Stdout are
// optional; stderr is always captured and reported through CommandError.
type Cmd struct {
	Name   string
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	// Quiet keeps the argument list out of debug logs.
	Quiet bool
}

// String renders the command line for logs and error messages.
func (c Cmd) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner executes external binaries.
// For easy mock testing, this is abstracted behind an interface.
type Runner interface {
	Run(ctx context.Context, c Cmd) error
}

// CommandError is returned when a subprocess exits non-zero or cannot start.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command '%s' failed (exit code %d)", e.Command, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, c Cmd) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logged := c.String()
	if c.Quiet {
		logged = c.Name
	}
	log.Debug().Str("cmd", logged).Msg("running")

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &CommandError{
			Command:  logged,
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}
	return nil
}

// Output file modes for RunToFile.
const (
	PublicFile  os.FileMode = 0o644
	PrivateFile os.FileMode = 0o600
)

// RunToFile runs c with its stdout redirected into path, creating it with
// perm. An existing file is narrowed to perm when perm is PrivateFile. A
// partially written file is removed when the command fails.
func RunToFile(ctx context.Context, r Runner, c Cmd, path string, perm os.FileMode) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if perm == PrivateFile {
		if err := out.Chmod(perm); err != nil {
			_ = out.Close()
			return fmt.Errorf("restricting %s: %w", path, err)
		}
	}

	c.Stdout = out
	runErr := r.Run(ctx, c)
	closeErr := out.Close()

	if runErr != nil {
		_ = os.Remove(path)
		return runErr
	}
	if closeErr != nil {
		_ = os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, closeErr)
	}
	return nil
}
