package runner

import (
	"context"
	"io"
	"strings"
)

// MockRunner records calls and returns preconfigured responses.
// Use this in tests to avoid real subprocess execution.
// Set RunFn for dynamic per-call responses, otherwise Out is written to
// the command's stdout and Err is returned.
type MockRunner struct {
	Calls  [][]string
	Stdins []string
	Quiet  []bool
	Out    string
	Err    error
	RunFn  func(c Cmd) error
}

func (m *MockRunner) Run(_ context.Context, c Cmd) error {
	m.Calls = append(m.Calls, append([]string{c.Name}, c.Args...))
	m.Quiet = append(m.Quiet, c.Quiet)

	stdin := ""
	if c.Stdin != nil {
		data, err := io.ReadAll(c.Stdin)
		if err != nil {
			return err
		}
		stdin = string(data)
		c.Stdin = strings.NewReader(stdin)
	}
	m.Stdins = append(m.Stdins, stdin)

	if m.RunFn != nil {
		return m.RunFn(c)
	}
	if m.Out != "" && c.Stdout != nil {
		if _, err := io.WriteString(c.Stdout, m.Out); err != nil {
			return err
		}
	}
	return m.Err
}
