package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// progress is a spinner on a TTY. Without one, updates are printed as
// plain lines.
type progress struct {
	s *spinner.Spinner
	w io.Writer
}

func newProgress(enabled bool, message string) *progress {
	if !enabled {
		return &progress{w: os.Stderr}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	_ = s.Color("cyan")
	s.Start()
	return &progress{s: s}
}

func (p *progress) Update(message string) {
	if p.s == nil {
		p.println(message)
		return
	}
	p.s.Lock()
	p.s.Suffix = " " + message
	p.s.Unlock()
}

// Stop halts the spinner and leaves final on its line when non-empty.
func (p *progress) Stop(final string) {
	if p.s == nil {
		if final != "" {
			p.println("✓ " + final)
		}
		return
	}
	if final != "" {
		p.s.FinalMSG = progressStyle.Render("✓") + " " + final + "\n"
	}
	p.s.Stop()
}

func (p *progress) println(message string) {
	if p.w == nil {
		return
	}
	fmt.Fprintln(p.w, progressStyle.Render(message))
}

func countSuffix(done, total int, path string) string {
	return fmt.Sprintf("Re-encrypting %d/%d %s", done, total, path)
}
