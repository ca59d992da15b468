package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgress_WithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := &progress{w: &buf}

	p.Update(countSuffix(1, 2, "apps/db.yaml"))
	p.Update(countSuffix(2, 2, "apps/web.yaml"))
	p.Stop("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}
	for i, want := range []string{"Re-encrypting 1/2 apps/db.yaml", "Re-encrypting 2/2 apps/web.yaml", "✓ done"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], want)
		}
	}
}

func TestProgress_DisabledWritesToStderr(t *testing.T) {
	p := newProgress(false, "Scanning")
	if p.s != nil {
		t.Fatal("spinner must not start without a terminal")
	}
	if p.w == nil {
		t.Error("expected progress lines to have a writer")
	}
}

func TestProgress_StopWithoutFinal(t *testing.T) {
	var buf bytes.Buffer
	(&progress{w: &buf}).Stop("")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
