package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

func (s *session) reencrypt(ctx context.Context) ([]string, error) {
	dir := s.run.ReencryptTo

	p := newProgress(s.run.Interactive, "Scanning "+dir)
	summary, err := s.sealer.Reencrypt(ctx, dir, func(done, total int, path string) {
		p.Update(countSuffix(done, total, path))
		log.Debug().Int("done", done).Int("total", total).Str("file", path).Msg("progress")
	})
	if err != nil {
		p.Stop("")
		return nil, err
	}
	p.Stop("")

	if len(summary.Files) == 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("No SealedSecrets found in %s", dir)))
		return nil, nil
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Re-encrypted %d SealedSecret(s)", len(summary.Files))))
	rows := make([]summaryRow, 0, len(summary.Files)+2)
	for _, f := range summary.Files {
		rows = append(rows, summaryRow{"✓", f})
	}
	if summary.Skipped > 0 {
		rows = append(rows, summaryRow{"Skipped", fmt.Sprintf("%d other file(s)", summary.Skipped)})
	}
	rows = append(rows, s.targetRow())
	fmt.Println(renderSummary("Re-encrypted "+dir, rows))
	return summary.Files, nil
}
