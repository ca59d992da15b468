package cmd

import (
	"context"
	"fmt"

	"github.com/stuttgart-things/kubeseal-auto/internal/kubeseal"
)

func (s *session) fetchCert(ctx context.Context) ([]string, error) {
	out := kubeseal.CertFileName(s.contextName())
	if err := s.sealer.FetchCert(ctx, out); err != nil {
		return nil, err
	}
	fmt.Println(successStyle.Render("✓ Saved certificate to " + out))
	return []string{out}, nil
}
