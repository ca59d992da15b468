package gitops

import (
	"fmt"
	"os"
)

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// ResolveCredentialsOptional fills empty user/token from GIT_USER/GITHUB_USER
// and GIT_TOKEN/GITHUB_TOKEN. Missing values stay empty, which is enough
// for a local commit.
func ResolveCredentialsOptional(user, token string) (string, string) {
	if user == "" {
		user = firstEnv("GIT_USER", "GITHUB_USER")
	}
	if token == "" {
		token = firstEnv("GIT_TOKEN", "GITHUB_TOKEN")
	}
	return user, token
}

// ResolveCredentials is ResolveCredentialsOptional but fails when either
// value is still missing, as a push needs both.
func ResolveCredentials(user, token string) (string, string, error) {
	user, token = ResolveCredentialsOptional(user, token)
	if user == "" || token == "" {
		return "", "", fmt.Errorf("git credentials required:\nset --git-user/--git-token or GIT_USER/GIT_TOKEN (or GITHUB_USER/GITHUB_TOKEN) environment variables")
	}
	return user, token, nil
}
