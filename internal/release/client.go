package release

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is where sealed-secrets publishes release assets.
const DefaultBaseURL = "https://github.com/bitnami-labs/sealed-secrets/releases/download"

// Client downloads release assets over HTTP.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new release client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWithHTTPClient creates a new release client with a custom HTTP client
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
	}
}

// AssetURL returns the download URL of the kubeseal archive for version.
func (c *Client) AssetURL(version string, p Platform) string {
	return fmt.Sprintf("%s/v%s/kubeseal-%s-%s-%s.tar.gz", c.BaseURL, version, version, p.OS, p.Arch)
}

// Download streams the body at url into w. A 404 maps to ErrBinaryNotFound.
func (c *Client) Download(ctx context.Context, url string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: no release asset at %s", ErrBinaryNotFound, url)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("download returned %d: %s", resp.StatusCode, string(body))
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	return nil
}
