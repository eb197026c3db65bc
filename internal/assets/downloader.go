package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"keepsake/internal/services"
)

// HTTPDoer describes the HTTP client used for asset downloads.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Downloader fetches binary assets over HTTP. Instances are safe for
// concurrent use; the orchestrator downloads the splat and collider assets
// in parallel through one Downloader.
type Downloader struct {
	client HTTPDoer
}

// NewDownloader constructs a Downloader. A nil doer falls back to an
// http.Client with the given timeout (zero means no timeout).
func NewDownloader(client HTTPDoer, timeout time.Duration) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Downloader{client: client}
}

// Download issues a GET for the asset URL and returns the body bytes. Any
// non-success status is a failure, never silently ignored.
func (d *Downloader) Download(ctx context.Context, assetURL string) ([]byte, error) {
	if strings.TrimSpace(assetURL) == "" {
		return nil, services.Wrap(services.ErrValidation, "assets", "download", "asset url is empty", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "assets", "download", assetURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, services.Wrap(services.ErrTransport, "assets", "download",
			fmt.Sprintf("%s: status %d", assetURL, resp.StatusCode), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "assets", "download", assetURL, err)
	}
	return data, nil
}
