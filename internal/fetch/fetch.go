package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"
)

// httpClient carries a generous timeout so a hung mirror cannot stall the
// remaining catalog indefinitely.
var httpClient = &http.Client{Timeout: 10 * time.Minute}

// SetTimeout adjusts the transfer timeout. Call before any downloads start.
func SetTimeout(d time.Duration) {
	if d > 0 {
		httpClient.Timeout = d
	}
}

// TransportError marks a failure to retrieve an artifact over the network.
// Callers decide whether it is fatal (bootstrap) or recorded and skipped
// (feature enable, per-item installs).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Download fetches downloadURL into dir, writing through a temp file so a
// partial transfer never surfaces under the final name. It returns the local
// path of the completed artifact.
func Download(ctx context.Context, dir, downloadURL string) (string, error) {
	dest, err := destPath(dir, downloadURL)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("prepare download destination: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "rigup/1.0")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", &TransportError{URL: downloadURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TransportError{URL: downloadURL, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	tmpFile, err := os.CreateTemp(dir, "download-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		tmpFile.Close()
		return "", &TransportError{URL: downloadURL, Err: err}
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return "", fmt.Errorf("finalize download: %w", err)
	}
	return dest, nil
}

func destPath(dir, downloadURL string) (string, error) {
	parsed, err := url.Parse(downloadURL)
	if err != nil {
		return "", fmt.Errorf("parse download url: %w", err)
	}
	base := path.Base(parsed.Path)
	if base == "." || base == "" || base == "/" {
		return "", fmt.Errorf("infer artifact name from url: %s", downloadURL)
	}
	return filepath.Join(dir, base), nil
}
