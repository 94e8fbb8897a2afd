package source

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	maxRetries = 5
	maxBackoff = 30 * time.Second
)

// Downloader saves remote workbooks into a local directory, named after the
// last segment of the URL path.
type Downloader struct {
	client  *http.Client
	dir     string
	limiter *rate.Limiter
	backoff time.Duration
}

func NewDownloader(client *http.Client, dir string) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	if dir == "" {
		dir = "."
	}
	return &Downloader{
		client:  client,
		dir:     dir,
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		backoff: time.Second,
	}
}

func (d *Downloader) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid source URL %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." || name == "" {
		return "", fmt.Errorf("source URL %q has no file name", rawURL)
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(d.dir, name)

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err = d.limiter.Wait(ctx); err != nil {
			return "", err
		}
		var retry bool
		retry, err = d.fetchOnce(ctx, rawURL, dest)
		if err == nil {
			return dest, nil
		}
		if !retry {
			return "", err
		}
		backoff := time.Duration(math.Pow(2, float64(attempt))) * d.backoff
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
		log.Debugf("Download of %s failed (%v), retrying in %v...", rawURL, err, backoff)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}
	return "", fmt.Errorf("download %s after %d retries: %w", rawURL, maxRetries, err)
}

// fetchOnce reports whether a failure is worth retrying: transport errors,
// 429 and 5xx are; other statuses are not.
func (d *Downloader) fetchOnce(ctx context.Context, rawURL, dest string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return retry, fmt.Errorf("download %s: unexpected status %s", rawURL, resp.Status)
	}

	tmp, err := os.CreateTemp(d.dir, ".download-*")
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return true, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}
	return false, os.Rename(tmp.Name(), dest)
}
