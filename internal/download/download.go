// Package download fetches a release archive over HTTPS and reports the
// digest of the bytes it wrote. Comparing that digest is left to the caller.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/disk"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/checksum"
)

// DefaultUserAgent is sent with every download.
const DefaultUserAgent = "aidlc-workflows-helper"

// Kind classifies a download failure.
type Kind int

const (
	// KindNetwork covers transport failures and non-2xx responses.
	KindNetwork Kind = iota + 1
	// KindFilesystem covers local write failures and lack of space.
	KindFilesystem
)

// Error is returned by Fetch.
type Error struct {
	Kind       Kind
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindNetwork && e.StatusCode != 0:
		return fmt.Sprintf("download returned an error status: %d", e.StatusCode)
	case e.Kind == KindNetwork:
		return fmt.Sprintf("download failed: %v", e.Err)
	default:
		return fmt.Sprintf("write download: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Downloader performs single-attempt GET downloads. There is no retry.
type Downloader struct {
	Client    *http.Client
	UserAgent string
	// MinFree is extra headroom required beyond the announced body size.
	MinFree uint64
	Logger  *slog.Logger
}

// New returns a Downloader using client.
func New(client *http.Client) *Downloader {
	return &Downloader{
		Client:    client,
		UserAgent: DefaultUserAgent,
		MinFree:   1 << 20,
		Logger:    slog.Default(),
	}
}

// Fetch downloads url into dest, creating parent directories, and returns
// the hex digest of the body.
func (d *Downloader) Fetch(ctx context.Context, url, dest string) (string, error) {
	destDir := filepath.Dir(dest)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", &Error{Kind: KindFilesystem, URL: url, Err: fmt.Errorf("create dest dir: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &Error{Kind: KindNetwork, URL: url, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", d.UserAgent)

	resp, err := d.Client.Do(req)
	if err != nil {
		return "", &Error{Kind: KindNetwork, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{
			Kind:       KindNetwork,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	if err := d.checkFree(ctx, destDir, resp.ContentLength); err != nil {
		return "", &Error{Kind: KindFilesystem, URL: url, Err: err}
	}

	sum, n, err := writeBody(resp.Body, dest)
	if err != nil {
		return "", err
	}

	d.logger().Debug("download complete",
		slog.String("url", url),
		slog.String("size", humanize.Bytes(uint64(n))),
		slog.String("sha256", sum),
	)

	return sum, nil
}

// writeBody streams body into a temporary sibling of dest while hashing it,
// then renames it into place.
func writeBody(body io.Reader, dest string) (string, int64, error) {
	tmpPath := dest + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return "", 0, &Error{Kind: KindFilesystem, Err: fmt.Errorf("create temp file: %w", err)}
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	hasher := checksum.NewWriter()
	n, err := io.Copy(io.MultiWriter(tmpFile, hasher), body)
	if err != nil {
		return "", 0, &Error{Kind: KindNetwork, Err: fmt.Errorf("read download body: %w", err)}
	}

	if err := tmpFile.Close(); err != nil {
		return "", 0, &Error{Kind: KindFilesystem, Err: fmt.Errorf("close temp file: %w", err)}
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return "", 0, &Error{Kind: KindFilesystem, Err: fmt.Errorf("rename temp file: %w", err)}
	}

	cleanupNeeded = false
	return hasher.Sum(), n, nil
}

// checkFree fails early when the destination volume cannot hold the
// announced body. Unknown sizes and unsupported platforms are not checked.
func (d *Downloader) checkFree(ctx context.Context, dir string, size int64) error {
	if size <= 0 {
		return nil
	}

	usage, err := disk.UsageWithContext(ctx, dir)
	if err != nil {
		d.logger().Debug("free space check skipped", slog.String("dir", dir), slog.Any("err", err))
		return nil
	}

	need := uint64(size) + d.MinFree
	if usage.Free < need {
		return fmt.Errorf("not enough free space in %s: need %s, have %s",
			dir, humanize.Bytes(need), humanize.Bytes(usage.Free))
	}

	return nil
}

func (d *Downloader) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}
