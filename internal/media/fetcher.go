// Package media downloads remote images into the local static tree. Like the
// geolocation lookup this is a degrade-to-default collaborator: a failed or
// undersized download yields the placeholder path, never an error.
package media

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Downloads smaller than this are treated as broken (error pages, empty
// bodies) and discarded.
const minImageSize = 1024

type Fetcher struct {
	staticDir   string
	placeholder string
	client      *http.Client
	logger      *slog.Logger
}

func NewFetcher(staticDir, placeholder string, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		staticDir:   staticDir,
		placeholder: placeholder,
		client:      &http.Client{Timeout: 15 * time.Second},
		logger:      logger,
	}
}

// Fetch downloads remoteURL into staticDir/subdir and returns the web path of
// the saved file, or the placeholder path on any failure.
func (f *Fetcher) Fetch(ctx context.Context, remoteURL, subdir string) string {
	if !strings.HasPrefix(remoteURL, "http://") && !strings.HasPrefix(remoteURL, "https://") {
		return f.placeholder
	}

	dir := filepath.Join(f.staticDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		f.logger.Warn("create image dir failed", "dir", dir, "error", err)
		return f.placeholder
	}

	filename := subdir + "_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12] + ".jpg"
	savePath := filepath.Join(dir, filename)
	webPath := "/static/" + subdir + "/" + filename

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return f.placeholder
	}
	// Some poster CDNs reject requests without a browser-ish user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("image download failed", "url", remoteURL, "error", err)
		return f.placeholder
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("image download returned non-200", "url", remoteURL, "status", resp.StatusCode)
		return f.placeholder
	}

	out, err := os.Create(savePath)
	if err != nil {
		f.logger.Warn("image save failed", "path", savePath, "error", err)
		return f.placeholder
	}
	written, err := io.Copy(out, resp.Body)
	out.Close()
	if err != nil || written < minImageSize {
		os.Remove(savePath)
		f.logger.Warn("image discarded", "url", remoteURL, "bytes", written, "error", err)
		return f.placeholder
	}
	return webPath
}
