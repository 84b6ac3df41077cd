package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"mlsimport/internal/logging"
	"mlsimport/internal/services"
)

// Fetcher ensures corpus archives exist locally.
type Fetcher struct {
	client   *http.Client
	logger   *slog.Logger
	progress io.Writer
}

// Option configures optional Fetcher behavior.
type Option func(*Fetcher)

// WithClient overrides the HTTP client (used in tests).
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithProgressWriter directs a download progress bar to w. Without it no bar
// is rendered.
func WithProgressWriter(w io.Writer) Option {
	return func(f *Fetcher) {
		f.progress = w
	}
}

// New constructs a Fetcher. requestTimeout bounds connection setup and
// response headers; the body transfer itself has no deadline since corpus
// archives are tens of gigabytes.
func New(logger *slog.Logger, requestTimeout time.Duration, opts ...Option) *Fetcher {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: requestTimeout,
		}).DialContext,
		ResponseHeaderTimeout: requestTimeout,
	}
	f := &Fetcher{
		client:   &http.Client{Transport: transport},
		logger:   logging.NewComponentLogger(logger, "fetch"),
		progress: io.Discard,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// EnsureArchive guarantees that dir/filename exists, downloading it from url
// when absent. Returns the archive path.
func (f *Fetcher) EnsureArchive(ctx context.Context, dir, filename, url string) (string, error) {
	path := filepath.Join(dir, filename)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		f.logger.Info("archive already present", logging.String("path", path), logging.Int64("bytes", info.Size()))
		return path, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}

	f.logger.Info("downloading archive", logging.String("url", url), logging.String("path", path))
	if err := f.download(ctx, url, path); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "fetch", "download archive", "verify the corpus URL and network connectivity", err)
	}
	return path, nil
}

func (f *Fetcher) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}

	partial := path + ".partial"
	out, err := os.Create(partial)
	if err != nil {
		return fmt.Errorf("create partial file: %w", err)
	}
	defer func() {
		out.Close()
		_ = os.Remove(partial)
	}()

	bar := progressbar.NewOptions64(
		resp.ContentLength,
		progressbar.OptionSetWriter(f.progress),
		progressbar.OptionSetDescription("downloading"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(250*time.Millisecond),
	)

	written, err := io.Copy(io.MultiWriter(out, bar), resp.Body)
	if err != nil {
		return fmt.Errorf("transfer body: %w", err)
	}
	if resp.ContentLength >= 0 && written != resp.ContentLength {
		return fmt.Errorf("short download: got %d of %d bytes", written, resp.ContentLength)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close partial file: %w", err)
	}
	if err := os.Rename(partial, path); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	f.logger.Info("download complete", logging.String("path", path), logging.Int64("bytes", written))
	return nil
}
