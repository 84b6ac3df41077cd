package transcode

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"mlsimport/internal/logging"
	"mlsimport/internal/services"
)

// FFmpeg runs the ffmpeg binary to resample audio files.
type FFmpeg struct {
	binary     string
	sampleRate int
	logger     *slog.Logger
}

// NewFFmpeg constructs a transcoder targeting the given sample rate.
func NewFFmpeg(binary string, sampleRate int, logger *slog.Logger) *FFmpeg {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{
		binary:     binary,
		sampleRate: sampleRate,
		logger:     logging.NewComponentLogger(logger, "transcode"),
	}
}

// Binary returns the configured ffmpeg executable.
func (f *FFmpeg) Binary() string { return f.binary }

// EnsureWAV guarantees dst exists as a WAV of src at the target sample rate
// and returns its size in bytes. An existing destination is left untouched.
// The bool reports whether a transcode actually ran.
func (f *FFmpeg) EnsureWAV(ctx context.Context, src, dst string) (int64, bool, error) {
	if info, err := os.Stat(dst); err == nil && !info.IsDir() {
		return info.Size(), false, nil
	}

	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return 0, false, services.Wrap(services.ErrNotFound, "convert", "locate source audio", src, err)
		}
		return 0, false, fmt.Errorf("stat source audio: %w", err)
	}

	if err := f.run(ctx, src, dst); err != nil {
		// Remove whatever ffmpeg left behind so the next run retries.
		_ = os.Remove(dst)
		return 0, false, services.Wrap(services.ErrExternalTool, "convert", "transcode audio", src, err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		return 0, false, fmt.Errorf("stat transcoded wav: %w", err)
	}
	return info.Size(), true, nil
}

func (f *FFmpeg) run(ctx context.Context, src, dst string) error {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", src,
		"-ar", strconv.Itoa(f.sampleRate),
		"-y",
		dst,
	}
	cmd := exec.CommandContext(ctx, f.binary, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	f.logger.Debug("running ffmpeg", logging.String("src", src), logging.String("dst", dst))
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("%s: %w: %s", f.binary, err, detail)
		}
		return fmt.Errorf("%s: %w", f.binary, err)
	}
	return nil
}
