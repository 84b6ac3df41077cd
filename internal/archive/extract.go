package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mlsimport/internal/logging"
	"mlsimport/internal/services"
)

// Extractor unpacks tar.gz archives with existence-based skip semantics.
type Extractor struct {
	logger *slog.Logger
}

// New constructs an Extractor.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logging.NewComponentLogger(logger, "extract")}
}

// EnsureExtracted guarantees destDir/marker exists after the call. When the
// marker is already present extraction is skipped entirely; otherwise every
// archive entry is unpacked into destDir.
func (e *Extractor) EnsureExtracted(ctx context.Context, destDir, marker, archivePath string) error {
	markerPath := filepath.Join(destDir, marker)
	if info, err := os.Stat(markerPath); err == nil && info.IsDir() {
		e.logger.Info("archive already extracted", logging.String("marker", markerPath))
		return nil
	}

	e.logger.Info("extracting archive", logging.String("archive", archivePath), logging.String("dest", destDir))
	if err := e.extract(ctx, destDir, archivePath); err != nil {
		return services.Wrap(services.ErrValidation, "extract", "unpack archive", "the archive may be corrupt; delete it and re-run to download again", err)
	}
	return nil
}

func (e *Extractor) extract(ctx context.Context, destDir, archivePath string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	reader := tar.NewReader(gz)
	entries := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		header, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar entry: %w", err)
		}
		if err := e.writeEntry(destDir, header, reader); err != nil {
			return err
		}
		entries++
	}
	e.logger.Info("extraction complete", logging.Int("entries", entries))
	return nil
}

func (e *Extractor) writeEntry(destDir string, header *tar.Header, r io.Reader) error {
	target, err := securePath(destDir, header.Name)
	if err != nil {
		return err
	}

	switch header.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(target, 0o755)
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create parent directory: %w", err)
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, header.FileInfo().Mode().Perm())
		if err != nil {
			return fmt.Errorf("create file %s: %w", target, err)
		}
		if _, err := io.Copy(out, r); err != nil {
			out.Close()
			return fmt.Errorf("write file %s: %w", target, err)
		}
		return out.Close()
	default:
		// Symlinks, devices, and hardlinks do not occur in corpus archives.
		e.logger.Warn("skipping unsupported tar entry",
			logging.String("name", header.Name),
			logging.Int("type", int(header.Typeflag)))
		return nil
	}
}

// securePath rejects entries that would escape the destination directory.
func securePath(destDir, name string) (string, error) {
	cleaned := filepath.Clean(name)
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("tar entry %q escapes destination", name)
	}
	return filepath.Join(destDir, cleaned), nil
}
