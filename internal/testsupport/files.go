package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mlsimport/internal/corpus"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// SeedSplit builds an extracted corpus split under dataDir: a transcripts.txt
// holding the given lines and one fake FLAC per utterance identifier.
func SeedSplit(t testing.TB, dataDir, language, split string, lines []string) {
	t.Helper()

	sourceDir := corpus.SplitSourceDir(dataDir, language, split)
	WriteFile(t, filepath.Join(sourceDir, corpus.TranscriptFileName), strings.Join(lines, "\n")+"\n")

	for _, line := range lines {
		id, _, ok := strings.Cut(line, "\t")
		if !ok {
			t.Fatalf("seed line %q has no tab", line)
		}
		rel, err := corpus.AudioRelPath(id)
		if err != nil {
			t.Fatalf("derive audio path for %q: %v", id, err)
		}
		WriteFile(t, filepath.Join(sourceDir, "audio", rel), "fake flac "+id)
	}
}

// SeedMarker creates the extraction marker directory so pipeline runs skip
// the fetch and extract stages in tests.
func SeedMarker(t testing.TB, dataDir string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dataDir, corpus.MarkerDir), 0o755); err != nil {
		t.Fatalf("mkdir marker: %v", err)
	}
}
