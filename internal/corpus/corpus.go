package corpus

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MarkerDir is the subdirectory whose presence marks the archive as extracted.
// The MLS archives share this root, so extraction is tested once per data dir.
const MarkerDir = "MLS"

// TranscriptFileName is the aggregate transcript file name inside each split.
const TranscriptFileName = "transcripts.txt"

// AudioExt is the extension of source audio files in the corpus.
const AudioExt = ".flac"

// Splits returns the corpus partitions in processing order.
func Splits() []string {
	return []string{"train", "test", "dev"}
}

// NormalizeLanguage lowercases and trims a language identifier.
func NormalizeLanguage(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}

// ValidateLanguage rejects language identifiers that would produce unsafe
// paths or URLs. MLS languages are plain lowercase words ("english",
// "portuguese").
func ValidateLanguage(language string) error {
	if language == "" {
		return fmt.Errorf("language must not be empty")
	}
	for _, r := range language {
		if (r < 'a' || r > 'z') && r != '_' {
			return fmt.Errorf("language %q must contain only lowercase letters and underscores", language)
		}
	}
	return nil
}

// ArchiveName returns the tarball file name for a language.
func ArchiveName(language string) string {
	return "mls_" + language + ".tar.gz"
}

// ArchiveURL returns the download URL for a language's archive.
func ArchiveURL(baseURL, language string) string {
	return strings.TrimRight(baseURL, "/") + "/" + ArchiveName(language)
}

// DirName returns the language's corpus directory name under the data dir.
func DirName(language string) string {
	return "mls_" + language
}

// SplitSourceDir returns the extracted source tree for one split.
func SplitSourceDir(dataDir, language, split string) string {
	return filepath.Join(dataDir, DirName(language), split)
}

// SplitWavDir returns the directory transcoded WAV files are written to.
func SplitWavDir(dataDir, language, split string) string {
	return filepath.Join(dataDir, DirName(language), split+"-wav")
}

// ManifestPath returns the CSV manifest path for one split.
func ManifestPath(dataDir, language, split string) string {
	return filepath.Join(dataDir, fmt.Sprintf("mls-%s-%s.csv", language, split))
}
