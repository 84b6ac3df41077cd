package corpus

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Entry is one utterance parsed from an aggregate transcript file.
type Entry struct {
	ID   string
	Text string
}

// maxLineBytes bounds transcript line length; MLS utterances run well under
// this but bufio.Scanner's default is too small for long read-aloud passages.
const maxLineBytes = 1 << 20

// ParseLine splits a transcript line on its first tab into identifier and raw
// text. A line without a tab separator is malformed and fatal to the import.
func ParseLine(line string) (Entry, error) {
	idx := strings.IndexByte(line, '\t')
	if idx < 0 {
		return Entry{}, fmt.Errorf("transcript line %q has no tab separator", truncate(line, 60))
	}
	return Entry{ID: line[:idx], Text: line[idx+1:]}, nil
}

// NormalizeTranscript applies canonical compatibility decomposition, drops
// bytes that do not survive UTF-8 re-encoding, lowercases, and trims
// surrounding whitespace. The transformation is idempotent.
func NormalizeTranscript(text string) string {
	decomposed := norm.NFKD.String(text)
	decomposed = strings.ToValidUTF8(decomposed, "")
	return strings.TrimSpace(strings.ToLower(decomposed))
}

// FindTranscripts walks root for aggregate transcript files. The result is
// sorted so processing order is stable across platforms. A missing root yields
// no files, matching the empty-split contract.
func FindTranscripts(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == TranscriptFileName {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// ReadTranscripts parses every line of one aggregate transcript file.
// Transcript text is returned raw; callers normalize.
func ReadTranscripts(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript file: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		entry, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return entries, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
