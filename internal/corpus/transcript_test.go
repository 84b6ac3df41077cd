package corpus_test

import (
	"os"
	"path/filepath"
	"testing"

	"mlsimport/internal/corpus"
)

func TestParseLineRoundTrip(t *testing.T) {
	lines := []string{
		"1_2_0\thello world",
		"4180_10101_0\tText with\ttabs inside the transcript",
		"9_9_9\t",
	}
	for _, line := range lines {
		entry, err := corpus.ParseLine(line)
		if err != nil {
			t.Fatalf("ParseLine(%q) failed: %v", line, err)
		}
		if rejoined := entry.ID + "\t" + entry.Text; rejoined != line {
			t.Errorf("round trip mismatch: %q != %q", rejoined, line)
		}
	}
}

func TestParseLineRequiresTab(t *testing.T) {
	if _, err := corpus.ParseLine("1_2_0 hello world"); err == nil {
		t.Fatal("expected error for line without tab")
	}
}

func TestNormalizeTranscript(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello world"},
		{"  padded  ", "padded"},
		{"café", "café"},            // NFKD decomposes the accent
		{"ﬁne", "fine"},                   // ligature fi expands
		{"broken \xff byte", "broken  byte"},   // invalid UTF-8 dropped
		{"", ""},
	}
	for _, tc := range cases {
		if got := corpus.NormalizeTranscript(tc.in); got != tc.want {
			t.Errorf("NormalizeTranscript(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeTranscriptIdempotent(t *testing.T) {
	inputs := []string{
		"Hello World",
		"café au lait",
		"ﬁne print ①",
		"uma frase em português",
	}
	for _, in := range inputs {
		once := corpus.NormalizeTranscript(in)
		if twice := corpus.NormalizeTranscript(once); twice != once {
			t.Errorf("not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestFindTranscriptsSortedAndRecursive(t *testing.T) {
	root := t.TempDir()
	paths := []string{
		filepath.Join(root, "b", corpus.TranscriptFileName),
		filepath.Join(root, "a", "nested", corpus.TranscriptFileName),
	}
	for _, p := range paths {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte("1_2_0\thi\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "b", "other.txt"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	found, err := corpus.FindTranscripts(root)
	if err != nil {
		t.Fatalf("FindTranscripts failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 transcript files, got %v", found)
	}
	if found[0] != paths[1] || found[1] != paths[0] {
		t.Fatalf("expected sorted order, got %v", found)
	}
}

func TestFindTranscriptsMissingRoot(t *testing.T) {
	found, err := corpus.FindTranscripts(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("FindTranscripts failed: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("expected no files, got %v", found)
	}
}

func TestReadTranscripts(t *testing.T) {
	path := filepath.Join(t.TempDir(), corpus.TranscriptFileName)
	content := "1_2_0\thello world\n1_2_1\tSecond Line\n\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := corpus.ReadTranscripts(path)
	if err != nil {
		t.Fatalf("ReadTranscripts failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "1_2_0" || entries[0].Text != "hello world" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Text != "Second Line" {
		t.Fatalf("expected raw text preserved, got %q", entries[1].Text)
	}
}

func TestReadTranscriptsMalformedLineFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), corpus.TranscriptFileName)
	if err := os.WriteFile(path, []byte("1_2_0 no tab here\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := corpus.ReadTranscripts(path); err == nil {
		t.Fatal("expected error for malformed line")
	}
}
