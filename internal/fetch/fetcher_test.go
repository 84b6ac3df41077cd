package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"mlsimport/internal/fetch"
	"mlsimport/internal/logging"
)

func TestEnsureArchiveDownloads(t *testing.T) {
	payload := []byte("not really a tarball but good enough")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	dir := t.TempDir()
	f := fetch.New(logging.NewNop(), 5*time.Second)
	path, err := f.EnsureArchive(context.Background(), dir, "mls_english.tar.gz", server.URL)
	if err != nil {
		t.Fatalf("EnsureArchive failed: %v", err)
	}
	if path != filepath.Join(dir, "mls_english.tar.gz") {
		t.Fatalf("unexpected path %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("archive content mismatch")
	}
	if _, err := os.Stat(path + ".partial"); !os.IsNotExist(err) {
		t.Fatal("partial file left behind")
	}
}

func TestEnsureArchiveSkipsExisting(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "mls_english.tar.gz")
	if err := os.WriteFile(path, []byte("existing"), 0o644); err != nil {
		t.Fatalf("seed archive: %v", err)
	}

	f := fetch.New(logging.NewNop(), 5*time.Second)
	got, err := f.EnsureArchive(context.Background(), dir, "mls_english.tar.gz", server.URL)
	if err != nil {
		t.Fatalf("EnsureArchive failed: %v", err)
	}
	if got != path {
		t.Fatalf("unexpected path %q", got)
	}
	if hits.Load() != 0 {
		t.Fatalf("expected no network access, server saw %d requests", hits.Load())
	}
}

func TestEnsureArchiveFailsOnHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	dir := t.TempDir()
	f := fetch.New(logging.NewNop(), 5*time.Second)
	if _, err := f.EnsureArchive(context.Background(), dir, "mls_english.tar.gz", server.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
	if _, err := os.Stat(filepath.Join(dir, "mls_english.tar.gz")); !os.IsNotExist(err) {
		t.Fatal("no archive should exist after failed download")
	}
}

func TestEnsureArchiveHonorsContextCancel(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	f := fetch.New(logging.NewNop(), 5*time.Second)
	if _, err := f.EnsureArchive(ctx, t.TempDir(), "mls_english.tar.gz", server.URL); err == nil {
		t.Fatal("expected error after context cancellation")
	}
}
