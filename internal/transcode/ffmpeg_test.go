package transcode_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"mlsimport/internal/logging"
	"mlsimport/internal/services"
	"mlsimport/internal/testsupport"
	"mlsimport/internal/transcode"
)

func TestEnsureWAVTranscodes(t *testing.T) {
	base := t.TempDir()
	logPath := testsupport.StubFFmpeg(t, base)

	src := filepath.Join(base, "audio", "1", "2", "1_2_0.flac")
	dst := filepath.Join(base, "wav", "1_2_0.wav")
	testsupport.WriteFile(t, src, "fake flac")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	f := transcode.NewFFmpeg("ffmpeg", 16000, logging.NewNop())
	size, transcoded, err := f.EnsureWAV(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("EnsureWAV failed: %v", err)
	}
	if !transcoded {
		t.Fatal("expected a transcode to run")
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat dst: %v", err)
	}
	if size != info.Size() {
		t.Fatalf("size %d does not match file size %d", size, info.Size())
	}
	if got := testsupport.FFmpegInvocations(t, logPath); got != 1 {
		t.Fatalf("expected 1 ffmpeg invocation, got %d", got)
	}
}

func TestEnsureWAVSkipsExistingDestination(t *testing.T) {
	base := t.TempDir()
	logPath := testsupport.StubFFmpeg(t, base)

	dst := filepath.Join(base, "1_2_0.wav")
	testsupport.WriteFile(t, dst, "already here")

	f := transcode.NewFFmpeg("ffmpeg", 16000, logging.NewNop())
	size, transcoded, err := f.EnsureWAV(context.Background(), filepath.Join(base, "missing.flac"), dst)
	if err != nil {
		t.Fatalf("EnsureWAV failed: %v", err)
	}
	if transcoded {
		t.Fatal("expected skip for existing wav")
	}
	if size != int64(len("already here")) {
		t.Fatalf("unexpected size %d", size)
	}
	if got := testsupport.FFmpegInvocations(t, logPath); got != 0 {
		t.Fatalf("expected no ffmpeg invocations, got %d", got)
	}
}

func TestEnsureWAVMissingSourceIsFatal(t *testing.T) {
	base := t.TempDir()
	testsupport.StubFFmpeg(t, base)

	f := transcode.NewFFmpeg("ffmpeg", 16000, logging.NewNop())
	_, _, err := f.EnsureWAV(context.Background(), filepath.Join(base, "absent.flac"), filepath.Join(base, "out.wav"))
	if err == nil {
		t.Fatal("expected error for missing source audio")
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound marker, got %v", err)
	}
}

func TestEnsureWAVFailedToolRemovesDestination(t *testing.T) {
	base := t.TempDir()
	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	script := "#!/bin/sh\nfor last; do :; done\nprintf 'junk' > \"$last\"\nexit 1\n"
	if err := os.WriteFile(filepath.Join(binDir, "badffmpeg"), []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	src := filepath.Join(base, "in.flac")
	dst := filepath.Join(base, "out.wav")
	testsupport.WriteFile(t, src, "fake flac")

	f := transcode.NewFFmpeg(filepath.Join(binDir, "badffmpeg"), 16000, logging.NewNop())
	_, _, err := f.EnsureWAV(context.Background(), src, dst)
	if err == nil {
		t.Fatal("expected error from failing tool")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool marker, got %v", err)
	}
	if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
		t.Fatal("partial wav should have been removed")
	}
}

func TestRunPoolConvertsAllTasks(t *testing.T) {
	base := t.TempDir()
	logPath := testsupport.StubFFmpeg(t, base)

	var tasks []transcode.Task
	for _, id := range []string{"1_2_0", "1_2_1", "3_4_0", "3_4_1"} {
		src := filepath.Join(base, "src", id+".flac")
		testsupport.WriteFile(t, src, "flac "+id)
		tasks = append(tasks, transcode.Task{Source: src, Dest: filepath.Join(base, id+".wav")})
	}

	var done atomic.Int64
	f := transcode.NewFFmpeg("ffmpeg", 16000, logging.NewNop())
	outcomes, err := f.Run(context.Background(), tasks, 2, func() { done.Add(1) })
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(outcomes) != len(tasks) {
		t.Fatalf("expected %d outcomes, got %d", len(tasks), len(outcomes))
	}
	for i, outcome := range outcomes {
		if !outcome.Transcoded || outcome.Size == 0 {
			t.Fatalf("task %d not transcoded: %+v", i, outcome)
		}
	}
	if got := testsupport.FFmpegInvocations(t, logPath); got != len(tasks) {
		t.Fatalf("expected %d invocations, got %d", len(tasks), got)
	}
	if done.Load() != int64(len(tasks)) {
		t.Fatalf("expected %d progress callbacks, got %d", len(tasks), done.Load())
	}
}

func TestRunPoolStopsOnFirstError(t *testing.T) {
	base := t.TempDir()
	testsupport.StubFFmpeg(t, base)

	src := filepath.Join(base, "ok.flac")
	testsupport.WriteFile(t, src, "flac")
	tasks := []transcode.Task{
		{Source: filepath.Join(base, "missing.flac"), Dest: filepath.Join(base, "a.wav")},
		{Source: src, Dest: filepath.Join(base, "b.wav")},
	}

	f := transcode.NewFFmpeg("ffmpeg", 16000, logging.NewNop())
	if _, err := f.Run(context.Background(), tasks, 1, nil); err == nil {
		t.Fatal("expected pool to surface the missing source error")
	}
}
