package deps_test

import (
	"testing"

	"mlsimport/internal/deps"
	"mlsimport/internal/testsupport"
)

func TestCheckReportsAvailability(t *testing.T) {
	testsupport.StubFFmpeg(t, t.TempDir())

	statuses := deps.Check([]deps.Requirement{
		{Name: "FFmpeg", Command: "ffmpeg", Description: "transcoder"},
		{Name: "Ghost", Command: "definitely-not-installed-binary"},
		{Name: "Unset", Command: ""},
	})

	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available {
		t.Fatalf("expected stubbed ffmpeg to be available: %+v", statuses[0])
	}
	if statuses[1].Available || statuses[1].Detail == "" {
		t.Fatalf("expected missing binary detail: %+v", statuses[1])
	}
	if statuses[2].Available || statuses[2].Detail != "command not configured" {
		t.Fatalf("expected unconfigured detail: %+v", statuses[2])
	}
}

func TestForUsesConfiguredBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Transcode.FFmpegBinary = "/opt/ffmpeg/bin/ffmpeg"

	reqs := deps.For(cfg)
	if len(reqs) != 1 || reqs[0].Command != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected requirements: %+v", reqs)
	}
}
