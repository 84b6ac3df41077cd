package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"mlsimport/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Transcode.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBaseURL overrides the download base URL on the test config.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Download.BaseURL = url
	}
}

// WithWorkers overrides the transcode worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcode.Workers = n
	}
}

// WithStubbedFFmpeg installs a fake ffmpeg on PATH that writes a small WAV
// header to its final argument and appends one line per invocation to
// <bindir>/ffmpeg.log. Returns are wired through the config's ffmpeg binary.
func WithStubbedFFmpeg() ConfigOption {
	return func(b *configBuilder) {
		StubFFmpeg(b.t, b.baseDir)
	}
}

// StubFFmpeg writes a fake ffmpeg executable under baseDir/bin, prepends the
// directory to PATH, and returns the path of its invocation log.
func StubFFmpeg(t testing.TB, baseDir string) string {
	t.Helper()

	binDir := filepath.Join(baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	logPath := filepath.Join(binDir, "ffmpeg.log")
	// The stub mimics "ffmpeg ... -y DST": it records the invocation and
	// writes a tiny RIFF header to the last argument.
	script := "#!/bin/sh\n" +
		"echo \"$@\" >> " + logPath + "\n" +
		"for last; do :; done\n" +
		"printf 'RIFFWAVE' > \"$last\"\n"
	if err := os.WriteFile(filepath.Join(binDir, "ffmpeg"), []byte(script), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
	return logPath
}

// FFmpegInvocations counts lines in a stub ffmpeg invocation log. A missing
// log means the stub never ran.
func FFmpegInvocations(t testing.TB, logPath string) int {
	t.Helper()
	data, err := os.ReadFile(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0
		}
		t.Fatalf("read ffmpeg log: %v", err)
	}
	count := 0
	for _, b := range data {
		if b == '\n' {
			count++
		}
	}
	return count
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
