package corpus

import (
	"fmt"
	"path/filepath"
	"strings"
)

// AudioRelPath maps an utterance identifier to its audio file location
// relative to a split's "audio" directory. The first two underscore-delimited
// components become nested subdirectories: "A_B_C" resolves to
// "A/B/A_B_C.flac".
func AudioRelPath(id string) (string, error) {
	parts := strings.Split(id, "_")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("utterance identifier %q is not underscore-delimited", id)
	}
	return filepath.Join(parts[0], parts[1], id+AudioExt), nil
}

// WavFileName returns the destination WAV file name for an utterance.
func WavFileName(id string) string {
	return id + ".wav"
}
