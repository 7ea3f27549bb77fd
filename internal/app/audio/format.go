// Package audio converts arbitrary input audio into the canonical form
// the recognition model expects: mono float32 PCM at 16 kHz, amplitude
// within [-1, 1], written to a scoped temporary WAV file.
package audio

import (
	"path/filepath"
	"strings"
)

// TargetSampleRate is the sample rate the recognition model was trained on.
const TargetSampleRate = 16000

// supportedExtensions are the input containers accepted by the pipeline.
var supportedExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
}

// codecExtensions are formats that need the full codec toolchain for
// reliable decoding. WAV and FLAC are left out: WAV parses natively and
// FLAC fails either way without ffmpeg.
var codecExtensions = map[string]bool{
	".mp3": true,
	".m4a": true,
	".ogg": true,
}

// Ext returns the lower-cased extension of path, including the dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// IsSupported reports whether the file's extension is an accepted
// input container. The check is case-insensitive.
func IsSupported(path string) bool {
	return supportedExtensions[Ext(path)]
}

// NeedsCodec reports whether transcoding the file benefits from the
// external codec toolchain being installed.
func NeedsCodec(path string) bool {
	return codecExtensions[Ext(path)]
}

// SupportedExtensions returns the accepted extension list for display.
func SupportedExtensions() []string {
	return []string{".wav", ".mp3", ".m4a", ".flac", ".ogg"}
}
