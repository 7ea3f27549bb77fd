// Package stt hosts the loaded recognition model and the backends that
// actually run inference.
package stt

import (
	"context"

	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/device"
)

// Transcription is fixed to the Taiwanese-Hokkien model's training setup:
// the "zh" script hint and the transcribe task. The model must never be
// asked to translate.
const (
	DefaultLanguage = "zh"
	TaskTranscribe  = "transcribe"
)

// Options carries per-call inference parameters.
type Options struct {
	Language string
	Task     string
}

// Backend runs inference against a concrete model runtime. Implementations
// are not required to be safe for concurrent use; the Host serializes
// access.
type Backend interface {
	// Name identifies the backend in logs and model info.
	Name() string

	// Load prepares the model for the given device profile. It is called
	// exactly once, before any Transcribe call.
	Load(ctx context.Context, profile device.Profile) error

	// Transcribe converts the normalized WAV at wavPath to text.
	Transcribe(ctx context.Context, wavPath string, opts Options) (string, error)

	// ReleaseDeviceMemory drops cached accelerator memory between
	// requests. Backends whose runtime cannot accumulate device state
	// implement this as a no-op.
	ReleaseDeviceMemory() error
}
