package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Normalized is the canonical model input produced by a Normalizer. The
// file at Path is owned by the caller: normalization never deletes its
// own output, and the caller must remove it before the request returns.
type Normalized struct {
	Path       string
	SampleRate int
	Samples    []float32
	Warning    string
}

// Normalizer converts an input audio file into normalized mono PCM. The
// primary path decodes through ffmpeg; when that is unavailable a pure-Go
// fallback handles the natively parseable formats at degraded fidelity.
type Normalizer struct {
	logger *slog.Logger

	// codecProbe is swapped out in tests to force either path.
	codecProbe func() bool
}

func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		logger:     logger,
		codecProbe: FFmpegAvailable,
	}
}

// NewNormalizerWithProbe uses a custom codec-availability probe instead
// of the process-wide ffmpeg probe; tests use it to pin a decode path.
func NewNormalizerWithProbe(logger *slog.Logger, probe func() bool) *Normalizer {
	n := NewNormalizer(logger)
	if probe != nil {
		n.codecProbe = probe
	}
	return n
}

// CodecAvailable reports whether the full codec toolchain is usable.
func (n *Normalizer) CodecAvailable() bool {
	return n.codecProbe()
}

// Normalize decodes path into mono, peak-normalized float32 PCM and
// writes it to a fresh temporary WAV file.
//
// On the primary path the output is resampled to 16 kHz. On the fallback
// path the native rate is kept and a mismatch is surfaced as a warning
// rather than an error: resampling without a codec toolchain would be
// lossy guesswork, so degraded recognition quality is accepted and made
// visible instead of silently repaired.
func (n *Normalizer) Normalize(ctx context.Context, path string) (*Normalized, error) {
	if !IsSupported(path) {
		return nil, fmt.Errorf("unsupported audio format %q", Ext(path))
	}

	var (
		samples []float32
		rate    int
		warning string
		err     error
	)

	if n.CodecAvailable() {
		samples, err = decodeFFmpeg(ctx, path)
		rate = TargetSampleRate
	} else {
		n.logger.Warn("ffmpeg unavailable, using native fallback decoder", "path", path)
		samples, rate, err = decodeNative(path)
		if err == nil && rate != TargetSampleRate {
			warning = fmt.Sprintf("native sample rate %d Hz is not %d Hz; recognition quality may degrade", rate, TargetSampleRate)
			n.logger.Warn("sample rate mismatch on fallback path",
				"path", path, "rate", rate, "want", TargetSampleRate)
		}
	}
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("no audio samples decoded from %s", path)
	}

	peakNormalize(samples)

	tmp, err := os.CreateTemp("", "taistt-norm-*.wav")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := WriteWAV(tmpPath, samples, rate); err != nil {
		os.Remove(tmpPath)
		return nil, err
	}

	return &Normalized{
		Path:       tmpPath,
		SampleRate: rate,
		Samples:    samples,
		Warning:    warning,
	}, nil
}
