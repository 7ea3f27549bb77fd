package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// decodeNative is the degraded fallback used when ffmpeg is absent. It
// handles the containers pure-Go decoders can parse (WAV, MP3, Ogg
// Vorbis) and reports the stream's native sample rate untouched; the
// caller decides what a non-16 kHz rate means. M4A and FLAC have no
// native decoder and fail here.
func decodeNative(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	switch Ext(path) {
	case ".wav":
		return decodeWAV(f)
	case ".mp3":
		return decodeMP3(f)
	case ".ogg":
		return decodeOggVorbis(f)
	default:
		return nil, 0, fmt.Errorf("format %s needs the ffmpeg toolchain, which is not installed", Ext(path))
	}
}

func decodeWAV(r io.ReadSeeker) ([]float32, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, errors.New("not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("reading WAV PCM: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, 0, errors.New("WAV file contains no samples")
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}

	channels := 1
	rate := TargetSampleRate
	if buf.Format != nil {
		if buf.Format.NumChannels > 0 {
			channels = buf.Format.NumChannels
		}
		if buf.Format.SampleRate > 0 {
			rate = buf.Format.SampleRate
		}
	}

	samples := intToFloat32(buf.Data, bitDepth)
	return downmix(samples, channels), rate, nil
}

func decodeMP3(r io.Reader) ([]float32, int, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding MP3: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, fmt.Errorf("reading MP3 stream: %w", err)
	}

	// go-mp3 always outputs interleaved 16-bit stereo.
	samples := make([]float32, len(raw)/2)
	for i := range samples {
		v := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		samples[i] = float32(v) / 32768
	}
	return downmix(samples, 2), dec.SampleRate(), nil
}

func decodeOggVorbis(r io.Reader) ([]float32, int, error) {
	pcm, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding Ogg Vorbis: %w", err)
	}
	if format == nil || format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, 0, errors.New("invalid Ogg Vorbis stream")
	}
	return downmix(pcm, format.Channels), format.SampleRate, nil
}

// intToFloat32 scales integer PCM of the given bit depth into [-1, 1].
func intToFloat32(data []int, bitDepth int) []float32 {
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))
	out := make([]float32, len(data))
	for i, v := range data {
		s := float64(v) * scale
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		out[i] = float32(s)
	}
	return out
}

// downmix collapses interleaved multi-channel audio to mono by averaging
// channels. Frame count is preserved.
func downmix(in []float32, channels int) []float32 {
	if channels <= 1 {
		return in
	}
	frames := len(in) / channels
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		base := i * channels
		for c := 0; c < channels; c++ {
			sum += float64(in[base+c])
		}
		out[i] = float32(sum / float64(channels))
	}
	return out
}

// peakNormalize scales samples so the loudest one sits at full scale.
// The epsilon keeps all-silence input from dividing by zero.
func peakNormalize(samples []float32) {
	const epsilon = 1e-8

	peak := 0.0
	for _, s := range samples {
		a := float64(s)
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
		}
	}

	scale := 1.0 / (peak + epsilon)
	for i, s := range samples {
		samples[i] = float32(float64(s) * scale)
	}
}
