package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

var (
	ffmpegOnce      sync.Once
	ffmpegAvailable bool
)

// FFmpegAvailable probes once, for the process lifetime, whether a usable
// ffmpeg binary can be found. Besides PATH it checks FFMPEG_BIN_DIR and a
// local ffmpeg_bin directory; when a bundled binary works, its directory
// is prepended to PATH so later exec calls resolve it. The probe is
// best-effort and never panics.
func FFmpegAvailable() bool {
	ffmpegOnce.Do(func() {
		ffmpegAvailable = probeFFmpeg()
	})
	return ffmpegAvailable
}

func probeFFmpeg() bool {
	if runFFmpegVersion("ffmpeg") {
		return true
	}

	candidates := []string{
		os.Getenv("FFMPEG_BIN_DIR"),
		"ffmpeg_bin",
	}
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		bin := filepath.Join(dir, ffmpegBinaryName())
		if _, err := os.Stat(bin); err != nil {
			continue
		}
		if !runFFmpegVersion(bin) {
			continue
		}

		abs, err := filepath.Abs(dir)
		if err != nil {
			abs = dir
		}
		os.Setenv("PATH", abs+string(os.PathListSeparator)+os.Getenv("PATH"))
		log.Printf("using bundled ffmpeg from %s", abs)
		return true
	}

	log.Printf("ffmpeg not found, audio decoding will use the limited native fallback")
	return false
}

func runFFmpegVersion(bin string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, bin, "-version").Run() == nil
}

func ffmpegBinaryName() string {
	if os.PathSeparator == '\\' {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

// decodeFFmpeg decodes any supported container through ffmpeg, collapsing
// to mono and resampling to the target rate in one pass. Raw 32-bit float
// PCM is pulled from stdout, so no intermediate file is needed.
func decodeFFmpeg(ctx context.Context, path string) ([]float32, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", path,
		"-vn",
		"-ac", "1",
		"-ar", fmt.Sprint(TargetSampleRate),
		"-f", "f32le",
		"-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg decode failed: %v, stderr: %s", err, lastLine(stderr.String()))
	}

	raw := stdout.Bytes()
	if len(raw) < 4 {
		return nil, fmt.Errorf("ffmpeg produced no audio for %s", path)
	}

	samples := make([]float32, len(raw)/4)
	for i := range samples {
		bits := binary.LittleEndian.Uint32(raw[i*4:])
		samples[i] = math.Float32frombits(bits)
	}
	return samples, nil
}

func lastLine(s string) string {
	lines := bytes.Split(bytes.TrimSpace([]byte(s)), []byte("\n"))
	if len(lines) == 0 {
		return ""
	}
	return string(bytes.TrimSpace(lines[len(lines)-1]))
}
