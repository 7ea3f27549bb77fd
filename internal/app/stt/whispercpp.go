package stt

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/device"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/util/files"
)

// WhisperCPPBackend runs inference by exec'ing a whisper.cpp style binary.
// Every call is a fresh process, so accelerator memory never survives a
// request and ReleaseDeviceMemory has nothing to free.
type WhisperCPPBackend struct {
	binaryPath string
	modelPath  string

	profile   device.Profile
	flashAttn bool
}

func NewWhisperCPPBackend(binaryPath, modelPath string) *WhisperCPPBackend {
	return &WhisperCPPBackend{
		binaryPath: binaryPath,
		modelPath:  modelPath,
	}
}

func (b *WhisperCPPBackend) Name() string { return "whispercpp" }

// Load validates the binary and model files and probes optional
// capabilities. The fused-attention probe only affects performance; its
// failure never blocks loading.
func (b *WhisperCPPBackend) Load(ctx context.Context, profile device.Profile) error {
	if b.binaryPath == "" {
		return fmt.Errorf("WHISPER_CPP_BINARY is not configured")
	}
	if b.modelPath == "" {
		return fmt.Errorf("WHISPER_CPP_MODEL is not configured")
	}
	if _, err := os.Stat(b.binaryPath); err != nil {
		return fmt.Errorf("whisper binary not found at %s: %w", b.binaryPath, err)
	}
	if _, err := os.Stat(b.modelPath); err != nil {
		return fmt.Errorf("model file not found at %s: %w", b.modelPath, err)
	}

	b.profile = profile
	b.flashAttn = b.probeFlashAttention(ctx)
	if b.flashAttn {
		log.Printf("fused attention kernel available, enabling it")
	} else {
		log.Printf("fused attention kernel not available, using standard attention")
	}

	return nil
}

// probeFlashAttention checks the binary's help text for the fused
// attention flag. Best effort: any probe failure means "not available".
func (b *WhisperCPPBackend) probeFlashAttention(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(probeCtx, b.binaryPath, "--help").CombinedOutput()
	if err != nil && len(out) == 0 {
		return false
	}
	return strings.Contains(string(out), "--flash-attn") || strings.Contains(string(out), "-fa ")
}

func (b *WhisperCPPBackend) buildArgs(wavPath, outputBase string, opts Options) []string {
	args := []string{
		"-m", b.modelPath,
		"-l", opts.Language,
		"-otxt",
		"-f", wavPath,
		"-of", outputBase,
	}
	if !b.profile.IsAccelerator() {
		args = append(args, "--no-gpu")
	} else if b.flashAttn {
		args = append(args, "-fa")
	}
	return args
}

func (b *WhisperCPPBackend) Transcribe(ctx context.Context, wavPath string, opts Options) (string, error) {
	out, err := os.CreateTemp("", "taistt-out-*")
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}
	outputBase := out.Name()
	out.Close()
	os.Remove(outputBase)
	outputPath := outputBase + ".txt"
	defer os.Remove(outputPath)

	args := b.buildArgs(wavPath, outputBase, opts)

	cmd := exec.CommandContext(ctx, b.binaryPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	log.Printf("running whisper.cpp: %s %s", b.binaryPath, strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("whisper.cpp execution failed: %v, stderr: %s", err, stderr.String())
	}

	text, err := files.ReadOutputFile(outputPath)
	if err != nil {
		return "", fmt.Errorf("reading transcription output: %w", err)
	}
	return text, nil
}

// ReleaseDeviceMemory is a no-op: each inference runs in its own process,
// so accelerator allocations are returned when that process exits.
func (b *WhisperCPPBackend) ReleaseDeviceMemory() error { return nil }
