package stt

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/device"
)

// OpenAIBackend transcribes through the hosted OpenAI audio API. Meant
// for machines with no local model; recognition uses the generic Whisper
// model rather than the Taiwanese fine-tune, which the model info makes
// visible.
type OpenAIBackend struct {
	client *openai.Client
}

func NewOpenAIBackend(apiKey string) *OpenAIBackend {
	if apiKey == "" {
		return &OpenAIBackend{}
	}
	return &OpenAIBackend{client: openai.NewClient(apiKey)}
}

func (b *OpenAIBackend) Name() string { return "openai" }

func (b *OpenAIBackend) Load(_ context.Context, _ device.Profile) error {
	if b.client == nil {
		return fmt.Errorf("OPENAI_API_KEY is not configured")
	}
	return nil
}

func (b *OpenAIBackend) Transcribe(ctx context.Context, wavPath string, opts Options) (string, error) {
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: wavPath,
		Language: opts.Language,
	}
	resp, err := b.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("createTranscription failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// ReleaseDeviceMemory is a no-op for a remote API.
func (b *OpenAIBackend) ReleaseDeviceMemory() error { return nil }
