package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/device"
)

// WhisperServerBackend talks to a long-running whisper-server instance
// over HTTP. The server keeps the model resident, so loading here only
// verifies reachability.
type WhisperServerBackend struct {
	baseURL       string
	inferencePath string
	client        *http.Client
}

type whisperServerResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

func NewWhisperServerBackend(baseURL string, timeout time.Duration) *WhisperServerBackend {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &WhisperServerBackend{
		baseURL:       baseURL,
		inferencePath: "/inference",
		client:        &http.Client{Timeout: timeout},
	}
}

func (b *WhisperServerBackend) Name() string { return "whisper_server" }

func (b *WhisperServerBackend) Load(ctx context.Context, _ device.Profile) error {
	if b.baseURL == "" {
		return fmt.Errorf("WHISPER_SERVER_URL is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("whisper-server unreachable at %s: %w", b.baseURL, err)
	}
	resp.Body.Close()
	return nil
}

func (b *WhisperServerBackend) Transcribe(ctx context.Context, wavPath string, opts Options) (string, error) {
	f, err := os.Open(wavPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	writer.WriteField("language", opts.Language)
	writer.WriteField("response_format", "json")
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+b.inferencePath, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("whisper-server request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whisper-server returned %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	var parsed whisperServerResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("invalid whisper-server response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("whisper-server error: %s", parsed.Error)
	}
	return parsed.Text, nil
}

// ReleaseDeviceMemory is a no-op: the remote server owns its accelerator
// and manages its own cache between requests.
func (b *WhisperServerBackend) ReleaseDeviceMemory() error { return nil }
