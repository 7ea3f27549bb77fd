// Package service orchestrates a transcription request end to end:
// validate the input, normalize the audio, run inference, and guarantee
// that no temporary file outlives the request.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/audio"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/stt"
)

// Result is the success envelope of one transcription request.
type Result struct {
	Text       string
	Language   string
	SampleRate int
	Source     string
	Warning    string
}

// Service wires the normalizer and the model host together. It is safe
// for concurrent use; the host serializes model access internally.
type Service struct {
	host       *stt.Host
	normalizer *audio.Normalizer
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithFetchTimeout bounds the HTTP fetch of URL-sourced audio.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.httpClient.Timeout = d
		}
	}
}

func New(host *stt.Host, normalizer *audio.Normalizer, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		host:       host,
		normalizer: normalizer,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TranscribeFile recognizes the audio file at path.
func (s *Service) TranscribeFile(ctx context.Context, path string) (*Result, error) {
	start := time.Now()
	res, err := s.transcribeFile(ctx, path, path)
	recordRequest("file", err, time.Since(start).Seconds())
	return res, err
}

func (s *Service) transcribeFile(ctx context.Context, path, source string) (*Result, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, newError(KindNotFound, fmt.Sprintf("audio file does not exist: %s", source), nil)
	}

	if !audio.IsSupported(path) {
		return nil, newError(KindUnsupportedFormat,
			fmt.Sprintf("unsupported audio format %q, use one of %s",
				audio.Ext(path), strings.Join(audio.SupportedExtensions(), ", ")), nil)
	}

	// Compressed formats decode best through the codec toolchain; when
	// it is missing we degrade rather than refuse.
	if audio.NeedsCodec(path) && !s.normalizer.CodecAvailable() {
		s.logger.Warn("codec toolchain missing for compressed format, proceeding with fallback decoder",
			"path", source, "format", audio.Ext(path))
	}

	normalized, err := s.normalizer.Normalize(ctx, path)
	if err != nil {
		return nil, newError(KindPreprocessingFailed, "audio preprocessing failed", err)
	}
	// The one correctness-critical invariant: the normalized temp file
	// never outlives the request, whatever exit path is taken.
	defer s.removeTemp(normalized.Path)

	text, err := s.host.Transcribe(ctx, normalized.Path)
	if err != nil {
		if errors.Is(err, stt.ErrNotLoaded) {
			return nil, newError(KindModelNotLoaded, "model is not loaded", nil)
		}
		return nil, newError(KindInferenceError, "speech recognition failed", err)
	}

	s.logger.Info("transcription complete", "source", source, "chars", len(text))

	return &Result{
		Text:       text,
		Language:   stt.DefaultLanguage,
		SampleRate: normalized.SampleRate,
		Source:     source,
		Warning:    normalized.Warning,
	}, nil
}

// TranscribeURL fetches audio over HTTP into a scoped temporary file and
// runs the same pipeline. Both the download and the normalized file are
// removed regardless of outcome.
func (s *Service) TranscribeURL(ctx context.Context, rawURL string) (*Result, error) {
	start := time.Now()
	res, err := s.transcribeURL(ctx, rawURL)
	recordRequest("url", err, time.Since(start).Seconds())
	return res, err
}

func (s *Service) transcribeURL(ctx context.Context, rawURL string) (*Result, error) {
	downloaded, err := s.fetch(ctx, rawURL)
	if err != nil {
		return nil, newError(KindNetworkError, fmt.Sprintf("fetching %s failed", rawURL), err)
	}
	defer s.removeTemp(downloaded)

	res, err := s.transcribeFile(ctx, downloaded, rawURL)
	if err != nil {
		return nil, err
	}
	res.Source = rawURL
	return res, nil
}

func (s *Service) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	ext := audio.Ext(rawURL)
	if !audio.IsSupported(rawURL) {
		ext = ".wav"
	}
	tmp, err := os.CreateTemp("", "taistt-dl-*"+ext)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func (s *Service) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("removing temporary file failed", "path", path, "error", err)
	}
}
