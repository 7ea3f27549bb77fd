package stt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/device"
)

// ErrNotLoaded is returned by Transcribe when loading never succeeded.
// The host does not lazy-load: a failed Load stays failed until the
// process restarts.
var ErrNotLoaded = errors.New("model is not loaded")

// Info describes the hosted model for CLI and HTTP metadata endpoints.
type Info struct {
	ModelName  string `json:"model_name"`
	BaseModel  string `json:"base_model"`
	Language   string `json:"language"`
	Device     string `json:"device"`
	Precision  string `json:"precision"`
	Backend    string `json:"backend"`
	SampleRate int    `json:"sample_rate"`
	Loaded     bool   `json:"model_loaded"`
}

// Host owns the lifecycle of one loaded recognition model. There is one
// Host per process, constructed by the composition root and injected
// everywhere a transcription is needed.
//
// All inference is serialized through an internal mutex: the accelerator
// context must not be shared between a request clearing device memory and
// another running inference.
type Host struct {
	backend Backend
	profile device.Profile
	logger  *slog.Logger

	modelName string
	baseModel string
	timeout   time.Duration

	mu     sync.Mutex
	loaded bool
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithInferTimeout bounds each inference call. A hung backend call fails
// with a timeout error instead of blocking its request forever.
func WithInferTimeout(d time.Duration) HostOption {
	return func(h *Host) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithModelIdentity overrides the reported model identity.
func WithModelIdentity(modelName, baseModel string) HostOption {
	return func(h *Host) {
		if modelName != "" {
			h.modelName = modelName
		}
		if baseModel != "" {
			h.baseModel = baseModel
		}
	}
}

func NewHost(backend Backend, profile device.Profile, logger *slog.Logger, opts ...HostOption) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Host{
		backend:   backend,
		profile:   profile,
		logger:    logger,
		modelName: "NUTN-KWS/Whisper-Taiwanese-model-v0.5",
		baseModel: "openai/whisper-large-v3-turbo",
		timeout:   5 * time.Minute,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Load performs the explicit, blocking model initialization. It is safe
// to call more than once; only the first call does work.
func (h *Host) Load(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.loaded {
		return nil
	}

	h.logger.Info("loading recognition model",
		"model", h.modelName,
		"backend", h.backend.Name(),
		"device", h.profile.String(),
		"precision", string(h.profile.Precision),
	)

	if h.profile.MemorySaver {
		// One-time allocator tuning for mid-size accelerators.
		os.Setenv("GGML_CUDA_NO_PINNED", "1")
		h.logger.Info("memory-saver mode enabled for accelerator")
	}

	if err := h.backend.Load(ctx, h.profile); err != nil {
		h.logger.Error("model load failed", "error", err)
		return fmt.Errorf("loading model: %w", err)
	}

	h.loaded = true
	h.logger.Info("model loaded")
	return nil
}

// Ready reports whether Load has succeeded.
func (h *Host) Ready() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loaded
}

// Transcribe runs one inference over the normalized WAV at wavPath.
// Calls are serialized; on an accelerator, cached device memory is
// released first so fragmentation does not accumulate across requests.
func (h *Host) Transcribe(ctx context.Context, wavPath string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.loaded {
		return "", ErrNotLoaded
	}

	if h.profile.IsAccelerator() {
		if err := h.backend.ReleaseDeviceMemory(); err != nil {
			h.logger.Warn("releasing device memory failed", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	text, err := h.backend.Transcribe(ctx, wavPath, Options{
		Language: DefaultLanguage,
		Task:     TaskTranscribe,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("inference timed out after %s", h.timeout)
		}
		return "", err
	}

	h.logger.Info("inference complete",
		"elapsed", time.Since(start).Round(time.Millisecond).String())
	return text, nil
}

// Profile returns the immutable device profile computed at startup.
func (h *Host) Profile() device.Profile {
	return h.profile
}

// Describe reports the model identity and runtime placement.
func (h *Host) Describe() Info {
	return Info{
		ModelName:  h.modelName,
		BaseModel:  h.baseModel,
		Language:   "Taiwanese (Taiwanese Hokkien)",
		Device:     h.profile.String(),
		Precision:  string(h.profile.Precision),
		Backend:    h.backend.Name(),
		SampleRate: 16000,
		Loaded:     h.Ready(),
	}
}
