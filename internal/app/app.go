// Package app assembles the transcription stack: configuration, device
// probing, the model host, the audio normalizer, the transcription
// service and the HTTP server.
package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/yyyxi18/Whisper-Taiwaness/internal/api/server"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/api/v1/handlers"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/audio"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/device"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/service"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/stt"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/config"
)

// App bundles the wired components the CLI commands operate on.
type App struct {
	Config     *config.Config
	Profile    device.Profile
	Host       *stt.Host
	Normalizer *audio.Normalizer
	Service    *service.Service
	Server     *server.Server
	Logger     *slog.Logger
}

func provideLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("TAISTT_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func provideConfig() *config.Config {
	return config.Load()
}

func provideProfile() device.Profile {
	return device.SelectProfile(device.Detect())
}

// provideBackend picks the inference backend named by config. whisper.cpp
// is the default; a remote whisper server and the OpenAI API are the
// alternatives for hosts without a local model build.
func provideBackend(cfg *config.Config) (stt.Backend, error) {
	switch cfg.Backend {
	case config.BackendWhisperCPP:
		return stt.NewWhisperCPPBackend(cfg.WhisperBinary, cfg.WhisperModel), nil
	case config.BackendWhisperServer:
		return stt.NewWhisperServerBackend(cfg.WhisperServerURL, cfg.InferTimeout), nil
	case config.BackendOpenAI:
		return stt.NewOpenAIBackend(cfg.OpenAIKey), nil
	default:
		return nil, fmt.Errorf("unknown STT backend %q", cfg.Backend)
	}
}

func provideHost(backend stt.Backend, profile device.Profile, cfg *config.Config, logger *slog.Logger) *stt.Host {
	return stt.NewHost(backend, profile, logger,
		stt.WithInferTimeout(cfg.InferTimeout),
		stt.WithModelIdentity(cfg.ModelName, cfg.BaseModel),
	)
}

func provideNormalizer(cfg *config.Config, logger *slog.Logger) *audio.Normalizer {
	// A bin dir from the YAML settings file would otherwise be invisible
	// to the PATH-based codec probe.
	if cfg.FFmpegBinDir != "" && os.Getenv("FFMPEG_BIN_DIR") == "" {
		os.Setenv("FFMPEG_BIN_DIR", cfg.FFmpegBinDir)
	}
	return audio.NewNormalizer(logger)
}

func provideService(host *stt.Host, normalizer *audio.Normalizer, cfg *config.Config, logger *slog.Logger) *service.Service {
	return service.New(host, normalizer, logger, service.WithFetchTimeout(cfg.FetchTimeout))
}

func provideServer(cfg *config.Config, svc *service.Service, host *stt.Host, logger *slog.Logger) *server.Server {
	return server.New(cfg,
		handlers.NewTranscribeHandler(svc),
		handlers.NewSystemHandler(host, cfg.HTTPPort),
		logger,
	)
}
