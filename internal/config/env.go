package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backend names accepted by STT_BACKEND.
const (
	BackendWhisperCPP    = "whispercpp"
	BackendWhisperServer = "whisper_server"
	BackendOpenAI        = "openai"
)

// Config holds all runtime configuration for the application.
type Config struct {
	Backend string `yaml:"backend"`

	WhisperBinary    string `yaml:"whisper_binary"`
	WhisperModel     string `yaml:"whisper_model"`
	WhisperServerURL string `yaml:"whisper_server_url"`
	OpenAIKey        string `yaml:"-"`

	ModelName string `yaml:"model_name"`
	BaseModel string `yaml:"base_model"`

	HTTPHost string `yaml:"http_host"`
	HTTPPort string `yaml:"http_port"`

	InferTimeout time.Duration `yaml:"infer_timeout"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	FFmpegBinDir string `yaml:"ffmpeg_bin_dir"`
}

// LoadEnv loads environment variables from a .env file if one exists.
// Missing files are not an error; system-wide environment still applies.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// Load builds a Config from the environment, with an optional YAML settings
// file (TAISTT_CONFIG) layered underneath the environment values.
func Load() *Config {
	cfg := &Config{
		Backend:          getEnvOrDefault("STT_BACKEND", BackendWhisperCPP),
		WhisperBinary:    getEnvOrDefault("WHISPER_CPP_BINARY", ""),
		WhisperModel:     getEnvOrDefault("WHISPER_CPP_MODEL", ""),
		WhisperServerURL: getEnvOrDefault("WHISPER_SERVER_URL", ""),
		OpenAIKey:        strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		ModelName:        getEnvOrDefault("STT_MODEL_NAME", "NUTN-KWS/Whisper-Taiwanese-model-v0.5"),
		BaseModel:        getEnvOrDefault("STT_BASE_MODEL", "openai/whisper-large-v3-turbo"),
		HTTPHost:         getEnvOrDefault("HTTP_HOST", "0.0.0.0"),
		HTTPPort:         getEnvOrDefault("HTTP_PORT", DefaultHTTPPort),
		InferTimeout:     getDurationOrDefault("STT_INFER_TIMEOUT", 5*time.Minute),
		FetchTimeout:     getDurationOrDefault("STT_FETCH_TIMEOUT", 30*time.Second),
		FFmpegBinDir:     getEnvOrDefault("FFMPEG_BIN_DIR", ""),
	}

	if path := os.Getenv("TAISTT_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not load config file %s: %v\n", path, err)
		}
	}

	return cfg
}

// mergeFile overlays values from a YAML settings file. Environment values
// win over file values, so only unset fields are filled in.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	if c.WhisperBinary == "" {
		c.WhisperBinary = file.WhisperBinary
	}
	if c.WhisperModel == "" {
		c.WhisperModel = file.WhisperModel
	}
	if c.WhisperServerURL == "" {
		c.WhisperServerURL = file.WhisperServerURL
	}
	if c.FFmpegBinDir == "" {
		c.FFmpegBinDir = file.FFmpegBinDir
	}
	if file.Backend != "" && os.Getenv("STT_BACKEND") == "" {
		c.Backend = file.Backend
	}
	if file.ModelName != "" && os.Getenv("STT_MODEL_NAME") == "" {
		c.ModelName = file.ModelName
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
