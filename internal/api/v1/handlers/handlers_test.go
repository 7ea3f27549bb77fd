package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyyxi18/Whisper-Taiwaness/internal/api/server"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/api/v1/handlers"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/audio"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/device"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/service"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/stt"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/config"
)

type stubBackend struct {
	text string
	err  error
}

func (s *stubBackend) Name() string                               { return "stub" }
func (s *stubBackend) Load(context.Context, device.Profile) error { return nil }
func (s *stubBackend) ReleaseDeviceMemory() error                 { return nil }
func (s *stubBackend) Transcribe(_ context.Context, wavPath string, _ stt.Options) (string, error) {
	if _, err := os.Stat(wavPath); err != nil {
		return "", fmt.Errorf("model input missing: %w", err)
	}
	return s.text, s.err
}

func newTestRouter(t *testing.T, backend stt.Backend, loaded bool) http.Handler {
	t.Helper()
	t.Setenv("TMPDIR", t.TempDir())

	host := stt.NewHost(backend, device.SelectProfile(device.Accelerator{}), slog.Default())
	if loaded {
		require.NoError(t, host.Load(context.Background()))
	}

	normalizer := audio.NewNormalizerWithProbe(slog.Default(), func() bool { return false })
	svc := service.New(host, normalizer, slog.Default())

	cfg := &config.Config{HTTPHost: "127.0.0.1", HTTPPort: "5000"}
	srv := server.New(cfg,
		handlers.NewTranscribeHandler(svc),
		handlers.NewSystemHandler(host, cfg.HTTPPort),
		slog.Default(),
	)
	return srv.Router()
}

func wavFixture(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "clip.wav")
	samples := make([]float32, audio.TargetSampleRate/10)
	for i := range samples {
		samples[i] = float32(0.3 * math.Sin(2*math.Pi*440*float64(i)/float64(audio.TargetSampleRate)))
	}
	require.NoError(t, audio.WriteWAV(path, samples, audio.TargetSampleRate))
	return path
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestUploadTranscribesWAV(t *testing.T) {
	router := newTestRouter(t, &stubBackend{text: "逐家好"}, true)

	data, err := os.ReadFile(wavFixture(t, t.TempDir()))
	require.NoError(t, err)
	body, contentType := multipartUpload(t, "audio", "clip.wav", data)

	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "逐家好", resp["transcription"])
	assert.Equal(t, "zh", resp["language"])
	assert.Equal(t, "clip.wav", resp["filename"])
	assert.GreaterOrEqual(t, resp["processing_time"].(float64), 0.0)
}

func TestUploadWithoutFileIsRejected(t *testing.T) {
	router := newTestRouter(t, &stubBackend{text: "x"}, true)

	req := httptest.NewRequest(http.MethodPost, "/transcribe", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=empty")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "audio file")
}

func TestUploadUnsupportedExtension(t *testing.T) {
	router := newTestRouter(t, &stubBackend{text: "x"}, true)

	body, contentType := multipartUpload(t, "audio", "notes.txt", []byte("not audio"))
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestUploadWhenModelNotLoaded(t *testing.T) {
	router := newTestRouter(t, &stubBackend{text: "x"}, false)

	data, err := os.ReadFile(wavFixture(t, t.TempDir()))
	require.NoError(t, err)
	body, contentType := multipartUpload(t, "audio", "clip.wav", data)

	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTranscribeURLInvalidBody(t *testing.T) {
	router := newTestRouter(t, &stubBackend{text: "x"}, true)

	req := httptest.NewRequest(http.MethodPost, "/transcribe_url",
		bytes.NewBufferString(`{"url": "not-a-url"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranscribeURLFetchesAndTranscribes(t *testing.T) {
	fixture, err := os.ReadFile(wavFixture(t, t.TempDir()))
	require.NoError(t, err)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(fixture)
	}))
	defer upstream.Close()

	router := newTestRouter(t, &stubBackend{text: "多謝"}, true)

	payload, err := json.Marshal(map[string]string{"url": upstream.URL + "/clip.wav"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/transcribe_url", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "多謝", resp["transcription"])
	assert.Equal(t, upstream.URL+"/clip.wav", resp["url"])
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, &stubBackend{text: "x"}, true)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, true, resp["model_loaded"])
	assert.NotEmpty(t, resp["local_ip"])
}

func TestModelInfoRequiresLoadedModel(t *testing.T) {
	router := newTestRouter(t, &stubBackend{text: "x"}, false)

	req := httptest.NewRequest(http.MethodGet, "/model_info", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "not loaded")
}

func TestModelInfoWhenLoaded(t *testing.T) {
	router := newTestRouter(t, &stubBackend{text: "x"}, true)

	req := httptest.NewRequest(http.MethodGet, "/model_info", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var info stt.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.True(t, info.Loaded)
	assert.Equal(t, "stub", info.Backend)
	assert.Equal(t, audio.TargetSampleRate, info.SampleRate)
}

func TestNetworkInfoEndpoint(t *testing.T) {
	router := newTestRouter(t, &stubBackend{text: "x"}, true)

	req := httptest.NewRequest(http.MethodGet, "/network_info", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["local_ip"])
	assert.Equal(t, "5000", resp["port"])
}

func TestRootServesRecordingPage(t *testing.T) {
	router := newTestRouter(t, &stubBackend{text: "x"}, true)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<html")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}
