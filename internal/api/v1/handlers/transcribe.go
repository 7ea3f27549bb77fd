package handlers

import (
	"math"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	apierrors "github.com/yyyxi18/Whisper-Taiwaness/internal/api/errors"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/api/middleware"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/api/v1/dto"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/audio"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/service"
)

// TranscribeHandler serves the speech-recognition endpoints.
type TranscribeHandler struct {
	service *service.Service
}

func NewTranscribeHandler(svc *service.Service) *TranscribeHandler {
	return &TranscribeHandler{service: svc}
}

// Upload handles POST /transcribe: a multipart form with an `audio` file
// field. The upload lands in a scoped temp file that is always removed,
// whatever the outcome.
func (h *TranscribeHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		middleware.HandleError(c, apierrors.NewBadRequestError("no audio file in request"))
		return
	}
	if fileHeader.Filename == "" || fileHeader.Size == 0 {
		middleware.HandleError(c, apierrors.NewBadRequestError("no file selected"))
		return
	}

	// Keep the original extension so format detection still works; the
	// browser recorder and most phones upload WAV.
	ext := audio.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".wav"
	}
	tmp, err := os.CreateTemp("", "taistt-upload-*"+ext)
	if err != nil {
		middleware.HandleError(c, apierrors.NewInternalError("could not store upload"))
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		middleware.HandleError(c, apierrors.NewInternalError("could not store upload"))
		return
	}

	start := time.Now()
	res, err := h.service.TranscribeFile(c.Request.Context(), tmpPath)
	if err != nil {
		middleware.HandleError(c, apierrors.FromService(err))
		return
	}

	c.JSON(http.StatusOK, dto.TranscribeResponse{
		Success:        true,
		Transcription:  res.Text,
		Language:       res.Language,
		SampleRate:     res.SampleRate,
		Filename:       fileHeader.Filename,
		Warning:        res.Warning,
		ProcessingTime: roundSeconds(time.Since(start)),
	})
}

// FromURL handles POST /transcribe_url with a JSON body {"url": ...}.
func (h *TranscribeHandler) FromURL(c *gin.Context) {
	var req dto.TranscribeURLRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	start := time.Now()
	res, err := h.service.TranscribeURL(c.Request.Context(), req.URL)
	if err != nil {
		middleware.HandleError(c, apierrors.FromService(err))
		return
	}

	c.JSON(http.StatusOK, dto.TranscribeResponse{
		Success:        true,
		Transcription:  res.Text,
		Language:       res.Language,
		SampleRate:     res.SampleRate,
		URL:            req.URL,
		Filename:       filepath.Base(req.URL),
		Warning:        res.Warning,
		ProcessingTime: roundSeconds(time.Since(start)),
	})
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
