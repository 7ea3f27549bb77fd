package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yyyxi18/Whisper-Taiwaness/internal/api/v1/handlers"
)

// Register wires the v1 endpoints onto the router. The paths live at the
// root rather than under /api/v1 because the recording page and the
// published phone workflow already depend on them.
func Register(r *gin.Engine, transcribe *handlers.TranscribeHandler, system *handlers.SystemHandler) {
	r.POST("/transcribe", transcribe.Upload)
	r.POST("/transcribe_url", transcribe.FromURL)

	r.GET("/health", system.Health)
	r.GET("/model_info", system.ModelInfo)
	r.GET("/network_info", system.NetworkInfo)
}
