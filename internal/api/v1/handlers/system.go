package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/yyyxi18/Whisper-Taiwaness/internal/api/errors"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/api/middleware"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/api/v1/dto"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/stt"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/config"
)

// SystemHandler serves health and introspection endpoints.
type SystemHandler struct {
	host *stt.Host
	port string
}

func NewSystemHandler(host *stt.Host, port string) *SystemHandler {
	return &SystemHandler{host: host, port: port}
}

// Health handles GET /health.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:       "healthy",
		LocalIP:      config.LocalIP(),
		GPUAvailable: h.host.Profile().IsAccelerator(),
		ModelLoaded:  h.host.Ready(),
	})
}

// ModelInfo handles GET /model_info. Reports 500 while the model is not
// loaded so probes can distinguish a warming server from a ready one.
func (h *SystemHandler) ModelInfo(c *gin.Context) {
	if !h.host.Ready() {
		middleware.HandleError(c, apierrors.NewInternalError("model not loaded"))
		return
	}
	c.JSON(http.StatusOK, h.host.Describe())
}

// NetworkInfo handles GET /network_info, used by the recording page to
// show an address reachable from phones on the same LAN.
func (h *SystemHandler) NetworkInfo(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NetworkInfoResponse{
		LocalIP: config.LocalIP(),
		Port:    h.port,
	})
}
