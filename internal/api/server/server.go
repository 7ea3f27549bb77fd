package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yyyxi18/Whisper-Taiwaness/internal/api/middleware"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/api/v1/handlers"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/api/v1/routes"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/config"
	"github.com/yyyxi18/Whisper-Taiwaness/web"
)

// Server hosts the HTTP API and the recording page.
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *slog.Logger
}

func New(cfg *config.Config, transcribe *handlers.TranscribeHandler, system *handlers.SystemHandler, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogging(logger))
	r.Use(middleware.ErrorHandler(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	// Browser recordings can run long; keep the multipart memory limit
	// modest and spill the rest to disk.
	r.MaxMultipartMemory = 16 << 20

	routes.Register(r, transcribe, system)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// http.FileServer redirects index.html to ./, so serve the bytes.
	index, err := web.StaticFS.ReadFile("static/index.html")
	if err != nil {
		panic(err)
	}
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})

	return &Server{
		router: r,
		http: &http.Server{
			Addr:              cfg.HTTPHost + ":" + cfg.HTTPPort,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			// No write timeout: a single inference can take minutes on CPU.
		},
		logger: logger,
	}
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening",
		"addr", s.http.Addr,
		"local_ip", config.LocalIP(),
	)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
