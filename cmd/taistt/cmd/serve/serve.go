package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yyyxi18/Whisper-Taiwaness/internal/app"
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP transcription API and recording page",
	Long: `Run the HTTP transcription API and recording page.

The model is loaded once at startup. If loading fails the server still
comes up so /health can report the failure, but transcription requests
are rejected until a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.InitializeApp()
		if err != nil {
			return err
		}

		if err := a.Host.Load(context.Background()); err != nil {
			a.Logger.Error("model load failed, serving without model", "error", err)
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- a.Server.Start()
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			a.Logger.Info("shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return a.Server.Shutdown(ctx)
		}
	},
}
