package transcribe

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yyyxi18/Whisper-Taiwaness/internal/app"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/service"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/util/files"
)

var (
	fromURL    string
	outputPath string
)

func init() {
	Cmd.Flags().StringVarP(&fromURL, "url", "u", "",
		"transcribe a remote audio file instead of a local path")
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"write the transcription to this file instead of stdout")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe [audio file]",
	Short: "Transcribe a single audio file or URL to text",
	Long: `Transcribe a single audio file or URL to text.

Accepts WAV, MP3, M4A, FLAC and OGG input. The audio is converted to
16 kHz mono before inference; compressed formats need ffmpeg on PATH.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && fromURL == "" {
			return fmt.Errorf("provide an audio file path or --url")
		}
		if len(args) == 1 && fromURL != "" {
			return fmt.Errorf("provide either a file path or --url, not both")
		}

		a, err := app.InitializeApp()
		if err != nil {
			return err
		}

		ctx := context.Background()
		if err := a.Host.Load(ctx); err != nil {
			return fmt.Errorf("model load failed: %w", err)
		}

		var res *service.Result
		if fromURL != "" {
			res, err = a.Service.TranscribeURL(ctx, fromURL)
		} else {
			res, err = a.Service.TranscribeFile(ctx, args[0])
		}
		if err != nil {
			return err
		}

		if res.Warning != "" {
			fmt.Fprintf(os.Stderr, "warning: %s\n", res.Warning)
		}

		if outputPath != "" {
			if err := files.WriteText(outputPath, res.Text); err != nil {
				return err
			}
			fmt.Printf("transcription written to %s\n", outputPath)
			return nil
		}

		fmt.Println(res.Text)
		return nil
	},
}
