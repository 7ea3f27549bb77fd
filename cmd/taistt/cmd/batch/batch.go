package batch

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yyyxi18/Whisper-Taiwaness/internal/app"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/service"
)

var (
	inputDir  string
	outputDir string
)

func init() {
	Cmd.Flags().StringVarP(&inputDir, "inputDir", "i", "",
		"directory of audio files to transcribe, searched recursively")
	Cmd.Flags().StringVarP(&outputDir, "outputDir", "o", "",
		"write one .txt per input file into this directory")

	Cmd.MarkFlagRequired("inputDir")
}

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Transcribe every audio file in a directory",
	Long: `Transcribe every audio file in a directory.

Walks the directory recursively, transcribes each file and reports a
success-rate summary. A failure on one file does not stop the rest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.InitializeApp()
		if err != nil {
			return err
		}

		ctx := context.Background()
		if err := a.Host.Load(ctx); err != nil {
			return fmt.Errorf("model load failed: %w", err)
		}

		report, err := a.Service.TranscribeDir(ctx, inputDir, service.BatchOptions{
			OutputDir: outputDir,
			Progress:  true,
		})
		if err != nil {
			return err
		}

		fmt.Println(report.Summary())
		return nil
	},
}
