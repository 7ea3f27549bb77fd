package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yyyxi18/Whisper-Taiwaness/cmd/taistt/cmd/batch"
	"github.com/yyyxi18/Whisper-Taiwaness/cmd/taistt/cmd/info"
	"github.com/yyyxi18/Whisper-Taiwaness/cmd/taistt/cmd/serve"
	"github.com/yyyxi18/Whisper-Taiwaness/cmd/taistt/cmd/transcribe"
	"github.com/yyyxi18/Whisper-Taiwaness/cmd/taistt/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taistt",
	Short: "Taiwanese Hokkien speech-to-text",
	Long: `Taiwanese Hokkien speech-to-text built on a fine-tuned Whisper model.

- Transcribe a single audio file or a remote URL
- Batch-transcribe a directory of recordings
- Serve an HTTP API with a browser recording page`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(batch.Cmd)
	rootCmd.AddCommand(info.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
