package info

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yyyxi18/Whisper-Taiwaness/internal/app"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/audio"
)

// Cmd represents the info command
var Cmd = &cobra.Command{
	Use:   "info",
	Short: "Show the detected device and model configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.InitializeApp()
		if err != nil {
			return err
		}

		desc := a.Host.Describe()

		fmt.Printf("model:       %s\n", desc.ModelName)
		fmt.Printf("base model:  %s\n", desc.BaseModel)
		fmt.Printf("backend:     %s\n", desc.Backend)
		fmt.Printf("language:    %s\n", desc.Language)
		fmt.Printf("sample rate: %d Hz\n", desc.SampleRate)
		fmt.Printf("device:      %s\n", a.Profile.String())
		fmt.Printf("precision:   %s\n", desc.Precision)
		if a.Profile.MemorySaver {
			fmt.Println("mode:        memory saver")
		}
		if a.Profile.Performance {
			fmt.Println("mode:        performance")
		}
		fmt.Printf("ffmpeg:      %v\n", audio.FFmpegAvailable())
		return nil
	},
}
