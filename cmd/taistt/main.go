package main

import (
	"fmt"
	"os"

	"github.com/yyyxi18/Whisper-Taiwaness/cmd/taistt/cmd"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/config"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cmd.Execute()
}
