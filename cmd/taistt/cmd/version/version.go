package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "v0.5.0"

// Cmd represents the version command
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of taistt",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(version)
		return nil
	},
}
