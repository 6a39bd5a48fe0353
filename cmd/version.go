package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is set by the release build; a source build reports module info.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lumen version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		version := Version
		if version == "dev" {
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
				version = info.Main.Version
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), "lumen", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
