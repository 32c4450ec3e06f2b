package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// SEMVER current release of parsort
const SEMVER = "0.1.0"

func init() {
	rootCmd.AddCommand(versionCmd)
}

func printVersion() {
	fmt.Printf("parsort v%s (%s %s/%s)\n", SEMVER, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of parsort",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion()
	},
}
