package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// build flags
var version string
var gitBranch string
var gitHash string
var buildDate string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Version and build information",
	Run: func(ccmd *cobra.Command, args []string) {
		fmt.Printf("  version: %s\n", version)
		fmt.Printf("  git branch: %s\n", gitBranch)
		fmt.Printf("  git hash: %s\n", gitHash)
		fmt.Printf("  build date: %s\n", buildDate)
	},
}
