package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Base version information, overridden via -ldflags at build time the
// same way the teacher's cmd/version.go documents.
var (
	gitVersion   = "unknown"
	gitCommit    = "unknown"
	gitTreeState = "unknown"
	buildDate    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("GitVersion:\t%s\n", gitVersion)
			fmt.Printf("GitCommit:\t%s\n", gitCommit)
			fmt.Printf("GitTreeState:\t%s\n", gitTreeState)
			fmt.Printf("BuildDate:\t%s\n", buildDate)
			fmt.Printf("GoVersion:\t%s\n", runtime.Version())
			fmt.Printf("Compiler:\t%s\n", runtime.Compiler)
			fmt.Printf("Platform:\t%s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
