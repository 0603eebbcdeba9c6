package cmd

import (
	"github.com/spf13/cobra"
)

const (
	rootLong = "Gathers registry, git, and vulnerability metadata for an open " +
		"source package and derives a categorized quality score."
	rootShort = "opensourcescore.dev"
)

// New creates the root command, the same shape the teacher's cmd.New
// builds: a bare root command with every mode of operation wired in as
// a subcommand.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opensourcescore",
		Short: rootShort,
		Long:  rootLong,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(scoreCmd())
	cmd.AddCommand(batchCmd())
	cmd.AddCommand(versionCmd())
	return cmd
}
