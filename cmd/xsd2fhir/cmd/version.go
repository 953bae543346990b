package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is the release version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "xsd2fhir %s (commit: %s)\n", Version, Commit)
			return err
		},
	}
}
