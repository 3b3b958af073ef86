package commands

import (
	"fmt"

	"github.com/simonhull/heron"
	"github.com/spf13/cobra"
)

// VersionCmd creates and returns the 'version' command
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), heron.GetVersionInfo().String())
		},
	}
}
