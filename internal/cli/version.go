package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			writeLine(out, fmt.Sprintf("vselect %s", info.Version))
			writeLine(out, fmt.Sprintf("Commit: %s", info.Commit))
			writeLine(out, fmt.Sprintf("Built: %s", info.Date))
		},
	}
}
