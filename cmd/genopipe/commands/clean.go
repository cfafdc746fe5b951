package commands

import (
	"github.com/spf13/cobra"

	"genopipe/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [jobs...]",
		Short: "Remove ledger entries so jobs run again",
		Long: "Remove the named jobs' ledger entries and work directories, forcing " +
			"them to run again. With --all the whole cache directory goes, ledger " +
			"included.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")

			return c.app.Clean(cmd.Context(), args, app.CleanOptions{All: all})
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Remove the entire cache directory")

	return cmd
}
