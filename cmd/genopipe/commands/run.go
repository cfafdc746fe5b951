package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"genopipe/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "Run the pipeline up to the given targets",
		Long: "Run the pipeline up to the given targets. Without targets, every " +
			"terminal job runs. Jobs already finished in the ledger are skipped.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cores, _ := cmd.Flags().GetInt("cores")
			debug, _ := cmd.Flags().GetBool("debug")

			err := c.app.Run(cmd.Context(), args, app.RunOptions{
				Cores: cores,
				Debug: debug,
			})
			switch {
			case err == nil:
				cmd.Println("genopipe: run completed")
			case errors.Is(err, context.Canceled):
				cmd.Println("genopipe: run cancelled")
			default:
				cmd.Println("genopipe: run failed to complete")
			}
			return err
		},
	}

	cmd.Flags().Int("cores", 0, "Override the configured core budget")

	return cmd
}
