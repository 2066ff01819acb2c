package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/assessor/internal/session"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear saved answers and the last result",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("%w: pass --yes to clear all saved answers", session.ErrNotConfirmed)
		}

		env, cleanup, err := openEnv(cmd, cliLogger)
		if err != nil {
			return err
		}
		defer cleanup()

		env.ClearSaved()
		fmt.Fprintln(cmd.OutOrStdout(), "Saved answers cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
