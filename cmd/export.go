package cmd

import (
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the last scoring result as a PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := openEnv(cmd, cliLogger)
		if err != nil {
			return err
		}
		defer cleanup()

		// A missing result is reported by Export without a request.
		result, catalyst, _ := env.LastResult()
		f, err := env.Client.Export(cmd.Context(), result, catalyst)
		if err != nil {
			return err
		}
		printExported(cmd.OutOrStdout(), f)
		return nil
	},
}
