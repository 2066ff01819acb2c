package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/assessor/internal/scoring"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit saved answers for scoring",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalyst, _ := cmd.Flags().GetString("catalyst")
		alsoExport, _ := cmd.Flags().GetBool("export")

		env, cleanup, err := openEnv(cmd, cliLogger)
		if err != nil {
			return err
		}
		defer cleanup()

		if catalyst == "" && len(env.Config.Catalysts) == 1 {
			catalyst = env.Config.Catalysts[0]
		}

		sess, err := env.LoadSession(cmd.Context())
		if err != nil {
			return err
		}
		payload, err := sess.Finalize(catalyst)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(payload.Skipped) > 0 {
			fmt.Fprintf(out, "Skipping answers without a numeric score: %s\n", strings.Join(payload.Skipped, ", "))
		}

		result, err := env.Client.Submit(cmd.Context(), payload)
		if err != nil {
			var subErr *scoring.SubmissionError
			if errors.As(err, &subErr) {
				return fmt.Errorf("%w (answers are kept; try again later)", err)
			}
			return err
		}
		sess.ApplyResult(result)
		env.SaveResult(payload.Catalyst, sess.Result())

		printResult(out, sess.Result())

		if !alsoExport {
			return nil
		}
		f, err := env.Client.Export(cmd.Context(), sess.Result(), payload.Catalyst)
		if err != nil {
			return err
		}
		printExported(out, f)
		return nil
	},
}

func init() {
	submitCmd.Flags().String("catalyst", "", "What is driving the assessment (required unless exactly one catalyst is configured)")
	submitCmd.Flags().Bool("export", false, "Export the result as a PDF after scoring")
}

func printResult(w io.Writer, r *scoring.Result) {
	tier := r.OverallTier
	if tier == "" {
		tier = "Unrated"
	}
	fmt.Fprintf(w, "Overall: %s (%.1f)\n", tier, r.OverallScore)
	if len(r.PriorityCategories) > 0 {
		fmt.Fprintln(w, "\nPriority areas:")
		for i, c := range r.PriorityCategories {
			fmt.Fprintf(w, "  %d. %s\n", i+1, c)
		}
	}
	if text := r.RecommendationText(); text != "" {
		fmt.Fprintln(w, "\nRecommendations:")
		fmt.Fprintln(w, text)
	}
}

func printExported(w io.Writer, f *scoring.ExportedFile) {
	if f.Pages > 0 {
		fmt.Fprintf(w, "Saved %s (%d pages, %d bytes)\n", f.Path, f.Pages, f.Size)
		return
	}
	fmt.Fprintf(w, "Saved %s (%d bytes)\n", f.Path, f.Size)
}
