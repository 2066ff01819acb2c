package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/assessor/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show answer progress per section",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		env, cleanup, err := openEnv(cmd, cliLogger)
		if err != nil {
			return err
		}
		defer cleanup()

		sess, err := env.PeekSession(cmd.Context())
		if err != nil {
			return err
		}
		_, lastCatalyst, hasResult := env.LastResult()

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(statusReport{
				Progress:     sess.Progress(),
				Sections:     sess.SectionProgress(),
				Answers:      sess.Snapshot().Answers,
				HasResult:    hasResult,
				LastCatalyst: lastCatalyst,
			})
		}

		fmt.Fprintf(out, "%-30s  %s\n", "Section", "Answered")
		fmt.Fprintln(out, strings.Repeat("─", 42))
		for _, sp := range sess.SectionProgress() {
			fmt.Fprintf(out, "%-30s  %d/%d\n", sp.Name, sp.Answered, sp.Total)
		}
		p := sess.Progress()
		fmt.Fprintln(out, strings.Repeat("─", 42))
		fmt.Fprintf(out, "%-30s  %d/%d (%d%%)\n", "Total", p.Answered, p.Total, p.Percent)
		if hasResult {
			fmt.Fprintf(out, "\nA result for catalyst %q is saved; run `assessor export` to download it.\n", lastCatalyst)
		}
		return nil
	},
}

type statusReport struct {
	Progress     session.Progress          `json:"progress"`
	Sections     []session.SectionProgress `json:"sections"`
	Answers      map[string]string         `json:"answers"`
	HasResult    bool                      `json:"has_result"`
	LastCatalyst string                    `json:"last_catalyst,omitempty"`
}

func init() {
	statusCmd.Flags().Bool("json", false, "Print as JSON")
}
