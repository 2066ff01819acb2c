package cmd

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/assessor/internal/app"
	"github.com/abhisek/assessor/internal/config"
	"github.com/abhisek/assessor/internal/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the interactive assessment (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp wires the environment and launches the TUI.
func runApp(cmd *cobra.Command) error {
	env, cleanup, err := openEnv(cmd, tuiLogger)
	if err != nil {
		return err
	}
	defer cleanup()

	if !env.Persistent() {
		cmd.PrintErrln("Answer storage unavailable; answers will not be kept after exit.")
	}
	return app.Run(env)
}

// tuiLogger always logs to a file since the TUI owns the terminal.
func tuiLogger(cmd *cobra.Command, cfg config.Config) (*slog.Logger, io.Closer, error) {
	if cfg.LogPath == "" {
		p, err := logging.DefaultPath()
		if err != nil {
			return nil, nil, err
		}
		cfg.LogPath = p
	}
	return cliLogger(cmd, cfg)
}
