package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/assessor/internal/app"
	"github.com/abhisek/assessor/internal/config"
	"github.com/abhisek/assessor/internal/logging"
	"github.com/abhisek/assessor/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "assessor",
	Short: "Business readiness assessment in the terminal",
	Long: "Assessor walks through a scored questionnaire section by section, keeps answers between runs,\n" +
		"submits them for scoring and exports the result as a PDF.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to YAML config file (default $XDG_CONFIG_HOME/assessor/config.yaml)")
	pf.String("db", "", "SQLite path or postgres:// DSN (overrides ASSESSOR_DB env var)")
	pf.String("log", "", "Log file path (overrides ASSESSOR_LOG env var)")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.String("submit-url", "", "Scoring endpoint")
	pf.String("export-url", "", "PDF export endpoint")
	pf.String("prefill-url", "", "Optional prefill answers endpoint")
	pf.String("questions", "", "Questions document URL or path")
	pf.String("functional-areas", "", "Functional areas document URL or path")
	pf.String("output-dir", "", "Directory for exported files")
	pf.StringSlice("catalysts", nil, "Catalyst choices offered before submitting")
	pf.Duration("timeout", 0, "Timeout for each network request")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ASSESSOR_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadConfig layers defaults, the config file, env vars and flags, then
// validates the result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	str("submit-url", &cfg.SubmitURL)
	str("export-url", &cfg.ExportURL)
	str("prefill-url", &cfg.PrefillURL)
	str("questions", &cfg.DataPaths.Questions)
	str("functional-areas", &cfg.DataPaths.FunctionalAreas)
	str("output-dir", &cfg.OutputDir)
	str("log", &cfg.LogPath)

	if flags.Changed("catalysts") {
		cfg.Catalysts, _ = flags.GetStringSlice("catalysts")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
}

// cliLogger logs to the --log file when one is given and to stderr
// otherwise.
func cliLogger(cmd *cobra.Command, cfg config.Config) (*slog.Logger, io.Closer, error) {
	level, _ := cmd.Flags().GetString("log-level")
	return logging.Setup(cfg.LogPath, logging.ParseLevel(level))
}

// openEnv loads config, sets up logging and wires the shared environment.
// The returned cleanup closes everything that was opened.
func openEnv(cmd *cobra.Command, logger func(*cobra.Command, config.Config) (*slog.Logger, io.Closer, error)) (*app.Env, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	log, closer, err := logger(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		closer.Close()
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}

	env := app.NewEnv(cfg, dbPath, log)
	return env, func() {
		env.Close()
		closer.Close()
	}, nil
}
