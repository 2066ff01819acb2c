package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/assessor/internal/dataserver"
	"github.com/abhisek/assessor/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a local data directory over HTTP",
	Long: "Serves questions.json, functional_areas.json and prefill.json from a directory at\n" +
		"/questions, /functional-areas and /prefill, plus every file under /data/.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		addr, _ := cmd.Flags().GetString("addr")
		logPath, _ := cmd.Flags().GetString("log")
		level, _ := cmd.Flags().GetString("log-level")

		logger, closer, err := logging.Setup(logPath, logging.ParseLevel(level))
		if err != nil {
			return err
		}
		defer closer.Close()

		h, err := dataserver.New(dataserver.Options{Dir: dir, Logger: logger})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return dataserver.Serve(ctx, addr, h, logger)
	},
}

func init() {
	serveCmd.Flags().String("dir", "data", "Directory holding the catalog documents")
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address")
}
