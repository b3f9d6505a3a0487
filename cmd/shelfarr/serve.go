package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vmunix/shelfarr/internal/handlers"
	"github.com/vmunix/shelfarr/internal/importer"
	"github.com/vmunix/shelfarr/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the background workers",
	Long: `Run the background workers.

Keeps the command queue and event handlers running: author refreshes
queued by imports get executed here.`,
	RunE: runServeCmd,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	scanner := importer.NewScanner(a.store, a.maker, a.approver, a.log.With("component", "scanner"))

	runner := server.NewRunner([]handlers.Handler{
		handlers.NewRefreshHandler(a.bus, a.commands, scanner, a.log.With("handler", "refresh")),
		handlers.NewImportedHandler(a.bus, a.log.With("handler", "imported")),
	}, a.log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.log.Info("shelfarr started", "version", version)
	err = runner.Run(ctx)
	if ctx.Err() != nil {
		a.log.Info("shelfarr stopped")
		return nil
	}
	return err
}
