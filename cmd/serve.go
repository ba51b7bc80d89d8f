// Serve command.
// Serves rendered opus pages over HTTP until interrupted.

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/opuspipe/core/render"
	"github.com/gaurav-prasanna/opuspipe/server"
)

// Serve flag variables.
var (
	flagServeID   string
	flagServeHost string
	flagServePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve rendered opus pages over HTTP",
	Long: `Serve renders opus documents on request. "/" renders the default id,
"/opus/{id}" renders any id.

Examples:
  opuspipe serve --id 1133181564352462851
  opuspipe serve --host 0.0.0.0 --port 8080 --cookie "SESSDATA=..."`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&flagServeID, "id", "", "Opus id served at / (default: config server.default_id)")
	serveCmd.Flags().StringVar(&flagServeHost, "host", "", "Listen host (default: config server.host)")
	serveCmd.Flags().IntVar(&flagServePort, "port", 0, "Listen port (default: config server.port, 2333)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	if flags.Changed("id") {
		cfg.Server.DefaultID = flagServeID
	}
	if flags.Changed("host") {
		cfg.Server.Host = flagServeHost
	}
	if flags.Changed("port") {
		cfg.Server.Port = flagServePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	timeout, err := cfg.Server.ShutdownTimeoutDuration()
	if err != nil {
		return err
	}

	pipeline, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}
	page := &render.PageRenderer{Stylesheets: cfg.Render.Stylesheets, MaxWidth: cfg.Render.MaxWidth}
	srv := server.New(pipeline, page, cfg.Server, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
