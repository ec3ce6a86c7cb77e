package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"solar-capex/api"
	"solar-capex/internal/config"
)

var serveAddr string

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the evaluation API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return api.NewServer(Version, cfg.Engine, cat).ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}
