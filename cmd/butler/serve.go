package main

import (
	"github.com/spf13/cobra"

	"github.com/entrhq/butler/pkg/logging"
	"github.com/entrhq/butler/pkg/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the prompt store over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := newStore()
		if err != nil {
			return err
		}
		logger, _ := logging.NewLogger("server")
		defer logger.Close()

		return server.New(st, logger).Run(serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8787", "listen address")
}
