package main

import (
	"github.com/spf13/cobra"

	"github.com/entrhq/butler/pkg/logging"
	"github.com/entrhq/butler/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse prompts in an interactive terminal UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := newStore()
		if err != nil {
			return err
		}
		logger, _ := logging.NewLogger("tui")
		defer logger.Close()

		return tui.Run(st, logger)
	},
}
