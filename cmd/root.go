package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gicheruj/birthday-present/internal/config"
)

// cfg is loaded once before any subcommand runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "birthday-present",
	Short: "A guided birthday experience: nine pages, five mini-games and a letter",
	Long: `birthday-present serves a fixed sequence of pages (welcome screens, a
scratch-to-reveal card, a riddle door, a photo gallery, a matching game, a
hidden-object hunt, a birthday candle and a closing letter) over HTTP, or
plays it locally in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c
		cfg.SetupLogging()
		return nil
	},
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}
