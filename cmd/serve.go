package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gicheruj/birthday-present/internal/content"
	"github.com/gicheruj/birthday-present/internal/game"
	"github.com/gicheruj/birthday-present/internal/httpserver"
	"github.com/gicheruj/birthday-present/internal/journal"
	"github.com/gicheruj/birthday-present/internal/store"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the experience over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetString("port")
		}
		if cmd.Flags().Changed("seed") {
			cfg.RNGSeed, _ = cmd.Flags().GetUint64("seed")
		}
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (overrides PORT)")
	serveCmd.Flags().Uint64("seed", 0, "seed for every session's RNG (overrides RNG_SEED)")
	rootCmd.AddCommand(serveCmd)
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	exp, err := content.Load(cfg.ContentFile)
	if err != nil {
		return err
	}
	script, err := game.NewScript(exp)
	if err != nil {
		return err
	}

	j, err := journal.Open(cfg.Journal())
	if err != nil {
		return err
	}
	defer j.Close()

	srv := httpserver.New(script, store.NewMemoryStore(), j, httpserver.Options{
		ClientOrigin:   cfg.ClientOrigin,
		SessionSecret:  cfg.SessionSecret,
		PassphraseHash: cfg.PassphraseHash,
		RNGSeed:        cfg.RNGSeed,
	})
	go srv.SweepIdle(ctx, cfg.SessionTTL, sweepInterval)

	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("recipient", exp.Recipient).
			Bool("journal", cfg.Journal() != "").
			Bool("passphrase", cfg.PassphraseHash != "").
			Msg("starting server")
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	// End live sessions so their timers stop and the journal sees them close.
	srv.Sessions().Sweep(shutdownCtx, time.Now().Add(time.Hour), 0)
	return nil
}
