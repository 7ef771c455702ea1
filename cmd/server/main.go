// Command server runs the x402 Solana payment facilitator as a
// standalone HTTP service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/cedros-labs/x402-facilitator/internal/config"
	"github.com/cedros-labs/x402-facilitator/internal/logger"
	"github.com/cedros-labs/x402-facilitator/pkg/x402app"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code: 0 on clean shutdown, 1 on a fatal
// startup error (bad key, bind failure), per spec's exit code table.
func run() int {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("server.config_load_failed")
		return 1
	}

	appLogger := logger.New(logger.Config{Level: cfg.Logging.Level, Format: "json", Service: "x402-facilitator"})
	log.Logger = appLogger

	app, err := x402app.NewApp(cfg)
	if err != nil {
		appLogger.Error().Err(err).Msg("server.app_init_failed")
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			appLogger.Error().Err(err).Msg("server.close_failed")
		}
	}()

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(cfg.X402.DefaultTimeoutSeconds+5) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info().
			Str("addr", cfg.Server.Addr()).
			Str("network", cfg.X402.Network).
			Str("fee_payer", app.FeePayer).
			Msg("server.listening")
		serveErr <- httpServer.ListenAndServe()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error().Err(err).Msg("server.listen_failed")
			return 1
		}
	case <-ctx.Done():
		appLogger.Info().Msg("server.shutting_down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error().Err(err).Msg("server.shutdown_failed")
			return 1
		}
	}

	return 0
}
