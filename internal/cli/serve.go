// internal/cli/serve.go
//
// The HTTP server command and its round store wiring.

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chriscastillo1/wordle/internal/config"
	"github.com/chriscastillo1/wordle/internal/daily"
	"github.com/chriscastillo1/wordle/internal/httpserver"
	"github.com/chriscastillo1/wordle/internal/store"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

// serve runs the HTTP server until ctx is cancelled, then drains it.
func (a *app) serve(ctx context.Context) error {
	ws, err := a.loadWords()
	if err != nil {
		return err
	}
	log.Info().Int("words", ws.Len()).Msg("word list loaded")

	conn, err := a.openDB()
	if err != nil {
		return err
	}
	defer conn.Close()

	rounds, closeRounds, err := a.roundStore()
	if err != nil {
		return err
	}
	defer closeRounds()

	srv := httpserver.New(httpserver.Deps{
		Config:   a.cfg,
		Words:    ws,
		Rounds:   rounds,
		Accounts: a.accounts(conn),
		Daily:    daily.NewStore(conn),
		Now:      a.clock(),
	})
	httpSrv := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	log.Info().Str("port", a.cfg.Port).Str("rounds", a.cfg.RoundStore).Msg("server started")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

// roundStore builds the configured round backend and its cleanup func.
func (a *app) roundStore() (store.Store, func() error, error) {
	if a.cfg.RoundStore != config.RoundStoreRedis {
		return store.NewMemoryStore(store.WithTTL(a.cfg.RoundTTL)), func() error { return nil }, nil
	}
	rc := store.DefaultRedisConfig()
	rc.URL = a.cfg.RedisURL
	rc.RoundTTL = a.cfg.RoundTTL
	rs, err := store.NewRedis(rc)
	if err != nil {
		return nil, nil, err
	}
	return rs, rs.Close, nil
}
