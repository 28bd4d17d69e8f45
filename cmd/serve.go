package main

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
	"golang.org/x/sync/errgroup"

	"github.com/partselect/partchat/internal/config"
	"github.com/partselect/partchat/internal/services"
)

const (
	shutdownGrace       = 30 * time.Second
	pruneInterval       = time.Minute
	conversationIdleTTL = 15 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat widget and its API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := services.InitializeServices()
	if err != nil {
		return err
	}
	defer s.Close()

	server := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           setupRouter(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				s.GetConversationService().Prune(conversationIdleTTL)
				s.GetSessionService().Prune()
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
		closed := s.GetConnectionManager().CloseAll()
		log.Info().Int("websockets", closed).Msg("Closed websocket connections")

		// Let answers already requested land in the store.
		done := make(chan struct{})
		go func() {
			s.GetConversationService().Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-shutdownCtx.Done():
			log.Warn().Msg("Shutdown grace period elapsed with requests in flight")
		}
		return nil
	})

	return g.Wait()
}
