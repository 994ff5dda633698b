// Package server runs the BMS event API: an HTTP server exposing SSE and
// WebSocket streaming endpoints, backed by a change poller that watches
// the BMS API and a broadcaster that fans detected changes out to
// connected clients.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Virtus92/Rising-BSM-Dev/internal/bms"
	"github.com/Virtus92/Rising-BSM-Dev/internal/config"
	"github.com/Virtus92/Rising-BSM-Dev/internal/events"
	"github.com/Virtus92/Rising-BSM-Dev/internal/server/handlers"
	"github.com/Virtus92/Rising-BSM-Dev/internal/server/middleware"
)

// shutdownTimeout bounds how long in-flight requests may take to finish
// once shutdown begins.
const shutdownTimeout = 10 * time.Second

// Server is the BMS event API process. It owns the poller, the
// broadcaster, and the HTTP listener, and ties their lifetimes together.
type Server struct {
	cfg         *config.Config
	logger      *zerolog.Logger
	broadcaster *events.Broadcaster
	poller      *events.Poller
	auth        *bms.AuthClient
	http        *http.Server
}

// New wires up a server from configuration.
func New(cfg *config.Config, logger *zerolog.Logger) *Server {
	client := bms.NewClient(cfg.BMSAPIURL, cfg.BMSAPIKey)
	auth := bms.NewAuthClient(client, cfg.BMSAPIKey)
	broadcaster := events.NewBroadcaster(logger)
	poller := events.NewPoller(client, broadcaster, logger)

	h := handlers.New(broadcaster, cfg.ServerName, cfg.ServerVersion, cfg.HeartbeatInterval, logger)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, logger)
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.AllowedOrigins

	return &Server{
		cfg:         cfg,
		logger:      logger,
		broadcaster: broadcaster,
		poller:      poller,
		auth:        auth,
		http: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           newRouter(h, auth, cors, limiter, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run starts the poller and the HTTP listener and blocks until ctx is
// cancelled or the listener fails. On cancellation it stops the poller,
// closes all streaming sessions, and drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	if info, err := s.auth.ServiceAccountInfo(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Could not verify service account, continuing anyway")
	} else {
		s.logger.Info().
			Str("account", info.Email).
			Str("role", info.Role).
			Msg("Authenticated against BMS API")
	}

	// The poller must be running before clients can connect, so that a
	// session never observes a registry without a producer behind it.
	pollCtx, stopPoller := context.WithCancel(context.Background())
	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		s.poller.Run(pollCtx)
	}()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		stopPoller()
		<-pollerDone
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down")

	stopPoller()
	<-pollerDone
	s.broadcaster.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
