package server

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Virtus92/Rising-BSM-Dev/internal/server/handlers"
	"github.com/Virtus92/Rising-BSM-Dev/internal/server/middleware"
)

// publicPaths are served without authentication.
var publicPaths = []string{"/", "/health"}

// newRouter builds the HTTP routing table and wraps it in the middleware
// chain. Order matters: recovery outermost, then request logging, CORS,
// rate limiting, and authentication innermost so rejected requests are
// still logged and rate limited.
func newRouter(h *handlers.Handlers, verifier middleware.TokenVerifier, cors middleware.CORSConfig, limiter *middleware.RateLimiter, logger *zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.HandleRoot)
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc("/sse/events", h.HandleSSE)
	mux.HandleFunc("/sse/trigger", h.HandleTrigger)
	mux.HandleFunc("/ws/events", h.HandleWebSocket)

	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cors),
		limiter.Middleware,
		middleware.Auth(middleware.AuthConfig{
			Verifier:    verifier,
			PublicPaths: publicPaths,
		}, logger),
	)
	return chain(mux)
}
