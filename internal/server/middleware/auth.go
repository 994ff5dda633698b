package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Virtus92/Rising-BSM-Dev/internal/server/response"
)

// TokenVerifier validates an Authorization header value.
type TokenVerifier interface {
	VerifyHeader(ctx context.Context, header string) bool
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Verifier    TokenVerifier
	PublicPaths []string
}

// Auth rejects requests without a valid bearer credential before any
// session or handler state is created.
func Auth(config AuthConfig, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path, config.PublicPaths) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if !config.Verifier.VerifyHeader(r.Context(), header) {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Bool("credential_provided", header != "").
					Msg("Authentication failed")

				response.Unauthorized(w, "Invalid or missing bearer token",
					"Provide a valid token in the Authorization header")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isPublicPath checks if a path is in the public paths list.
func isPublicPath(path string, publicPaths []string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
