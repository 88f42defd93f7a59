// Package httpapi wires the HTTP surface: account issuance, the
// conversation operations, the realtime upgrade endpoint and the debug
// stats.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"chat-core/auth"
	"chat-core/observability"
)

// NewRouter assembles all routes. The websocket endpoint authenticates its
// own handshake inside the gateway, so it is mounted outside the bearer
// middleware.
func NewRouter(accounts *AccountHandler, conversations *ConversationHandler,
	verifier auth.IdentityVerifier, realtime http.Handler,
	stats *observability.Manager, verifyTimeout time.Duration, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	accounts.RegisterRoutes(r)

	r.Group(func(protected chi.Router) {
		protected.Use(auth.Middleware(verifier, verifyTimeout))
		conversations.RegisterRoutes(protected)
	})

	r.Method(http.MethodGet, "/ws", realtime)

	r.Get("/debug/stats", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, stats.Snapshot())
	})

	return r
}
