package rest

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/ndt-conclusions/internal/config"
	"github.com/heartmarshall/ndt-conclusions/internal/transport/middleware"
)

// RouterDeps holds what NewRouter needs to assemble the HTTP surface.
type RouterDeps struct {
	Sessions    *SessionHandler
	Journal     *JournalHandler
	Health      *HealthHandler
	RateLimiter *middleware.RateLimiter
	RateLimit   config.RateLimitConfig
	CORS        config.CORSConfig
	Logger      *slog.Logger
}

// NewRouter registers all routes and wraps them in the middleware chain.
// Only session creation is rate limited.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", deps.Health.Live)
	mux.HandleFunc("GET /ready", deps.Health.Ready)
	mux.HandleFunc("GET /health", deps.Health.Health)

	create := http.Handler(http.HandlerFunc(deps.Sessions.Create))
	if deps.RateLimiter != nil {
		create = deps.RateLimiter.Limit(deps.RateLimit.SessionsPerMinute)(create)
	}
	mux.Handle("POST /api/sessions", create)

	mux.HandleFunc("GET /api/control-types", deps.Sessions.ControlTypes)
	mux.HandleFunc("GET /api/sessions/{id}", deps.Sessions.Get)
	mux.HandleFunc("DELETE /api/sessions/{id}", deps.Sessions.Delete)
	mux.HandleFunc("PATCH /api/sessions/{id}/form", deps.Sessions.UpdateField)
	mux.HandleFunc("POST /api/sessions/{id}/drafts", deps.Sessions.SaveDraft)
	mux.HandleFunc("POST /api/sessions/{id}/drafts/{draftId}/load", deps.Sessions.LoadDraft)
	mux.HandleFunc("POST /api/sessions/{id}/documents", deps.Sessions.GenerateDocument)
	mux.HandleFunc("PUT /api/sessions/{id}/section", deps.Sessions.SetSection)
	mux.HandleFunc("GET /api/sessions/{id}/stats", deps.Sessions.Stats)
	if deps.Journal != nil {
		mux.HandleFunc("GET /api/sessions/{id}/journal", deps.Journal.List)
	}

	return middleware.Chain(
		middleware.Recovery(deps.Logger),
		middleware.RequestID(),
		middleware.Logger(deps.Logger),
		middleware.CORS(deps.CORS),
	)(mux)
}
