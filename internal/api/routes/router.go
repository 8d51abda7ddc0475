package routes

import (
	"net/http"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/api/handlers"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/api/middleware"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/infrastructure/observability"
	"github.com/heartclinicmelbourne/patient-resources/backend/pkg/config"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	procedureHandler *handlers.ProcedureHandler
	selectionHandler *handlers.SelectionHandler
	guideHandler     *handlers.GuideHandler
	referralHandler  *handlers.ReferralHandler

	cacheMiddleware *middleware.CacheMiddleware
	sessionConfig   config.SessionConfig
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	procedureHandler *handlers.ProcedureHandler,
	selectionHandler *handlers.SelectionHandler,
	guideHandler *handlers.GuideHandler,
	referralHandler *handlers.ReferralHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	sessionConfig config.SessionConfig,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		procedureHandler: procedureHandler,
		selectionHandler: selectionHandler,
		guideHandler:     guideHandler,
		referralHandler:  referralHandler,
		cacheMiddleware:  cacheMiddleware,
		sessionConfig:    sessionConfig,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Catalog endpoints
	r.mux.HandleFunc("GET /api/procedures", r.procedureHandler.ListProcedures)
	r.mux.HandleFunc("GET /api/procedures/{id}", r.procedureHandler.GetProcedure)
	r.mux.HandleFunc("GET /api/bundles", r.procedureHandler.ListBundles)

	// Selection endpoints
	r.mux.HandleFunc("GET /api/selection", r.selectionHandler.GetSelection)
	r.mux.HandleFunc("POST /api/selection/items", r.selectionHandler.AddItem)
	r.mux.HandleFunc("DELETE /api/selection/items/{id}", r.selectionHandler.RemoveItem)
	r.mux.HandleFunc("POST /api/selection/bundles/{id}", r.selectionHandler.AddBundle)
	r.mux.HandleFunc("DELETE /api/selection/bundles/{id}", r.selectionHandler.RemoveBundle)
	r.mux.HandleFunc("DELETE /api/selection", r.selectionHandler.ClearSelection)

	// Guide endpoints
	r.mux.HandleFunc("POST /api/guides/pdf", r.guideHandler.GeneratePDF)
	r.mux.HandleFunc("POST /api/guides/email", r.guideHandler.ComposeEmail)

	// Referral endpoint
	r.mux.HandleFunc("POST /api/referrals", r.referralHandler.ComposeReferral)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.SessionMiddleware(r.sessionConfig)(handler)
	handler = middleware.LoggingMiddleware(handler)

	// Catalog responses are cacheable; the middleware ignores everything else
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
