package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"tapecrate-api/internal/handlers"
	"tapecrate-api/internal/metrics"
	"tapecrate-api/internal/middleware"
)

func SetupRouter(r *chi.Mux, baseLogger *zap.Logger, shows *handlers.ShowsHandler) {

	r.Use(metrics.Middleware)

	// base middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)

	r.Use(middleware.LoggingContext(baseLogger))
	r.Use(middleware.Recoverer())               // panic recovery
	r.Use(middleware.Timeout(30 * time.Second)) // request timeout; list resolution pages upstream

	// routes
	r.Route("/v1", func(r chi.Router) {
		r.Get("/shows", shows.List)
		r.Get("/shows/detail", shows.Detail)
	})

	// health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", metrics.Handler())
}
