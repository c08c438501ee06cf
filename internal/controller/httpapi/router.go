package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter собирает маршруты JSON API
func NewRouter(h *Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(WithRequestID)
	r.Use(WithAccessLog(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/events", h.CreateEvent)
		r.Get("/events/{id}", h.GetEvent)
		r.Get("/availabilities", h.GetAvailabilities)
	})

	return r
}
