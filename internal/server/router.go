package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"calctrack/internal/calculation"
	"calctrack/internal/handlers"
	"calctrack/internal/observability"
)

func NewRouter(api *calculation.API) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	calculation.RegisterRoutes(r, api)

	return r
}
