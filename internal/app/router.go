package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"todoList/internal/config"
	"todoList/internal/handlers"
	"todoList/internal/middleware"
)

// NewRouter mounts the task routes under cfg.RoutePrefix ("" gives /tasks,
// "/api" gives /api/tasks). The root and /health stay unprefixed.
func NewRouter(cfg config.ServerConfig, svc handlers.Service) http.Handler {
	taskHandler := handlers.NewTaskHandler(svc)

	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	if cfg.CORS {
		r.Use(middleware.CORS())
	}
	r.Use(middleware.RateLimit(cfg.RateLimit))

	r.Get("/", taskHandler.Root)
	r.Get("/health", taskHandler.HealthCheck)

	if cfg.RoutePrefix == "" {
		taskHandler.Mount(r)
	} else {
		r.Route(cfg.RoutePrefix, func(r chi.Router) {
			taskHandler.Mount(r)
		})
	}

	return otelhttp.NewHandler(r, "todo-api")
}
