package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	gameHandler "github.com/whoami-game/backend/internal/handler/game"
	middlewarePkg "github.com/whoami-game/backend/internal/middleware"
	gameService "github.com/whoami-game/backend/internal/service/game"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(gameSvc *gameService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		gameHandler.New(gameSvc).RegisterRoutes(api)
	})

	return r
}
