package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter собирает маршруты сервиса. Защищённые маршруты проходят через Authenticate.
func NewRouter(h *UserHandler, verifier TokenVerifier, timeout time.Duration, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", h.Health)

	r.Post("/registration", h.Registration)
	r.Post("/login", h.Login)
	r.Post("/logOut", h.LogOut)
	r.Get("/images/*", h.Images)

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(verifier, logger))
		r.Get("/getUsers", h.GetUsers)
		r.Put("/updateUsers", h.UpdateUsers)
	})

	return r
}
