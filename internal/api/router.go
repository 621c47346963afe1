// Package api exposes the grading pipeline over HTTP. Malformed input
// is the only client error; engine trouble never surfaces as a 5xx
// because the pipeline degrades instead.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/tougaku/sensei/internal/config"
)

// NewRouter builds the chi router with the standard middleware stack.
func NewRouter(h *Handler, corsCfg config.CORSConfig, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowedMethods:   corsCfg.AllowedMethods,
		AllowedHeaders:   corsCfg.AllowedHeaders,
		AllowCredentials: corsCfg.AllowCredentials,
		MaxAge:           corsCfg.MaxAge,
	}))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/check_homework", h.CheckHomework)
		r.Post("/check_homework_image", h.CheckHomeworkImage)
		r.Post("/generate_practice", h.GeneratePractice)
	})

	return r
}
