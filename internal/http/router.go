package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/planora/internal/http/rates"
	"github.com/MrJamesThe3rd/planora/internal/http/register"
)

type Options struct {
	// AllowedOrigins enables CORS for the listed origins. Empty disables it.
	AllowedOrigins []string
	// JWTSecret enables bearer authentication of the API. Empty disables it.
	JWTSecret string
}

func New(
	opts Options,
	registerV1 *register.Handler,
	ratesV1 *rates.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(RequireBearer([]byte(opts.JWTSecret)))
		}

		r.Route("/documents", registerV1.Routes)
		r.Route("/quotes", registerV1.QuoteRoutes)
		r.Route("/rates", ratesV1.Routes)
	})

	return router
}
