package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/petermazzocco/go-photo-gallery/web"
)

type RouterOptions struct {
	// RateLimitPerMinute caps /api requests per IP and endpoint. Zero disables it.
	RateLimitPerMinute int
	AllowedOrigins     []string
}

func NewRouter(app *App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if app.Metrics != nil {
		r.Use(app.Metrics.Middleware)
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: len(opts.AllowedOrigins) > 0,
		MaxAge:           300,
	}))

	r.Get("/healthz", app.Healthz)
	if app.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", app.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimitPerMinute > 0 {
			r.Use(httprate.Limit(
				opts.RateLimitPerMinute,
				1*time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
			))
		}
		r.Use(app.Sessions.Middleware)
		r.Post("/signup", app.SignupHandler)
		r.Post("/login", app.LoginHandler)
		r.Post("/logout", app.LogoutHandler)
		r.Post("/upload", app.UploadHandler)
		r.Get("/photos", app.ListPhotosHandler)
	})

	r.Handle("/*", web.Handler())
	return r
}
