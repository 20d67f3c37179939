package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devconnector/devconnector-go/internal/middleware"
	"github.com/devconnector/devconnector-go/internal/service"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Auth     *service.AuthService
	Profiles *service.ProfileService
	Posts    *service.PostService
	Tokens   middleware.TokenVerifier

	// Per-IP limit applied to register and login.
	AuthRateRPS   float64
	AuthRateBurst int
}

// NewRouter builds the HTTP handler for the whole API. ctx bounds the
// lifetime of background work such as rate limiter cleanup.
func NewRouter(ctx context.Context, cfg RouterConfig) http.Handler {
	authHandler := NewAuthHandler(cfg.Auth)
	profileHandler := NewProfileHandler(cfg.Profiles)
	postHandler := NewPostHandler(cfg.Posts)

	requireAuth := middleware.RequireAuth(cfg.Tokens)
	rateLimit := middleware.RateLimit(ctx, cfg.AuthRateRPS, cfg.AuthRateBurst)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.With(rateLimit).Post("/users", authHandler.HandleRegister)

		r.Route("/auth", func(r chi.Router) {
			r.With(requireAuth).Get("/", authHandler.HandleMe)
			r.With(rateLimit).Post("/", authHandler.HandleLogin)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", profileHandler.HandleList)
			r.Get("/user/{user_id}", profileHandler.HandleByUser)
			r.Get("/github/{username}", profileHandler.HandleGitHub)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", profileHandler.HandleMe)
				r.Post("/", profileHandler.HandleUpsert)
				r.Delete("/", profileHandler.HandleDeleteAccount)
				r.Put("/experience", profileHandler.HandleAddExperience)
				r.Delete("/experience/{exp_id}", profileHandler.HandleRemoveExperience)
				r.Put("/education", profileHandler.HandleAddEducation)
				r.Delete("/education/{edu_id}", profileHandler.HandleRemoveEducation)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", postHandler.HandleList)
			r.Post("/", postHandler.HandleCreate)
			r.Get("/{id}", postHandler.HandleGet)
			r.Delete("/{id}", postHandler.HandleDelete)
			r.Put("/like/{id}", postHandler.HandleLike)
			r.Put("/unlike/{id}", postHandler.HandleUnlike)
			r.Post("/comment/{id}", postHandler.HandleComment)
			r.Delete("/comment/{id}/{comment_id}", postHandler.HandleDeleteComment)
		})
	})

	return r
}
