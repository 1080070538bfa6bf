package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/contactd/contactd/internal/cache"
	"github.com/contactd/contactd/internal/config"
	"github.com/contactd/contactd/internal/middleware"
)

// MountRoutes registers all API routes on the given chi router.
//
// The middleware order on protected routes is deliberate: Auth runs before
// the response cache so an invalid token is rejected before any cached data
// is touched, and the rate limiter on /users/me runs before the cache so a
// hit still consumes a token.
func MountRoutes(r chi.Router, h *Handlers, cfg *config.Config, rc *cache.ResponseCache, rl *middleware.RateLimiter, health *HealthHandler) {
	r.Get("/health", health.Health)
	r.Handle("/metrics", promhttp.Handler())

	authMW := middleware.Auth(h.Auth)
	cacheMW := middleware.ResponseCache(rc, cfg.Cache)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Get("/confirm/{token}", h.ConfirmEmail)
			r.Post("/password-reset", h.RequestPasswordReset)
			r.Get("/password-reset/{token}", h.VerifyResetToken)
			r.Post("/password-reset/confirm", h.ResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMW)

			r.Route("/users", func(r chi.Router) {
				r.With(rl.Handler, cacheMW).Get("/me", h.Me)
				r.Patch("/avatar", h.UpdateAvatar)
				r.Post("/password", h.ChangePassword)
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Use(cacheMW)

				r.Get("/", h.ListContacts)
				r.Post("/", h.CreateContact)
				r.Get("/birthdays", h.UpcomingBirthdays)
				r.Get("/{id}", h.GetContact)
				r.Put("/{id}", h.UpdateContact)
				r.Patch("/{id}/birthdate", h.UpdateContactBirthdate)
				r.Delete("/{id}", h.DeleteContact)
			})
		})
	})
}
