package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"authify/backend/internal/devotp"
	devotphandler "authify/backend/internal/devotp/handler"
	"authify/backend/internal/http/middleware"
	"authify/backend/internal/ratelimit"
	"authify/backend/internal/server/interceptors"
)

// RouterConfig collects what NewRouter mounts. Nil optional fields leave their routes out.
type RouterConfig struct {
	Auth    *AuthHandler
	Tokens  interceptors.TokenValidator
	Limiter ratelimit.Limiter
	Health  http.Handler
	Metrics http.Handler
	// Activity serves GET /user/activity behind RequireAuth.
	Activity http.Handler
	// DevOTPStore mounts GET /dev/otp when set.
	DevOTPStore devotp.Store
}

// NewRouter builds the chi router for the HTTP API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.ClientIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	if cfg.Health != nil {
		r.Method(http.MethodGet, "/healthz", cfg.Health)
	}
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	if cfg.DevOTPStore != nil {
		r.Get("/dev/otp", devotphandler.HTTPHandler(cfg.DevOTPStore))
	}

	h := cfg.Auth
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.Tokens))

		r.Post("/register", h.Register)
		r.With(middleware.RateLimit(cfg.Limiter, "login", nil)).Post("/login", h.Login)
		r.Get("/is-authenticated", h.IsAuthenticated)
		r.With(middleware.RateLimit(cfg.Limiter, "reset-otp", middleware.EmailQueryKey)).Post("/reset-otp", h.SendResetOTP)
		r.With(
			middleware.RateLimit(cfg.Limiter, "reset-password", nil),
			middleware.RateLimit(cfg.Limiter, "reset-password-email", middleware.BodyEmailKey),
		).Post("/reset-password", h.ResetPassword)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.With(middleware.RateLimit(cfg.Limiter, "send-otp", middleware.IdentityKey)).Post("/send-otp", h.SendVerifyOTP)
			r.With(middleware.RateLimit(cfg.Limiter, "verify-otp", middleware.IdentityKey)).Post("/verify-otp", h.VerifyEmail)
			r.Get("/user", h.Profile)
			if cfg.Activity != nil {
				r.Method(http.MethodGet, "/user/activity", cfg.Activity)
			}
		})
	})
	return r
}
