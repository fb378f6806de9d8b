package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Signup(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	DeleteUser(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health HealthHandler
	Auth   AuthHandler

	RequestIDMW func(http.Handler) http.Handler

	// AuthMW guards the profile routes. Nil means the permissive
	// posture was configured (PROFILE_AUTH=none).
	AuthMW func(http.Handler) http.Handler

	// Per-route rate limiting; either may be nil.
	SignupLimitMW func(http.Handler) http.Handler
	LoginLimitMW  func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}

	r := chi.NewRouter()
	if deps.RequestIDMW != nil {
		r.Use(deps.RequestIDMW)
	}

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)

	r.Route("/api/auth", func(r chi.Router) {
		if deps.SignupLimitMW != nil {
			r.With(deps.SignupLimitMW).Post("/signup", deps.Auth.Signup)
		} else {
			r.Post("/signup", deps.Auth.Signup)
		}
		if deps.LoginLimitMW != nil {
			r.With(deps.LoginLimitMW).Post("/login", deps.Auth.Login)
		} else {
			r.Post("/login", deps.Auth.Login)
		}

		r.Route("/profile/{userId}", func(r chi.Router) {
			if deps.AuthMW != nil {
				r.Use(deps.AuthMW)
			}
			r.Get("/", deps.Auth.GetProfile)
			r.Put("/", deps.Auth.UpdateProfile)
			r.Delete("/", deps.Auth.DeleteUser)
		})
	})

	return r, nil
}
