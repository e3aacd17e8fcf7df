package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"account-service/internal/handler"
	"account-service/pkg/middleware"
)

func SetupRoutes(r chi.Router, h *handler.AccountHandler, auth *middleware.Middleware) chi.Router {
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(api chi.Router) {
		// ---------------- Public ----------------
		api.Group(func(pub chi.Router) {
			pub.Get("/auth/health", h.Health)
			pub.Post("/auth/register", h.Register)
			pub.Post("/auth/login", h.Login)
			pub.Post("/auth/verify-code", h.VerifyCode)
		})

		// ---------------- Protected ----------------
		api.Group(func(g chi.Router) {
			g.Use(auth.Require)
			g.Get("/users", h.ListUsers)
			g.Get("/users/{id}", h.GetUser)
			g.Delete("/users/{id}", h.DeleteUser)
		})
	})

	return r
}
