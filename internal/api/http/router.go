package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/reclamos-service/internal/api/http/handlers"
	"github.com/spec-kit/reclamos-service/internal/auth"
	"github.com/spec-kit/reclamos-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Planner        *handlers.PlannerHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Get("/auth/me", cfg.Auth.Me)

	tickets := protected.Group("/tickets")
	tickets.Post("/", cfg.Tickets.Open)
	tickets.Get("/pending", cfg.Tickets.ListPending)
	tickets.Post("/:id/close", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.Close)

	sessions := protected.Group("/planner/sessions")
	sessions.Post("/", cfg.Planner.OpenSession)
	sessions.Get("/:id", cfg.Planner.GetSession)
	sessions.Delete("/:id", cfg.Planner.CloseSession)
	sessions.Post("/:id/refresh", cfg.Planner.Refresh)
	sessions.Put("/:id/groups", cfg.Planner.SetGroupCount)
	sessions.Post("/:id/distribute/zone", cfg.Planner.DistributeByZone)
	sessions.Post("/:id/distribute/type", cfg.Planner.DistributeByType)
	sessions.Post("/:id/rebalance", cfg.Planner.Rebalance)
	sessions.Post("/:id/staged/confirm", cfg.Planner.ConfirmStaged)
	sessions.Post("/:id/staged/discard", cfg.Planner.DiscardStaged)
	sessions.Post("/:id/assign", cfg.Planner.Assign)
	sessions.Post("/:id/unassign", cfg.Planner.Unassign)
	sessions.Put("/:id/technicians", cfg.Planner.SetTechnicians)
	sessions.Get("/:id/materials", cfg.Planner.Materials)
	sessions.Post("/:id/commit", cfg.Planner.Commit)
}
