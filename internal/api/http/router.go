package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wellness-services/internal/api/http/handlers"
	"github.com/spec-kit/wellness-services/internal/auth"
	"github.com/spec-kit/wellness-services/internal/domain"
)

// UserRouteConfig bundles dependencies for the identity provider routes.
type UserRouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// ActivityRouteConfig bundles dependencies for the resource service routes.
type ActivityRouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Activity       *handlers.ActivityHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterUserRoutes wires the user service.
func RegisterUserRoutes(app *fiber.App, cfg UserRouteConfig) {
	registerOps(app, cfg.Health, cfg.Metrics)

	app.Post("/register", cfg.Users.Register)
	app.Post("/users", cfg.Users.Register)
	app.Post("/login", cfg.Users.Login)
	app.Get("/validate_token", cfg.AuthMiddleware.Handle, cfg.Users.ValidateToken)
	app.Get("/users/:id", cfg.Users.GetUser)
}

// RegisterActivityRoutes wires the activity service.
func RegisterActivityRoutes(app *fiber.App, cfg ActivityRouteConfig) {
	registerOps(app, cfg.Health, cfg.Metrics)

	activity := app.Group("/activity", cfg.AuthMiddleware.Handle)
	activity.Post("/", cfg.Activity.LogActivity)
	activity.Get("/summary", cfg.Activity.Summary)
	activity.Get("/:id", cfg.Activity.GetActivity)

	admin := app.Group("/api/v1/admin/activity", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/all", cfg.Activity.AdminListActivities)
	admin.Get("/:id", cfg.Activity.AdminGetActivity)
}

func registerOps(app *fiber.App, health *handlers.HealthHandler, metrics *handlers.MetricsHandler) {
	if health != nil {
		app.Get("/health/live", health.Live)
		app.Get("/health/ready", health.Ready)
	}
	if metrics != nil {
		app.Get("/metrics", metrics.Expose)
	}
}
