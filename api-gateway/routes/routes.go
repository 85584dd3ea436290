package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/stawicover/agency-api/api-gateway/config"
	"github.com/stawicover/agency-api/api-gateway/health"
	"github.com/stawicover/agency-api/api-gateway/middleware"
	"github.com/stawicover/agency-api/api-gateway/proxy"
)

// RouteDefinition defines a proxied route prefix.
type RouteDefinition struct {
	Prefix       string
	Description  string
	RequireAuth  bool
	RequireAdmin bool
}

// Routes holds all proxied route prefixes. The backend enforces fine-grained
// authorization itself; the gateway only pre-checks routes that are admin
// only end to end.
var Routes = []RouteDefinition{
	{Prefix: "/api/auth", Description: "Registration and login"},
	{Prefix: "/api/payments", Description: "M-Pesa payment flow (provider callbacks must stay public)"},
	{Prefix: "/api/claims", Description: "Insurance claims"},
	{Prefix: "/api/quotes", Description: "Quote requests"},
	{Prefix: "/api/consultations", Description: "Consultation bookings"},
	{Prefix: "/api/outsourcing", Description: "Outsourcing enquiries"},
	{Prefix: "/api/diaspora", Description: "Diaspora enquiries"},
	{Prefix: "/api/resources", Description: "Resource library"},
	{Prefix: "/api/dashboard", Description: "Admin dashboard", RequireAuth: true, RequireAdmin: true},
}

// SetupRoutes configures all routes in the gateway.
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig) {
	reverseProxy := proxy.NewReverseProxy(cfg)
	healthChecker := health.NewHealthChecker(cfg)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckBackend(ctx)
		statusCode := fiber.StatusOK
		if healthStatus.Status == "unhealthy" {
			statusCode = fiber.StatusServiceUnavailable
		}
		return c.Status(statusCode).JSON(healthStatus)
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Agency API Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	for _, route := range Routes {
		registerRoute(app, route, reverseProxy)
	}
}

func registerRoute(app *fiber.App, route RouteDefinition, reverseProxy *proxy.ReverseProxy) {
	handler := func(c *fiber.Ctx) error {
		return reverseProxy.ProxyRequest(c)
	}

	var middlewares []fiber.Handler
	if route.RequireAdmin {
		middlewares = append(middlewares, middleware.AuthMiddleware(), middleware.AdminMiddleware())
	} else if route.RequireAuth {
		middlewares = append(middlewares, middleware.AuthMiddleware())
	}

	group := app.Group(route.Prefix, middlewares...)
	group.All("/*", handler)

	if len(middlewares) > 0 {
		app.All(route.Prefix, append(middlewares, handler)...)
	} else {
		app.All(route.Prefix, handler)
	}
}
