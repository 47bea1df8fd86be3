package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cookbook/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// /metrics is only mounted when gatherer is non-nil.
func RegisterRoutes(app *fiber.App, db Pinger, svc service.RecipeService, gatherer prometheus.Gatherer) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	if gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// Non-strict routing: /recipes and /recipes/ are the same route.
	recipes := app.Group("/recipes")
	recipes.Get("/", ListRecipes(svc))
	recipes.Post("/", CreateRecipe(svc))
	recipes.Get("/:id", GetRecipe(svc))

	app.Post("/exports/recipes", ExportRecipes(svc))
}
