package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jwtware "github.com/gofiber/jwt/v2"

	"github.com/wichananm65/camera-store-backend/internal/interface/http/handler"
)

const signInPath = "/api/v1/admin/sign-in"

// Handlers groups the delivery adapters the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Categories *handler.CategoryHandler
	Catalog    *handler.CatalogHandler
}

// New builds the fiber app. Admin routes under /api/v1/admin require a
// token signed with jwtSecret; sign-in stays public. With an empty
// jwtSecret neither sign-in nor the admin routes are mounted.
func New(h Handlers, jwtSecret string) *fiber.App {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + handler.SessionHeader,
		ExposeHeaders: handler.SessionHeader,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	h.Categories.RegisterPublicRoutes(app)
	h.Catalog.RegisterPublicRoutes(app)

	if jwtSecret == "" {
		return app
	}
	h.Auth.RegisterPublicRoutes(app)

	skipSignIn := func(c *fiber.Ctx) bool {
		return c.Path() == signInPath
	}
	admin := app.Group("/api/v1/admin", jwtware.New(jwtware.Config{
		SigningKey: []byte(jwtSecret),
		Filter:     skipSignIn,
	}), func(c *fiber.Ctx) error {
		if skipSignIn(c) {
			return c.Next()
		}
		return handler.RequireAdmin(c)
	})
	h.Categories.RegisterAdminRoutes(admin)

	return app
}
