// Package routers assembles the fiber application.
package routers

import (
	"errors"

	"minicourse/config"
	aiController "minicourse/controllers/ai"
	authController "minicourse/controllers/auth"
	courseController "minicourse/controllers/course"
	"minicourse/logger"
	"minicourse/middleware"
	"minicourse/routers/aiRoutes"
	"minicourse/routers/authRoutes"
	"minicourse/routers/courseRoutes"
	"minicourse/services/content"
	"minicourse/services/hierarchy"
	"minicourse/services/suggest"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Config    *config.Config
	Log       *logger.Logger
	DB        *gorm.DB
	Hierarchy *hierarchy.Service
	Content   *content.Facade
	Generator suggest.Generator
}

func NewApp(d Deps) *fiber.App {
	log := d.Log.With("component", "http")

	fiberCfg := fiber.Config{
		AppName:      "minicourse",
		ErrorHandler: errorHandler(log),
	}
	// c.IP() reads X-Forwarded-For only from these peers
	if len(d.Config.TrustedProxies) > 0 {
		fiberCfg.ProxyHeader = fiber.HeaderXForwardedFor
		fiberCfg.EnableTrustedProxyCheck = true
		fiberCfg.TrustedProxies = d.Config.TrustedProxies
	}
	app := fiber.New(fiberCfg)

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Request logging stays off in tests
	if d.Config.AppEnv != "test" {
		app.Use(fiberLogger.New(fiberLogger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	authRoutes.SetupAuthRoutes(app, authController.New(d.DB, d.Config, d.Log), d.Config.JWTKey)

	courses := courseController.New(d.Hierarchy, d.Content, d.Log)
	courseRoutes.SetupCourseRoutes(app, courses, d.Config.JWTKey)
	courseRoutes.SetupEditorRoutes(app, courses, d.Config.JWTKey)

	aiRoutes.SetupAIRoutes(app, aiController.New(d.Generator, d.Log), d.Config.JWTKey)

	return app
}

// errorHandler keeps fiber's own errors (unknown route, bad method) inside
// the response envelope.
func errorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return middleware.JsonResponse(c, fe.Code, false, fe.Message, nil)
		}
		return middleware.ErrorResponse(c, log, err)
	}
}
