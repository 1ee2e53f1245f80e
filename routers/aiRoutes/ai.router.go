package aiRoutes

import (
	aiController "minicourse/controllers/ai"
	"minicourse/middleware"
	"minicourse/services/suggest"
	aiValidator "minicourse/validators/ai"

	"github.com/gofiber/fiber/v2"
)

func SetupAIRoutes(app *fiber.App, ctrl *aiController.Controller, jwtSecret string) {
	aiGroup := app.Group("/ai", middleware.JWTMiddleware(jwtSecret))

	for _, kind := range suggest.Kinds {
		aiGroup.Post("/"+string(kind), aiValidator.Suggestion(kind), ctrl.Generate(kind))
	}
}
