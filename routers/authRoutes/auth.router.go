package authRoutes

import (
	authController "minicourse/controllers/auth"
	"minicourse/middleware"
	authValidators "minicourse/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, ctrl *authController.Controller, jwtSecret string) {
	authGroup := app.Group("/auth")
	auth := middleware.JWTMiddleware(jwtSecret)

	authGroup.Post("/signup", authValidators.Signup(), ctrl.Signup)
	authGroup.Post("/login", authValidators.Login(), ctrl.Login)
	authGroup.Get("/login/history", auth, authValidators.LoginHistoryList(), ctrl.LoginHistoryList)
	authGroup.Put("/change/login/password", auth, authValidators.ChangeLoginPassword(), ctrl.ChangeLoginPassword)
}
