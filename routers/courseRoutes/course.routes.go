package courseRoutes

import (
	courseController "minicourse/controllers/course"
	"minicourse/middleware"
	courseModels "minicourse/models/course"
	validators "minicourse/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the dashboard, course creation and the public
// share view.
func SetupCourseRoutes(app *fiber.App, ctrl *courseController.Controller, jwtSecret string) {
	auth := middleware.JWTMiddleware(jwtSecret)

	app.Get("/dashboard", auth, ctrl.Dashboard)
	app.Post("/course/new", auth, validators.CreateCourse(), ctrl.CreateCourse)

	// Read-only view addressed by share token
	app.Get("/view/:share_token", ctrl.PublicView)
}

// SetupEditorRoutes sets up every structural and content edit.
func SetupEditorRoutes(app *fiber.App, ctrl *courseController.Controller, jwtSecret string) {
	editor := app.Group("/editor", middleware.JWTMiddleware(jwtSecret))
	id := validators.ID()

	// Course
	editor.Get("/course/:id", id, ctrl.GetCourse)
	editor.Put("/course/:id", id, validators.UpdateCourse(), ctrl.UpdateCourse)
	editor.Delete("/course/:id", id, ctrl.DeleteCourse)
	editor.Get("/course/:id/intro", id, ctrl.GetIntro)
	editor.Post("/course/:id/intro", id, validators.RichText(), ctrl.UpdateIntro)
	editor.Get("/course/:id/conclusion", id, ctrl.GetConclusion)
	editor.Post("/course/:id/conclusion", id, validators.RichText(), ctrl.UpdateConclusion)
	editor.Get("/course/:id/tree", id, ctrl.Tree)
	editor.Get("/course/:id/export", id, validators.Export(), ctrl.Export)
	editor.Post("/course/:id/modules", id, ctrl.AddModule)

	// Module
	editor.Get("/module/:id", id, ctrl.GetModule)
	editor.Put("/module/:id", id, validators.Rename(), ctrl.Rename(courseModels.LevelModule))
	editor.Delete("/module/:id", id, ctrl.Delete(courseModels.LevelModule))
	editor.Post("/module/:id/lessons", id, ctrl.AddLesson)

	// Lesson
	editor.Get("/lesson/:id", id, ctrl.GetLesson)
	editor.Put("/lesson/:id", id, validators.Rename(), ctrl.Rename(courseModels.LevelLesson))
	editor.Delete("/lesson/:id", id, ctrl.Delete(courseModels.LevelLesson))
	editor.Post("/lesson/:id/blocks", id, validators.NewBlock(), ctrl.AddBlock)

	// Block
	editor.Put("/block/:id", id, validators.BlockContent(), ctrl.EditBlock)
	editor.Delete("/block/:id", id, ctrl.Delete(courseModels.LevelBlock))

	editor.Post("/reorder", validators.Reorder(), ctrl.Reorder)
}
