package courseController

import (
	"fmt"
	"time"

	"minicourse/logger"
	"minicourse/middleware"
	"minicourse/services/content"
	"minicourse/services/hierarchy"
	courseValidator "minicourse/validators/course"

	"github.com/gofiber/fiber/v2"
)

// Controller serves the dashboard, course settings and the editor API.
type Controller struct {
	hierarchy *hierarchy.Service
	content   *content.Facade
	log       *logger.Logger
}

func New(h *hierarchy.Service, f *content.Facade, baseLog *logger.Logger) *Controller {
	return &Controller{hierarchy: h, content: f, log: baseLog.With("controller", "course")}
}

// actorAndID returns the authenticated user and the validated :id.
func actorAndID(c *fiber.Ctx) (uint, uint, bool) {
	actor, ok := middleware.ActorID(c)
	if !ok {
		return 0, 0, false
	}
	param, ok := c.Locals("validatedID").(*courseValidator.IDParam)
	if !ok {
		return 0, 0, false
	}
	return actor, param.ID, true
}

func unauthorized(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
}

func (cc *Controller) Dashboard(c *fiber.Ctx) error {
	actor, ok := middleware.ActorID(c)
	if !ok {
		return unauthorized(c)
	}

	dashboard, err := cc.hierarchy.Dashboard(c.UserContext(), actor, time.Now())
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard.", dashboard)
}

func (cc *Controller) CreateCourse(c *fiber.Ctx) error {
	actor, ok := middleware.ActorID(c)
	if !ok {
		return unauthorized(c)
	}
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := cc.hierarchy.CreateCourse(c.UserContext(), actor, hierarchy.CourseInput(*reqData))
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully.", course)
}

func (cc *Controller) GetCourse(c *fiber.Ctx) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return unauthorized(c)
	}

	course, err := cc.hierarchy.GetCourse(c.UserContext(), actor, id)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details.", course)
}

func (cc *Controller) UpdateCourse(c *fiber.Ctx) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return unauthorized(c)
	}
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := cc.hierarchy.UpdateCourseSettings(c.UserContext(), actor, id, hierarchy.CourseInput(*reqData))
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course settings updated successfully.", course)
}

func (cc *Controller) DeleteCourse(c *fiber.Ctx) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return unauthorized(c)
	}

	if err := cc.hierarchy.DeleteCourse(c.UserContext(), actor, id); err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted.", nil)
}

func (cc *Controller) UpdateIntro(c *fiber.Ctx) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return unauthorized(c)
	}
	reqData, ok := c.Locals("validatedContent").(*courseValidator.ContentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if _, err := cc.hierarchy.UpdateIntro(c.UserContext(), actor, id, *reqData.Content); err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Introduction updated successfully.", nil)
}

func (cc *Controller) UpdateConclusion(c *fiber.Ctx) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return unauthorized(c)
	}
	reqData, ok := c.Locals("validatedContent").(*courseValidator.ContentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if _, err := cc.hierarchy.UpdateConclusion(c.UserContext(), actor, id, *reqData.Content); err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Conclusion updated successfully.", nil)
}

func (cc *Controller) GetIntro(c *fiber.Ctx) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return unauthorized(c)
	}

	course, err := cc.hierarchy.GetCourse(c.UserContext(), actor, id)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Introduction.", fiber.Map{"content": course.IntroContent})
}

func (cc *Controller) GetConclusion(c *fiber.Ctx) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return unauthorized(c)
	}

	course, err := cc.hierarchy.GetCourse(c.UserContext(), actor, id)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Conclusion.", fiber.Map{"content": course.ConclusionContent})
}

func (cc *Controller) Tree(c *fiber.Ctx) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return unauthorized(c)
	}

	tree, err := cc.content.Tree(c.UserContext(), actor, id)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course tree.", tree)
}

// Export sends the tree as a file rather than inside the envelope.
func (cc *Controller) Export(c *fiber.Ctx) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return unauthorized(c)
	}
	format, _ := c.Locals("validatedFormat").(string)

	body, contentType, err := cc.content.Export(c.UserContext(), actor, id, format)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}

	ext := "json"
	if contentType != "application/json" {
		ext = "yaml"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="course-%d.%s"`, id, ext))
	return c.Status(fiber.StatusOK).Send(body)
}

// PublicView renders the shared read-only tree. No authentication.
func (cc *Controller) PublicView(c *fiber.Ctx) error {
	tree, err := cc.content.PublicTree(c.UserContext(), c.Params("share_token"))
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course.", tree)
}
