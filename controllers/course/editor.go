package courseController

import (
	"strings"

	"minicourse/middleware"
	courseModels "minicourse/models/course"
	courseValidator "minicourse/validators/course"

	"github.com/gofiber/fiber/v2"
)

func (cc *Controller) AddModule(c *fiber.Ctx) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return unauthorized(c)
	}

	module, err := cc.hierarchy.AddModule(c.UserContext(), actor, id)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module added.", fiber.Map{"module": module})
}

func (cc *Controller) GetModule(c *fiber.Ctx) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return unauthorized(c)
	}

	detail, err := cc.hierarchy.GetModule(c.UserContext(), actor, id)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module details.", detail)
}

func (cc *Controller) AddLesson(c *fiber.Ctx) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return unauthorized(c)
	}

	lesson, err := cc.hierarchy.AddLesson(c.UserContext(), actor, id)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson added.", fiber.Map{"lesson": lesson})
}

func (cc *Controller) GetLesson(c *fiber.Ctx) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return unauthorized(c)
	}

	detail, err := cc.hierarchy.GetLesson(c.UserContext(), actor, id)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson details.", detail)
}

func (cc *Controller) AddBlock(c *fiber.Ctx) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return unauthorized(c)
	}
	reqData, ok := c.Locals("validatedBlock").(*courseValidator.NewBlockRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	block, err := cc.hierarchy.AddBlock(c.UserContext(), actor, id, reqData.BlockType, reqData.Content)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content block added.", fiber.Map{"block": block})
}

func (cc *Controller) EditBlock(c *fiber.Ctx) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return unauthorized(c)
	}
	reqData, ok := c.Locals("validatedBlockContent").(*courseValidator.BlockContentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	block, err := cc.hierarchy.EditBlockContent(c.UserContext(), actor, id, reqData.Content)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Block updated.", fiber.Map{"block": block})
}

// Rename serves PUT on a module or lesson.
func (cc *Controller) Rename(level courseModels.Level) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, id, ok := actorAndID(c)
		if !ok {
			return unauthorized(c)
		}
		reqData, ok := c.Locals("validatedTitle").(*courseValidator.TitleRequest)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
		}

		if err := cc.hierarchy.Rename(c.UserContext(), actor, level, id, reqData.Title); err != nil {
			return middleware.ErrorResponse(c, cc.log, err)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, titleCase(level)+" updated.", fiber.Map{
			string(level): fiber.Map{"id": id, "title": reqData.Title},
		})
	}
}

// Delete serves DELETE on a module, lesson or block. Later siblings close
// the gap.
func (cc *Controller) Delete(level courseModels.Level) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, id, ok := actorAndID(c)
		if !ok {
			return unauthorized(c)
		}

		if err := cc.hierarchy.Delete(c.UserContext(), actor, level, id); err != nil {
			return middleware.ErrorResponse(c, cc.log, err)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, titleCase(level)+" deleted.", nil)
	}
}

func (cc *Controller) Reorder(c *fiber.Ctx) error {
	actor, ok := middleware.ActorID(c)
	if !ok {
		return unauthorized(c)
	}
	reqData, ok := c.Locals("validatedReorder").(*courseValidator.ReorderRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	err := cc.hierarchy.Reposition(c.UserContext(), actor, reqData.Level, reqData.ItemID, *reqData.NewOrder)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, titleCase(reqData.Level)+" reordered successfully.", nil)
}

func titleCase(level courseModels.Level) string {
	s := string(level)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
