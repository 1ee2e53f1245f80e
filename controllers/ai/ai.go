package aiController

import (
	"minicourse/logger"
	"minicourse/middleware"
	"minicourse/services/suggest"

	"github.com/gofiber/fiber/v2"
)

// Controller exposes the suggestion generator. Nothing here writes to the
// course hierarchy.
type Controller struct {
	generator suggest.Generator
	log       *logger.Logger
}

func New(g suggest.Generator, baseLog *logger.Logger) *Controller {
	return &Controller{generator: g, log: baseLog.With("controller", "ai")}
}

func (ac *Controller) Generate(kind suggest.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := middleware.ActorID(c); !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}
		input, _ := c.Locals("validatedInput").(string)

		out, err := suggest.Generate(c.UserContext(), ac.generator, kind, input)
		if err != nil {
			return middleware.ErrorResponse(c, ac.log, err)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Suggestion generated.", fiber.Map{
			kind.OutputField(): out,
		})
	}
}
