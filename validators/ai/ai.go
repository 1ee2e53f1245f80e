package aiValidator

import (
	"strings"

	"minicourse/middleware"
	"minicourse/services/suggest"

	"github.com/gofiber/fiber/v2"
)

// Suggestion reads the input field that belongs to kind from a JSON body
// and stores the trimmed text in c.Locals("validatedInput").
func Suggestion(kind suggest.Kind) fiber.Handler {
	field := kind.InputField()

	return func(c *fiber.Ctx) error {
		reqData := make(map[string]interface{})
		if err := c.BodyParser(&reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		input, _ := reqData[field].(string)
		input = strings.TrimSpace(input)
		if input == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				field: kind.RequiredMessage(),
			})
		}

		c.Locals("validatedInput", input)
		return c.Next()
	}
}
