package courseValidator

import (
	"strconv"
	"strings"

	"minicourse/middleware"

	"github.com/gofiber/fiber/v2"
)

const maxTitleLength = 200

// IDParam is the :id route parameter, parsed and checked.
type IDParam struct {
	ID uint
}

// CourseRequest is the body of course create and settings update.
type CourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Outcome     string `json:"outcome"`
	Audience    string `json:"audience"`
}

// ContentRequest carries intro or conclusion html.
type ContentRequest struct {
	Content *string `json:"content"`
}

// parseID reads a positive integer route parameter.
func parseID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ID validates the :id parameter of any editor route.
func ID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"id": "ID must be a positive integer!",
			})
		}

		c.Locals("validatedID", &IDParam{ID: id})
		return c.Next()
	}
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Outcome is the only mandatory field
		if strings.TrimSpace(reqData.Outcome) == "" {
			errors["outcome"] = "Learning outcome is required!"
		}

		if len([]rune(strings.TrimSpace(reqData.Title))) > maxTitleLength {
			errors["title"] = "Title must be at most 200 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len([]rune(strings.TrimSpace(reqData.Title))) > maxTitleLength {
			errors["title"] = "Title must be at most 200 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// RichText validates an intro or conclusion update. Empty content is allowed
// and clears the section.
func RichText() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ContentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Content == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"content": "Content is required!",
			})
		}

		c.Locals("validatedContent", reqData)
		return c.Next()
	}
}

// Export validates the format query of the export route.
func Export() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Format string `query:"format"`
		})
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query!", nil)
		}

		switch strings.ToLower(strings.TrimSpace(reqData.Format)) {
		case "", "json", "yaml", "yml":
		default:
			return middleware.ValidationErrorResponse(c, map[string]string{
				"format": "Format must be json or yaml!",
			})
		}

		c.Locals("validatedFormat", strings.ToLower(strings.TrimSpace(reqData.Format)))
		return c.Next()
	}
}
