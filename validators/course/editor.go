package courseValidator

import (
	"bytes"
	"encoding/json"
	"strings"

	"minicourse/middleware"
	courseModels "minicourse/models/course"

	"github.com/gofiber/fiber/v2"
)

type TitleRequest struct {
	Title string `json:"title"`
}

// NewBlockRequest appends a block. Content is optional; the kind's default
// payload is used when it is absent.
type NewBlockRequest struct {
	BlockType courseModels.BlockKind `json:"block_type"`
	Content   json.RawMessage        `json:"content"`
}

type BlockContentRequest struct {
	Content json.RawMessage `json:"content"`
}

// ReorderRequest moves one item to NewOrder within its sibling set.
type ReorderRequest struct {
	ItemType string `json:"item_type"`
	ItemID   uint   `json:"item_id"`
	NewOrder *int   `json:"new_order"`

	Level courseModels.Level `json:"-"`
}

// Rename validates the title of a module or lesson update.
func Rename() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TitleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		title := strings.TrimSpace(reqData.Title)
		if title == "" {
			errors["title"] = "Title is required!"
		} else if len([]rune(title)) > maxTitleLength {
			errors["title"] = "Title must be at most 200 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Title = title
		c.Locals("validatedTitle", reqData)
		return c.Next()
	}
}

func NewBlock() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(NewBlockRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.BlockType = courseModels.BlockKind(strings.ToLower(strings.TrimSpace(string(reqData.BlockType))))
		if reqData.BlockType == "" {
			errors["block_type"] = "Block type is required!"
		} else if !reqData.BlockType.Valid() {
			errors["block_type"] = "Block type must be one of text, image, video, quiz or action!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBlock", reqData)
		return c.Next()
	}
}

// BlockContent checks that content is present; the payload schema itself is
// checked against the block's kind by the service.
func BlockContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(BlockContentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		raw := bytes.TrimSpace(reqData.Content)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"content": "Content is required!",
			})
		}

		c.Locals("validatedBlockContent", reqData)
		return c.Next()
	}
}

func Reorder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReorderRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		level, ok := courseModels.ParseLevel(reqData.ItemType)
		if !ok || !level.Ordered() {
			errors["item_type"] = "Item type must be module, lesson or block!"
		}

		if reqData.ItemID == 0 {
			errors["item_id"] = "Item ID is required!"
		}

		// Range is checked against the live sibling count by the service
		if reqData.NewOrder == nil {
			errors["new_order"] = "New order is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Level = level
		c.Locals("validatedReorder", reqData)
		return c.Next()
	}
}
