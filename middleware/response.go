package middleware

import (
	"errors"

	"minicourse/apperr"
	"minicourse/logger"

	"github.com/gofiber/fiber/v2"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// ErrorResponse maps an error from the service layer onto the response
// envelope. Store and consistency failures are logged and answered with a
// generic message.
func ErrorResponse(c *fiber.Ctx, log *logger.Logger, err error) error {
	fields := apperr.FieldsOf(err)

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Resource not found!", nil)
	case errors.Is(err, apperr.ErrForbidden):
		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	case errors.Is(err, apperr.ErrOutOfRange):
		return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Position out of range!", fields)
	case errors.Is(err, apperr.ErrInvalidPayload):
		return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Invalid content!", fields)
	case errors.Is(err, apperr.ErrInvalid):
		return JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request!", fields)
	case errors.Is(err, apperr.ErrTransient):
		log.Warn("Request failed on a transient error", "path", c.Path(), "error", err)
		return JsonResponse(c, fiber.StatusServiceUnavailable, false, "Service busy, please try again!", nil)
	case errors.Is(err, apperr.ErrConsistency):
		log.Error("Consistency violation while serving request", "path", c.Path(), "error", err)
	default:
		log.Error("Request failed", "path", c.Path(), "error", err)
	}
	return JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
}
