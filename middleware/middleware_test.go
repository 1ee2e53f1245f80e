package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"minicourse/apperr"
	"minicourse/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponseStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.New(apperr.ErrNotFound, "op", nil), fiber.StatusNotFound},
		{apperr.New(apperr.ErrForbidden, "op", nil), fiber.StatusForbidden},
		{apperr.WithFields(apperr.ErrOutOfRange, "op", map[string]string{"new_order": "x"}), fiber.StatusUnprocessableEntity},
		{apperr.WithFields(apperr.ErrInvalidPayload, "op", map[string]string{"content": "x"}), fiber.StatusUnprocessableEntity},
		{apperr.WithFields(apperr.ErrInvalid, "op", map[string]string{"format": "x"}), fiber.StatusBadRequest},
		{apperr.New(apperr.ErrTransient, "op", errors.New("deadlock")), fiber.StatusServiceUnavailable},
		{apperr.New(apperr.ErrConsistency, "op", errors.New("gap")), fiber.StatusInternalServerError},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		tc := tc
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error { return ErrorResponse(c, logger.Nop(), tc.err) })

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, tc.want, resp.StatusCode, tc.err.Error())
	}
}

func TestJWTMiddleware(t *testing.T) {
	const secret = "s3cret"

	app := fiber.New()
	app.Get("/me", JWTMiddleware(secret), func(c *fiber.Ctx) error {
		id, ok := ActorID(c)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.JSON(fiber.Map{"id": id})
	})

	get := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	token, err := GenerateJWT(secret, 42, "Ada", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, get("Bearer "+token))

	assert.Equal(t, fiber.StatusUnauthorized, get(""))
	assert.Equal(t, fiber.StatusUnauthorized, get(token))

	forged, err := GenerateJWT("other", 42, "Ada", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, get("Bearer "+forged))

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": 42,
		"exp":    time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, get("Bearer "+expired))
}
