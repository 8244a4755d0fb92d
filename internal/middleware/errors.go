package middleware

import (
	"errors"

	"rewards/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the fiber error handler. Fiber errors such as unknown
// routes keep their status; everything else goes through the domain error
// mapping.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return response.Error(c, fe.Code, fe.Message)
	}
	return response.FromError(c, err)
}
