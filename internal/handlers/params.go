package handlers

import (
	"rewards/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// paramID reads a positive id from the route.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	v := validation.New()
	v.Check(err == nil && id > 0, name, "must be a positive id")
	if !v.Valid() {
		return 0, v.Err()
	}
	return uint(id), nil
}

// parseBody decodes the JSON body into out.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request format")
	}
	return nil
}
