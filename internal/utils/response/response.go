package response

import (
	"log"

	appErrors "rewards/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	c.Status(fiber.StatusCreated)
	return Success(c, message, data)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// StatusFor maps an error to the HTTP status it is reported with.
func StatusFor(err error) int {
	switch appErrors.KindOf(err) {
	case appErrors.KindValidation:
		return fiber.StatusBadRequest
	case appErrors.KindNotFound:
		return fiber.StatusNotFound
	case appErrors.KindUnsupported:
		return fiber.StatusUnprocessableEntity
	case appErrors.KindCollaborator:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// FromError writes err as a JSON error body. Domain errors carry their code
// and accepted values; anything else is logged and reported as an internal
// error without details.
func FromError(c *fiber.Ctx, err error) error {
	var de *appErrors.DomainError
	if !appErrors.As(err, &de) {
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
		return ServerError(c, "Internal server error")
	}

	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	}

	body := fiber.Map{
		"error": de.Message,
		"code":  de.Code,
	}
	if len(de.Valid) > 0 {
		body["valid"] = de.Valid
	}
	return c.Status(status).JSON(body)
}
