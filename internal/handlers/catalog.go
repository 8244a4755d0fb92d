package handlers

import (
	"bytes"

	"rewards/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	catalog CatalogService
}

func NewCatalogHandler(catalog CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) List(c *fiber.Ctx) error {
	cards, err := h.catalog.List(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Catalog retrieved successfully", cards)
}

// Import replaces catalog entries from a YAML or JSON body.
func (h *CatalogHandler) Import(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return response.BadRequest(c, "Catalog body is required")
	}

	result, err := h.catalog.Import(c.UserContext(), bytes.NewReader(c.Body()))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Catalog imported", result)
}
