package handlers

import (
	"rewards/internal/models"
	"rewards/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	cards CardManager
}

func NewUserHandler(cards CardManager) *UserHandler {
	return &UserHandler{cards: cards}
}

type CreateUserRequest struct {
	Preference string `json:"preference"`
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}

	user, err := h.cards.CreateUser(c.UserContext(), req.Preference)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "User created successfully", user)
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	user, err := h.cards.GetUser(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User retrieved successfully", user)
}

func (h *UserHandler) AddCard(c *fiber.Ctx) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input models.CreateCardInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	details, err := h.cards.AddCard(c.UserContext(), userID, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Card added successfully", details)
}

func (h *UserHandler) ListCards(c *fiber.Ctx) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	list, err := h.cards.ListCards(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Cards retrieved successfully", list)
}
