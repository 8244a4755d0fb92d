package handlers

import (
	"rewards/internal/models"
	"rewards/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type CardHandler struct {
	cards CardManager
}

func NewCardHandler(cards CardManager) *CardHandler {
	return &CardHandler{cards: cards}
}

type BalanceRequest struct {
	Balance float64 `json:"balance"`
}

func (h *CardHandler) AddRewardRule(c *fiber.Ctx) error {
	cardID, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input models.CreateRuleInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	rule, err := h.cards.AddRewardRule(c.UserContext(), cardID, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Reward rule added successfully", rule)
}

func (h *CardHandler) GetRewardRules(c *fiber.Ctx) error {
	cardID, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	details, err := h.cards.GetRewardRules(c.UserContext(), cardID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Reward rules retrieved successfully", details)
}

func (h *CardHandler) ActivateCard(c *fiber.Ctx) error {
	cardID, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	card, err := h.cards.ActivateCard(c.UserContext(), cardID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Card activated", card)
}

func (h *CardHandler) DeactivateCard(c *fiber.Ctx) error {
	cardID, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	card, err := h.cards.DeactivateCard(c.UserContext(), cardID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Card deactivated", card)
}

func (h *CardHandler) UpsertBalance(c *fiber.Ctx) error {
	cardID, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var req BalanceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	balance, err := h.cards.UpsertRewardBalance(c.UserContext(), cardID, req.Balance)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Reward balance updated", balance)
}

func (h *CardHandler) GetBalance(c *fiber.Ctx) error {
	cardID, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	balance, err := h.cards.GetRewardBalance(c.UserContext(), cardID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Reward balance retrieved successfully", balance)
}
