package handlers

import (
	"rewards/internal/utils/response"
	"rewards/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RewardsHandler exposes the valuation engine.
type RewardsHandler struct {
	engine RewardsEngine
}

func NewRewardsHandler(engine RewardsEngine) *RewardsHandler {
	return &RewardsHandler{engine: engine}
}

type EstimateRequest struct {
	CardID      uint    `json:"card_id"`
	SpendAmount float64 `json:"spend_amount"`
	Category    string  `json:"category"`
}

type RecommendRequest struct {
	UserID      uint    `json:"user_id"`
	SpendAmount float64 `json:"spend_amount"`
	Category    string  `json:"category"`
}

type SimulateRequest struct {
	UserID       uint               `json:"user_id"`
	MonthlySpend map[string]float64 `json:"monthly_spend"`
}

func (h *RewardsHandler) Estimate(c *fiber.Ctx) error {
	var req EstimateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	v := validation.New()
	v.ID("card_id", req.CardID)
	v.Required("category", req.Category)
	if err := v.Err(); err != nil {
		return response.FromError(c, err)
	}

	est, err := h.engine.EstimateReward(c.UserContext(), req.CardID, req.SpendAmount, req.Category)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Reward estimated", est)
}

func (h *RewardsHandler) Recommend(c *fiber.Ctx) error {
	var req RecommendRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	v := validation.New()
	v.ID("user_id", req.UserID)
	v.Required("category", req.Category)
	if err := v.Err(); err != nil {
		return response.FromError(c, err)
	}

	rec, err := h.engine.RecommendBestCard(c.UserContext(), req.UserID, req.SpendAmount, req.Category)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Cards ranked", rec)
}

func (h *RewardsHandler) Simulate(c *fiber.Ctx) error {
	var req SimulateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	v := validation.New()
	v.ID("user_id", req.UserID)
	if err := v.Err(); err != nil {
		return response.FromError(c, err)
	}

	sim, err := h.engine.SimulateMonthlySpend(c.UserContext(), req.UserID, req.MonthlySpend)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Spend simulated", sim)
}

func (h *RewardsHandler) WalletGaps(c *fiber.Ctx) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	gaps, err := h.engine.AnalyzeWalletGaps(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Wallet analyzed", gaps)
}
