package handlers

import (
	"rewards/internal/utils/response"
	"rewards/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type MerchantHandler struct {
	engine RewardsEngine
}

func NewMerchantHandler(engine RewardsEngine) *MerchantHandler {
	return &MerchantHandler{engine: engine}
}

type ClassifyRequest struct {
	Merchant string `json:"merchant"`
}

// OverrideRequest corrects the category of a merchant. Confidence defaults
// to 1.
type OverrideRequest struct {
	Merchant   string   `json:"merchant"`
	Category   string   `json:"category"`
	Confidence *float64 `json:"confidence"`
}

func (h *MerchantHandler) Classify(c *fiber.Ctx) error {
	var req ClassifyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	return response.Success(c, "Merchant classified", h.engine.ClassifyMerchant(c.UserContext(), req.Merchant))
}

func (h *MerchantHandler) SetOverride(c *fiber.Ctx) error {
	var req OverrideRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	confidence := 1.0
	if req.Confidence != nil {
		confidence = *req.Confidence
	}
	v := validation.New()
	v.Required("merchant", req.Merchant)
	v.Required("category", req.Category)
	v.Range("confidence", confidence, 0, 1)
	if err := v.Err(); err != nil {
		return response.FromError(c, err)
	}

	override, err := h.engine.SetMerchantOverride(c.UserContext(), req.Merchant, req.Category, confidence)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Merchant override saved", override)
}
