package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type IDCardHandler struct {
	cardService CardService
}

func NewIDCardHandler(cardService CardService) *IDCardHandler {
	return &IDCardHandler{cardService: cardService}
}

// GET /api/admin/id-cards
func (h *IDCardHandler) ListCards(ctx *fiber.Ctx) error {
	result, err := h.cardService.List(ctx.Context(), pageRequest(ctx))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(result)
}

// POST /api/admin/id-cards/:userId/reissue
func (h *IDCardHandler) PostReissue(ctx *fiber.Ctx) error {
	userID, err := paramID(ctx, "userId")
	if err != nil {
		return mapError(err)
	}
	card, err := h.cardService.Reissue(ctx.Context(), currentID(ctx), userID)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, card)
}

// GET /api/id-cards/verify is public. Unknown ids and bad codes answer valid=false.
func (h *IDCardHandler) GetVerify(ctx *fiber.Ctx) error {
	result, err := h.cardService.Verify(ctx.Context(), queryString(ctx, "digitalId"), queryString(ctx, "code"))
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, result)
}
