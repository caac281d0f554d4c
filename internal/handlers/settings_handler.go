package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	settingService SettingService
}

func NewSettingsHandler(settingService SettingService) *SettingsHandler {
	return &SettingsHandler{settingService: settingService}
}

// GET /api/admin/settings
func (h *SettingsHandler) GetSettings(ctx *fiber.Ctx) error {
	values, err := h.settingService.GetAll(ctx.Context())
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, values)
}

// PUT /api/admin/settings
func (h *SettingsHandler) PutSettings(ctx *fiber.Ctx) error {
	var updates map[string]interface{}
	if err := parseBody(ctx, &updates); err != nil {
		return err
	}
	values, err := h.settingService.Update(ctx.Context(), currentID(ctx), updates)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, values)
}
