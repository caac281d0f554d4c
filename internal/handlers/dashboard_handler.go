package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService DashboardService
}

func NewDashboardHandler(dashboardService DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GET /api/admin/dashboard
func (h *DashboardHandler) GetDashboard(ctx *fiber.Ctx) error {
	stats, err := h.dashboardService.Stats(ctx.Context())
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, stats)
}
