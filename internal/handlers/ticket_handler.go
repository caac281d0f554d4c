package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/unionhub/internal/tickets"
	"github.com/khanghh/unionhub/model"
)

type UpdateTicketRequest struct {
	Status          *string `json:"status"`
	AssignedAdminID *uint   `json:"assignedAdminId"`
	Resolution      *string `json:"resolution"`
}

type TicketHandler struct {
	ticketService TicketService
}

func NewTicketHandler(ticketService TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// GET /api/admin/tickets
func (h *TicketHandler) ListTickets(ctx *fiber.Ctx) error {
	filter := tickets.Filter{
		Status:   model.TicketStatus(queryString(ctx, "status")),
		Priority: model.TicketPriority(queryString(ctx, "priority")),
	}
	result, err := h.ticketService.List(ctx.Context(), filter, pageRequest(ctx))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(result)
}

// PATCH /api/admin/tickets/:id
func (h *TicketHandler) PatchTicket(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return mapError(err)
	}
	var req UpdateTicketRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	opts := tickets.UpdateOptions{
		AssignedAdminID: req.AssignedAdminID,
		Resolution:      req.Resolution,
	}
	if req.Status != nil {
		status := model.TicketStatus(*req.Status)
		opts.Status = &status
	}
	ticket, err := h.ticketService.Update(ctx.Context(), currentID(ctx), id, opts)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, ticket)
}
