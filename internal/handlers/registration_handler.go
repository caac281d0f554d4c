package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/unionhub/internal/review"
	"github.com/khanghh/unionhub/model"
)

type DecisionRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

// RegistrationHandler serves the registration review queue.
type RegistrationHandler struct {
	reviewService ReviewService
}

func NewRegistrationHandler(reviewService ReviewService) *RegistrationHandler {
	return &RegistrationHandler{reviewService: reviewService}
}

// GET /api/admin/registrations
func (h *RegistrationHandler) ListRegistrations(ctx *fiber.Ctx) error {
	filter := review.CandidateFilter{Status: model.UserStatus(queryString(ctx, "status"))}
	result, err := h.reviewService.List(ctx.Context(), filter, pageRequest(ctx))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(result)
}

// GET /api/admin/registrations/:id
func (h *RegistrationHandler) GetRegistration(ctx *fiber.Ctx) error {
	userID, err := paramID(ctx, "id")
	if err != nil {
		return mapError(err)
	}
	candidate, err := h.reviewService.Get(ctx.Context(), userID)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, candidate)
}

func (h *RegistrationHandler) decide(ctx *fiber.Ctx, fn func(adminID, userID uint, req DecisionRequest) (*model.User, error)) error {
	userID, err := paramID(ctx, "id")
	if err != nil {
		return mapError(err)
	}
	var req DecisionRequest
	if len(ctx.Body()) > 0 {
		if err := parseBody(ctx, &req); err != nil {
			return err
		}
	}
	user, err := fn(currentID(ctx), userID, req)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, user)
}

// POST /api/admin/registrations/:id/review
func (h *RegistrationHandler) PostStartReview(ctx *fiber.Ctx) error {
	return h.decide(ctx, func(adminID, userID uint, _ DecisionRequest) (*model.User, error) {
		return h.reviewService.StartReview(ctx.Context(), adminID, userID)
	})
}

// POST /api/admin/registrations/:id/approve
func (h *RegistrationHandler) PostApprove(ctx *fiber.Ctx) error {
	return h.decide(ctx, func(adminID, userID uint, _ DecisionRequest) (*model.User, error) {
		return h.reviewService.Approve(ctx.Context(), adminID, userID)
	})
}

// POST /api/admin/registrations/:id/reject
func (h *RegistrationHandler) PostReject(ctx *fiber.Ctx) error {
	return h.decide(ctx, func(adminID, userID uint, req DecisionRequest) (*model.User, error) {
		return h.reviewService.Reject(ctx.Context(), adminID, userID, req.Reason)
	})
}

// POST /api/admin/registrations/:id/return
func (h *RegistrationHandler) PostReturn(ctx *fiber.Ctx) error {
	return h.decide(ctx, func(adminID, userID uint, req DecisionRequest) (*model.User, error) {
		return h.reviewService.Return(ctx.Context(), adminID, userID, req.Notes)
	})
}
