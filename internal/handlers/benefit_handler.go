package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/unionhub/internal/benefits"
	"github.com/khanghh/unionhub/model"
)

type BenefitHandler struct {
	benefitService BenefitService
}

func NewBenefitHandler(benefitService BenefitService) *BenefitHandler {
	return &BenefitHandler{benefitService: benefitService}
}

// GET /api/admin/benefits
func (h *BenefitHandler) ListBenefits(ctx *fiber.Ctx) error {
	filter := benefits.Filter{Status: model.BenefitStatus(queryString(ctx, "status"))}
	userID, err := queryUint(ctx, "userId")
	if err != nil {
		return err
	}
	if userID != nil {
		filter.UserID = *userID
	}
	result, err := h.benefitService.List(ctx.Context(), filter, pageRequest(ctx))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(result)
}

func (h *BenefitHandler) decide(ctx *fiber.Ctx, fn func(adminID, id uint, notes string) (*model.BenefitRequest, error)) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return mapError(err)
	}
	var req DecisionRequest
	if len(ctx.Body()) > 0 {
		if err := parseBody(ctx, &req); err != nil {
			return err
		}
	}
	request, err := fn(currentID(ctx), id, req.Notes)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, request)
}

// POST /api/admin/benefits/:id/approve
func (h *BenefitHandler) PostApprove(ctx *fiber.Ctx) error {
	return h.decide(ctx, func(adminID, id uint, notes string) (*model.BenefitRequest, error) {
		return h.benefitService.Approve(ctx.Context(), adminID, id, notes)
	})
}

// POST /api/admin/benefits/:id/reject
func (h *BenefitHandler) PostReject(ctx *fiber.Ctx) error {
	return h.decide(ctx, func(adminID, id uint, notes string) (*model.BenefitRequest, error) {
		return h.benefitService.Reject(ctx.Context(), adminID, id, notes)
	})
}

// POST /api/admin/benefits/:id/release
func (h *BenefitHandler) PostRelease(ctx *fiber.Ctx) error {
	return h.decide(ctx, func(adminID, id uint, _ string) (*model.BenefitRequest, error) {
		return h.benefitService.Release(ctx.Context(), adminID, id)
	})
}
