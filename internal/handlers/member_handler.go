package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/unionhub/internal/members"
	"github.com/khanghh/unionhub/model"
)

type SuspendRequest struct {
	Reason string `json:"reason"`
}

type MemberHandler struct {
	memberService MemberService
}

func NewMemberHandler(memberService MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// GET /api/admin/members
func (h *MemberHandler) ListMembers(ctx *fiber.Ctx) error {
	opts := members.ListOptions{
		Search:     queryString(ctx, "search"),
		Status:     model.UserStatus(queryString(ctx, "status")),
		DuesStatus: queryString(ctx, "duesStatus"),
	}
	result, err := h.memberService.List(ctx.Context(), opts, pageRequest(ctx))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(result)
}

// GET /api/admin/members/:id
func (h *MemberHandler) GetMember(ctx *fiber.Ctx) error {
	userID, err := paramID(ctx, "id")
	if err != nil {
		return mapError(err)
	}
	detail, err := h.memberService.Get(ctx.Context(), userID)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, detail)
}

// POST /api/admin/members/:id/suspend
func (h *MemberHandler) PostSuspend(ctx *fiber.Ctx) error {
	userID, err := paramID(ctx, "id")
	if err != nil {
		return mapError(err)
	}
	var req SuspendRequest
	if len(ctx.Body()) > 0 {
		if err := parseBody(ctx, &req); err != nil {
			return err
		}
	}
	user, err := h.memberService.Suspend(ctx.Context(), currentID(ctx), userID, req.Reason)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, user)
}

// POST /api/admin/members/:id/reinstate
func (h *MemberHandler) PostReinstate(ctx *fiber.Ctx) error {
	userID, err := paramID(ctx, "id")
	if err != nil {
		return mapError(err)
	}
	user, err := h.memberService.Reinstate(ctx.Context(), currentID(ctx), userID)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, user)
}
