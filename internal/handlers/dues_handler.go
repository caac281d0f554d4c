package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/unionhub/internal/dues"
	"github.com/khanghh/unionhub/model"
)

var MsgInvalidDueDate = "Due date must be formatted as YYYY-MM-DD."

type CreateDuesRequest struct {
	UserID      uint   `json:"userId"`
	Period      string `json:"period"`
	AmountCents int64  `json:"amountCents"`
	DueDate     string `json:"dueDate"`
	Notes       string `json:"notes"`
}

type GenerateDuesRequest struct {
	Period      string `json:"period"`
	AmountCents int64  `json:"amountCents"`
	DueDate     string `json:"dueDate"`
}

type PayDuesRequest struct {
	AmountCents int64  `json:"amountCents"`
	Reference   string `json:"reference"`
}

type WaiveDuesRequest struct {
	Reason string `json:"reason"`
}

type DuesHandler struct {
	duesService DuesService
}

func NewDuesHandler(duesService DuesService) *DuesHandler {
	return &DuesHandler{duesService: duesService}
}

func parseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := parseTime(raw)
	if err != nil {
		return time.Time{}, badRequest(MsgInvalidDueDate, err)
	}
	return t, nil
}

// GET /api/admin/dues
func (h *DuesHandler) ListDues(ctx *fiber.Ctx) error {
	filter := dues.Filter{
		Status: model.DuesStatus(queryString(ctx, "status")),
		Period: queryString(ctx, "period"),
	}
	userID, err := queryUint(ctx, "userId")
	if err != nil {
		return err
	}
	if userID != nil {
		filter.UserID = *userID
	}
	result, err := h.duesService.List(ctx.Context(), filter, pageRequest(ctx))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(result)
}

// POST /api/admin/dues
func (h *DuesHandler) PostDues(ctx *fiber.Ctx) error {
	var req CreateDuesRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if req.UserID == 0 {
		return badRequest("User id is required.", nil)
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return err
	}
	ledger, err := h.duesService.Create(ctx.Context(), currentID(ctx), dues.CreateOptions{
		UserID:      req.UserID,
		Period:      req.Period,
		AmountCents: req.AmountCents,
		DueDate:     dueDate,
		Notes:       req.Notes,
	})
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusCreated, ledger)
}

// POST /api/admin/dues/generate
func (h *DuesHandler) PostGenerate(ctx *fiber.Ctx) error {
	var req GenerateDuesRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return err
	}
	count, err := h.duesService.Generate(ctx.Context(), currentID(ctx), dues.GenerateOptions{
		Period:      req.Period,
		AmountCents: req.AmountCents,
		DueDate:     dueDate,
	})
	if err != nil {
		return mapError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"period": strings.TrimSpace(req.Period), "created": count}})
}

// POST /api/admin/dues/:id/pay
func (h *DuesHandler) PostPay(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return mapError(err)
	}
	var req PayDuesRequest
	if len(ctx.Body()) > 0 {
		if err := parseBody(ctx, &req); err != nil {
			return err
		}
	}
	ledger, err := h.duesService.Pay(ctx.Context(), currentID(ctx), id, req.AmountCents, req.Reference)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, ledger)
}

// POST /api/admin/dues/:id/waive
func (h *DuesHandler) PostWaive(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return mapError(err)
	}
	var req WaiveDuesRequest
	if len(ctx.Body()) > 0 {
		if err := parseBody(ctx, &req); err != nil {
			return err
		}
	}
	ledger, err := h.duesService.Waive(ctx.Context(), currentID(ctx), id, req.Reason)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, ledger)
}

// GET /api/admin/dues/summary
func (h *DuesHandler) GetSummary(ctx *fiber.Ctx) error {
	summary, err := h.duesService.Summary(ctx.Context(), queryString(ctx, "period"))
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, summary)
}
