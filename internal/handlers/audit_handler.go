package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/unionhub/internal/audit"
)

// AuditHandler exposes the audit log read only.
type AuditHandler struct {
	auditService AuditService
}

func NewAuditHandler(auditService AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func parseAuditFilter(ctx *fiber.Ctx) (audit.Filter, error) {
	filter := audit.Filter{
		Action:     queryString(ctx, "action"),
		EntityType: queryString(ctx, "entityType"),
	}
	if raw := queryString(ctx, "actorType"); raw != "" {
		actorType, err := audit.ParseActorType(raw)
		if err != nil {
			return filter, mapError(err)
		}
		filter.ActorType = actorType
	}
	var err error
	if filter.EntityID, err = queryUint(ctx, "entityId"); err != nil {
		return filter, err
	}
	if filter.From, err = queryTime(ctx, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = queryTime(ctx, "to"); err != nil {
		return filter, err
	}
	return filter, nil
}

// GET /api/admin/audit-logs
func (h *AuditHandler) ListAuditLogs(ctx *fiber.Ctx) error {
	filter, err := parseAuditFilter(ctx)
	if err != nil {
		return err
	}
	result, err := h.auditService.List(ctx.Context(), filter, pageRequest(ctx))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(result)
}

// GET /api/admin/audit-logs/:id
func (h *AuditHandler) GetAuditLog(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return mapError(err)
	}
	entry, err := h.auditService.Get(ctx.Context(), id)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, entry)
}
