package handlers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/unionhub/internal/audit"
	"github.com/khanghh/unionhub/internal/security"
)

const ActionLoginUnlocked = "login_unlocked"

var loginActionPrefixes = []string{"admin_login", "member_login"}

var MsgInvalidLoginKind = "Kind must be admin or member."

type CodeRequest struct {
	Code string `json:"code"`
}

type UnlockRequest struct {
	Kind  string `json:"kind"`
	Email string `json:"email"`
}

// SecurityHandler serves admin two-factor setup and the login lock controls.
type SecurityHandler struct {
	adminService AdminService
	auditService AuditService
	unlocker     LoginUnlocker
}

func NewSecurityHandler(adminService AdminService, auditService AuditService, unlocker LoginUnlocker) *SecurityHandler {
	return &SecurityHandler{
		adminService: adminService,
		auditService: auditService,
		unlocker:     unlocker,
	}
}

// POST /api/admin/security/2fa/setup
func (h *SecurityHandler) PostSetup2FA(ctx *fiber.Ctx) error {
	key, err := h.adminService.SetupTOTP(ctx.Context(), currentID(ctx))
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, key)
}

func parseCode(ctx *fiber.Ctx) (string, error) {
	var req CodeRequest
	if err := parseBody(ctx, &req); err != nil {
		return "", err
	}
	return strings.TrimSpace(req.Code), nil
}

// POST /api/admin/security/2fa/enable
func (h *SecurityHandler) PostEnable2FA(ctx *fiber.Ctx) error {
	code, err := parseCode(ctx)
	if err != nil {
		return err
	}
	if err := h.adminService.EnableTOTP(ctx.Context(), currentID(ctx), code); err != nil {
		return mapError(err)
	}
	return ctx.JSON(fiber.Map{"data": fiber.Map{"totpEnabled": true}})
}

// POST /api/admin/security/2fa/disable
func (h *SecurityHandler) PostDisable2FA(ctx *fiber.Ctx) error {
	code, err := parseCode(ctx)
	if err != nil {
		return err
	}
	if err := h.adminService.DisableTOTP(ctx.Context(), currentID(ctx), code); err != nil {
		return mapError(err)
	}
	return ctx.JSON(fiber.Map{"data": fiber.Map{"totpEnabled": false}})
}

// GET /api/admin/security/login-activity
func (h *SecurityHandler) GetLoginActivity(ctx *fiber.Ctx) error {
	filter, err := parseAuditFilter(ctx)
	if err != nil {
		return err
	}
	filter.ActionPrefixes = loginActionPrefixes
	result, err := h.auditService.List(ctx.Context(), filter, pageRequest(ctx))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(result)
}

// POST /api/admin/security/unlock
func (h *SecurityHandler) PostUnlock(ctx *fiber.Ctx) error {
	var req UnlockRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	kind := security.LoginKind(strings.ToLower(strings.TrimSpace(req.Kind)))
	if !kind.Valid() {
		return badRequest(MsgInvalidLoginKind, nil)
	}
	if err := validateEmail(req.Email); err != nil {
		return badRequest(err.Error(), err)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.unlocker.Reset(ctx.Context(), kind, email); err != nil {
		return mapError(err)
	}

	adminID := currentID(ctx)
	meta := map[string]interface{}{"kind": kind, "email": email}
	entry := audit.NewEntry(ActionLoginUnlocked, audit.Admin(adminID), "login", 0, meta, audit.WithIP(ctx.IP()))
	if err := h.auditService.Record(ctx.Context(), entry); err != nil {
		slog.Error("Failed to record login unlock", "email", email, "error", err)
	}
	return ctx.JSON(fiber.Map{"data": fiber.Map{"kind": kind, "email": email, "unlocked": true}})
}
