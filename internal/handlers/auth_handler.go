package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/unionhub/internal/auth"
	"github.com/khanghh/unionhub/internal/middlewares"
	"github.com/khanghh/unionhub/internal/security"
	"github.com/khanghh/unionhub/internal/users"
	"github.com/khanghh/unionhub/params"
)

const captchaHeader = "cf-turnstile-response"

type RegisterRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	Employer     string `json:"employer"`
	Position     string `json:"position"`
	EmployeeID   string `json:"employeeId"`
	Remarks      string `json:"remarks"`
	CaptchaToken string `json:"captchaToken"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

// AuthHandler serves member registration and the member and admin logins.
type AuthHandler struct {
	userService  UserService
	adminService AdminService
	captcha      CaptchaVerifier
}

func NewAuthHandler(userService UserService, adminService AdminService, captcha CaptchaVerifier) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		adminService: adminService,
		captcha:      captcha,
	}
}

func (h *AuthHandler) verifyCaptcha(ctx *fiber.Ctx, token string) error {
	if h.captcha == nil {
		return nil
	}
	if token == "" {
		token = ctx.Get(captchaHeader)
	}
	return h.captcha.Verify(ctx.Context(), token, ctx.IP())
}

// POST /api/auth/register
func (h *AuthHandler) PostRegister(ctx *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := validateRegisterRequest(&req); err != nil {
		return mapError(err)
	}
	if err := h.verifyCaptcha(ctx, req.CaptchaToken); err != nil {
		return mapError(err)
	}

	user, err := h.userService.Register(ctx.Context(), users.RegisterOptions{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Password:   req.Password,
		Employer:   req.Employer,
		Position:   req.Position,
		EmployeeID: req.EmployeeID,
		Remarks:    req.Remarks,
		IP:         ctx.IP(),
	})
	if err != nil {
		return mapError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": params.MsgRegistrationSucceeded,
		"data":    user,
	})
}

// POST /api/auth/login
func (h *AuthHandler) PostLogin(ctx *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return badRequest(MsgLoginMissingFields, nil)
	}
	result, err := h.userService.Login(ctx.Context(), req.Email, req.Password, ctx.IP())
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, result)
}

// POST /api/admin/auth/login
func (h *AuthHandler) PostAdminLogin(ctx *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return badRequest(MsgLoginMissingFields, nil)
	}
	result, err := h.adminService.Login(ctx.Context(), auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		OTP:      strings.TrimSpace(req.OTP),
		IP:       ctx.IP(),
	})
	if errors.Is(err, security.ErrTOTPInvalidCode) {
		return middlewares.NewHTTPError(fiber.StatusUnauthorized, MsgInvalidOTP, err)
	} else if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, result)
}

// GET /api/admin/auth/me
func (h *AuthHandler) GetAdminMe(ctx *fiber.Ctx) error {
	admin, err := h.adminService.GetAdmin(ctx.Context(), currentID(ctx))
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, admin)
}
