package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/khanghh/unionhub/internal/audit"
	"github.com/khanghh/unionhub/internal/database"
	"github.com/khanghh/unionhub/internal/security"
	"github.com/khanghh/unionhub/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ActionAdminLoginSuccess = "admin_login_success"
	ActionAdminLoginFailed  = "admin_login_failed"
	ActionAdmin2FAEnabled   = "admin_2fa_enabled"
	ActionAdmin2FADisabled  = "admin_2fa_disabled"
	ActionAdminCreated      = "admin_created"
)

type LoginRequest struct {
	Email    string
	Password string
	OTP      string
	IP       string
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Admin     *model.Admin `json:"admin"`
}

type CreateAdminOptions struct {
	Name     string
	Email    string
	Password string
	Role     model.AdminRole
}

type AdminService struct {
	adminRepo    AdminRepository
	auditRepo    audit.Repository
	guard        *security.LoginGuard
	tokens       *TokenManager
	issuer       string
	bcryptRounds int
}

func (s *AdminService) recordLogin(ctx context.Context, action string, adminID uint, req LoginRequest, reason string) {
	actor := audit.System()
	if adminID != 0 {
		actor = audit.Admin(adminID)
	}
	meta := map[string]interface{}{"email": req.Email}
	if reason != "" {
		meta["reason"] = reason
	}
	entry := audit.NewEntry(action, actor, "admin", adminID, meta, audit.WithIP(req.IP))
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		slog.Error("Failed to record admin login", "action", action, "error", err)
	}
}

func (s *AdminService) failLogin(ctx context.Context, adminID uint, req LoginRequest, reason string, cause error) error {
	s.recordLogin(ctx, ActionAdminLoginFailed, adminID, req, reason)
	if err := s.guard.Fail(ctx, security.LoginKindAdmin, req.Email); err != nil {
		return err
	}
	return cause
}

func (s *AdminService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.guard.Check(ctx, security.LoginKindAdmin, req.Email); err != nil {
		return nil, err
	}

	admin, err := s.adminRepo.First(ctx, "email = ?", req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.failLogin(ctx, 0, req, "unknown_email", ErrInvalidCredentials)
	} else if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return nil, s.failLogin(ctx, admin.ID, req, "wrong_password", ErrInvalidCredentials)
	}
	if admin.Disabled {
		s.recordLogin(ctx, ActionAdminLoginFailed, admin.ID, req, "disabled")
		return nil, ErrAdminDisabled
	}
	if admin.TOTPEnabled {
		if req.OTP == "" {
			return nil, ErrOTPRequired
		}
		if err := security.ValidateTOTP(req.OTP, admin.TOTPSecret); err != nil {
			return nil, s.failLogin(ctx, admin.ID, req, "wrong_otp", err)
		}
	}

	if err := s.guard.Reset(ctx, security.LoginKindAdmin, req.Email); err != nil {
		slog.Warn("Failed to reset login guard", "email", req.Email, "error", err)
	}
	now := time.Now()
	if err := s.adminRepo.Updates(ctx, admin.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		return nil, err
	}
	admin.LastLoginAt = &now

	token, expiresAt, err := s.tokens.Issue(KindAdmin, admin.ID, string(admin.Role))
	if err != nil {
		return nil, err
	}
	s.recordLogin(ctx, ActionAdminLoginSuccess, admin.ID, req, "")
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Admin: admin}, nil
}

func (s *AdminService) GetAdmin(ctx context.Context, adminID uint) (*model.Admin, error) {
	admin, err := s.adminRepo.First(ctx, adminID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	}
	return admin, err
}

func (s *AdminService) CreateAdmin(ctx context.Context, opts CreateAdminOptions) (*model.Admin, error) {
	if opts.Role == "" {
		opts.Role = model.AdminRoleStaff
	}
	if !opts.Role.Valid() {
		return nil, ErrInvalidRole
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), s.bcryptRounds)
	if err != nil {
		return nil, err
	}
	admin := &model.Admin{
		Name:     opts.Name,
		Email:    strings.ToLower(strings.TrimSpace(opts.Email)),
		Password: string(hash),
		Role:     opts.Role,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrAdminEmailExists
		}
		return nil, err
	}
	entry := audit.NewEntry(ActionAdminCreated, audit.System(), "admin", admin.ID, map[string]interface{}{"role": admin.Role})
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		slog.Error("Failed to record admin creation", "error", err)
	}
	return admin, nil
}

// SetupTOTP generates a new secret for the admin. It becomes active after EnableTOTP.
func (s *AdminService) SetupTOTP(ctx context.Context, adminID uint) (*security.TOTPKey, error) {
	admin, err := s.GetAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if admin.TOTPEnabled {
		return nil, ErrTOTPAlreadyEnabled
	}
	key, err := security.GenerateTOTP(s.issuer, admin.Email)
	if err != nil {
		return nil, err
	}
	if err := s.adminRepo.Updates(ctx, adminID, map[string]interface{}{"totp_secret": key.Secret}); err != nil {
		return nil, err
	}
	return key, nil
}

func (s *AdminService) EnableTOTP(ctx context.Context, adminID uint, code string) error {
	admin, err := s.GetAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if admin.TOTPEnabled {
		return ErrTOTPAlreadyEnabled
	}
	if admin.TOTPSecret == "" {
		return ErrTOTPNotEnrolled
	}
	if err := security.ValidateTOTP(code, admin.TOTPSecret); err != nil {
		return err
	}
	if err := s.adminRepo.Updates(ctx, adminID, map[string]interface{}{"totp_enabled": true}); err != nil {
		return err
	}
	return s.auditRepo.Create(ctx, audit.NewEntry(ActionAdmin2FAEnabled, audit.Admin(adminID), "admin", adminID, nil))
}

func (s *AdminService) DisableTOTP(ctx context.Context, adminID uint, code string) error {
	admin, err := s.GetAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if !admin.TOTPEnabled {
		return ErrTOTPNotEnrolled
	}
	if err := security.ValidateTOTP(code, admin.TOTPSecret); err != nil {
		return err
	}
	columns := map[string]interface{}{"totp_enabled": false, "totp_secret": ""}
	if err := s.adminRepo.Updates(ctx, adminID, columns); err != nil {
		return err
	}
	return s.auditRepo.Create(ctx, audit.NewEntry(ActionAdmin2FADisabled, audit.Admin(adminID), "admin", adminID, nil))
}

func NewAdminService(adminRepo AdminRepository, auditRepo audit.Repository, guard *security.LoginGuard, tokens *TokenManager, issuer string, bcryptRounds int) *AdminService {
	return &AdminService{
		adminRepo:    adminRepo,
		auditRepo:    auditRepo,
		guard:        guard,
		tokens:       tokens,
		issuer:       issuer,
		bcryptRounds: bcryptRounds,
	}
}
