package users

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/khanghh/unionhub/internal/approvals"
	"github.com/khanghh/unionhub/internal/audit"
	"github.com/khanghh/unionhub/internal/auth"
	"github.com/khanghh/unionhub/internal/database"
	"github.com/khanghh/unionhub/internal/security"
	"github.com/khanghh/unionhub/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ActionMemberRegistered       = "member_registered"
	ActionMemberLoginSuccess     = "member_login_success"
	ActionMemberLoginFailed      = "member_login_failed"
	ActionMemberProfileCompleted = "member_profile_completed"
	ActionDocumentUploaded       = "member_document_uploaded"

	MemberRole = "member"
)

type RegisterOptions struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Password   string
	Employer   string
	Position   string
	EmployeeID string
	Remarks    string
	IP         string
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

// ProfileUpdate holds the editable profile fields. Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName  *string
	LastName   *string
	Phone      *string
	Employer   *string
	Position   *string
	EmployeeID *string
	Address    *string
	BirthDate  *time.Time
}

type DocumentInfo struct {
	Category     model.DocumentCategory
	FilePath     string
	OriginalName string
	MimeType     string
	Size         int64
}

type UserService struct {
	tx           database.Transactor
	userRepo     UserRepository
	formRepo     RegistrationFormRepository
	docRepo      DocumentRepository
	queueRepo    approvals.Repository
	auditRepo    audit.Repository
	guard        *security.LoginGuard
	tokens       *auth.TokenManager
	bcryptRounds int
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *UserService) GetUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.First(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// Register creates the applicant together with its registration form and queue item.
func (s *UserService) Register(ctx context.Context, opts RegisterOptions) (*model.User, error) {
	email := normalizeEmail(opts.Email)
	phone := optionalString(opts.Phone)
	exists, err := s.userRepo.ExistsByEmailOrPhone(ctx, email, phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), s.bcryptRounds)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		FirstName:  strings.TrimSpace(opts.FirstName),
		LastName:   strings.TrimSpace(opts.LastName),
		Email:      email,
		Phone:      phone,
		Password:   string(hash),
		Employer:   strings.TrimSpace(opts.Employer),
		Position:   strings.TrimSpace(opts.Position),
		EmployeeID: strings.TrimSpace(opts.EmployeeID),
		Status:     model.UserStatusIncomplete,
	}
	if user.EmploymentComplete() {
		user.Status = model.UserStatusPending
	}

	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(ctx, user); err != nil {
			if database.IsDuplicateKey(err) {
				return ErrAccountExists
			}
			return err
		}
		now := time.Now()
		form := &model.RegistrationForm{
			UserID:      user.ID,
			Remarks:     strings.TrimSpace(opts.Remarks),
			SubmittedAt: &now,
		}
		if err := s.formRepo.WithTx(tx).Create(ctx, form); err != nil {
			return err
		}
		queueItem := &model.ApprovalQueue{
			QueueType:      model.QueueTypeRegistration,
			ReferenceTable: approvals.TableUsers,
			ReferenceID:    user.ID,
			Status:         model.QueueStatusPending,
		}
		if err := s.queueRepo.WithTx(tx).Create(ctx, queueItem); err != nil {
			return err
		}
		entry := audit.NewEntry(ActionMemberRegistered, audit.User(user.ID), "user", user.ID,
			map[string]interface{}{"status": user.Status}, audit.WithIP(opts.IP))
		return s.auditRepo.WithTx(tx).Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) recordLogin(ctx context.Context, action string, userID uint, email, ip, reason string) {
	actor := audit.System()
	if userID != 0 {
		actor = audit.User(userID)
	}
	meta := map[string]interface{}{"email": email}
	if reason != "" {
		meta["reason"] = reason
	}
	if err := s.auditRepo.Create(ctx, audit.NewEntry(action, actor, "user", userID, meta, audit.WithIP(ip))); err != nil {
		slog.Error("Failed to record member login", "action", action, "error", err)
	}
}

func (s *UserService) failLogin(ctx context.Context, userID uint, email, ip, reason string) error {
	s.recordLogin(ctx, ActionMemberLoginFailed, userID, email, ip, reason)
	if err := s.guard.Fail(ctx, security.LoginKindMember, email); err != nil {
		return err
	}
	return ErrInvalidCredentials
}

func (s *UserService) Login(ctx context.Context, email, password, ip string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if err := s.guard.Check(ctx, security.LoginKindMember, email); err != nil {
		return nil, err
	}
	user, err := s.userRepo.First(ctx, "email = ?", email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.failLogin(ctx, 0, email, ip, "unknown_email")
	} else if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, s.failLogin(ctx, user.ID, email, ip, "wrong_password")
	}
	switch user.Status {
	case model.UserStatusRejected:
		s.recordLogin(ctx, ActionMemberLoginFailed, user.ID, email, ip, "rejected")
		return nil, ErrAccountRejected
	case model.UserStatusSuspended:
		s.recordLogin(ctx, ActionMemberLoginFailed, user.ID, email, ip, "suspended")
		return nil, ErrAccountSuspended
	}

	if err := s.guard.Reset(ctx, security.LoginKindMember, email); err != nil {
		slog.Warn("Failed to reset login guard", "email", email, "error", err)
	}
	now := time.Now()
	if err := s.userRepo.Updates(ctx, user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	token, expiresAt, err := s.tokens.Issue(auth.KindMember, user.ID, MemberRole)
	if err != nil {
		return nil, err
	}
	s.recordLogin(ctx, ActionMemberLoginSuccess, user.ID, email, ip, "")
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func applyProfileUpdate(user *model.User, update ProfileUpdate) map[string]interface{} {
	columns := make(map[string]interface{})
	setString := func(column string, value *string, field *string) {
		if value == nil {
			return
		}
		*field = strings.TrimSpace(*value)
		columns[column] = *field
	}
	setString("first_name", update.FirstName, &user.FirstName)
	setString("last_name", update.LastName, &user.LastName)
	setString("employer", update.Employer, &user.Employer)
	setString("position", update.Position, &user.Position)
	setString("employee_id", update.EmployeeID, &user.EmployeeID)
	setString("address", update.Address, &user.Address)
	if update.Phone != nil {
		user.Phone = optionalString(*update.Phone)
		columns["phone"] = user.Phone
	}
	if update.BirthDate != nil {
		user.BirthDate = update.BirthDate
		columns["birth_date"] = *update.BirthDate
	}
	return columns
}

// UpdateProfile saves the profile. An incomplete applicant whose employment section
// becomes complete is moved back into the review queue.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	columns := applyProfileUpdate(user, update)
	completed := user.Status == model.UserStatusIncomplete && user.EmploymentComplete()
	if completed {
		user.Status = model.UserStatusPending
		columns["status"] = user.Status
	}
	if len(columns) == 0 {
		return user, nil
	}

	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Updates(ctx, userID, columns); err != nil {
			if database.IsDuplicateKey(err) {
				return ErrAccountExists
			}
			return err
		}
		if !completed {
			return nil
		}
		err := s.queueRepo.WithTx(tx).Transition(ctx, model.QueueTypeRegistration, approvals.TableUsers, userID, model.QueueStatusPending, nil, "")
		if err != nil {
			return err
		}
		entry := audit.NewEntry(ActionMemberProfileCompleted, audit.User(userID), "user", userID, nil)
		return s.auditRepo.WithTx(tx).Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) AddDocument(ctx context.Context, userID uint, info DocumentInfo) (*model.UserDocument, error) {
	if !info.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	doc := &model.UserDocument{
		UserID:       userID,
		Category:     info.Category,
		FilePath:     info.FilePath,
		OriginalName: info.OriginalName,
		MimeType:     info.MimeType,
		Size:         info.Size,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	meta := map[string]interface{}{"category": doc.Category, "documentId": doc.ID}
	if err := s.auditRepo.Create(ctx, audit.NewEntry(ActionDocumentUploaded, audit.User(userID), "user", userID, meta)); err != nil {
		slog.Error("Failed to record document upload", "userID", userID, "error", err)
	}
	return doc, nil
}

func (s *UserService) ListDocuments(ctx context.Context, userID uint) ([]*model.UserDocument, error) {
	return s.docRepo.FindByUserID(ctx, userID)
}

func NewUserService(
	tx database.Transactor,
	userRepo UserRepository,
	formRepo RegistrationFormRepository,
	docRepo DocumentRepository,
	queueRepo approvals.Repository,
	auditRepo audit.Repository,
	guard *security.LoginGuard,
	tokens *auth.TokenManager,
	bcryptRounds int,
) *UserService {
	return &UserService{
		tx:           tx,
		userRepo:     userRepo,
		formRepo:     formRepo,
		docRepo:      docRepo,
		queueRepo:    queueRepo,
		auditRepo:    auditRepo,
		guard:        guard,
		tokens:       tokens,
		bcryptRounds: bcryptRounds,
	}
}
