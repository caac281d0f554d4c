package handlers

import (
	"context"
	"mime/multipart"

	"github.com/khanghh/unionhub/internal/audit"
	"github.com/khanghh/unionhub/internal/auth"
	"github.com/khanghh/unionhub/internal/benefits"
	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/internal/dashboard"
	"github.com/khanghh/unionhub/internal/dues"
	"github.com/khanghh/unionhub/internal/events"
	"github.com/khanghh/unionhub/internal/idcards"
	"github.com/khanghh/unionhub/internal/members"
	"github.com/khanghh/unionhub/internal/review"
	"github.com/khanghh/unionhub/internal/security"
	"github.com/khanghh/unionhub/internal/tickets"
	"github.com/khanghh/unionhub/internal/uploads"
	"github.com/khanghh/unionhub/internal/users"
	"github.com/khanghh/unionhub/model"
)

type UserService interface {
	GetUser(ctx context.Context, userID uint) (*model.User, error)
	Register(ctx context.Context, opts users.RegisterOptions) (*model.User, error)
	Login(ctx context.Context, email, password, ip string) (*users.LoginResult, error)
	UpdateProfile(ctx context.Context, userID uint, update users.ProfileUpdate) (*model.User, error)
	AddDocument(ctx context.Context, userID uint, info users.DocumentInfo) (*model.UserDocument, error)
	ListDocuments(ctx context.Context, userID uint) ([]*model.UserDocument, error)
}

type AdminService interface {
	Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResult, error)
	GetAdmin(ctx context.Context, adminID uint) (*model.Admin, error)
	SetupTOTP(ctx context.Context, adminID uint) (*security.TOTPKey, error)
	EnableTOTP(ctx context.Context, adminID uint, code string) error
	DisableTOTP(ctx context.Context, adminID uint, code string) error
}

type LoginUnlocker interface {
	Reset(ctx context.Context, kind security.LoginKind, identifier string) error
}

type CaptchaVerifier interface {
	Verify(ctx context.Context, token string, remoteIP string) error
}

type FileStorage interface {
	Save(fh *multipart.FileHeader, subdir string) (*uploads.File, error)
	Remove(relPath string) error
}

type ReviewService interface {
	List(ctx context.Context, filter review.CandidateFilter, page common.PageRequest) (*review.ListResult, error)
	Get(ctx context.Context, userID uint) (*review.Candidate, error)
	StartReview(ctx context.Context, adminID, userID uint) (*model.User, error)
	Approve(ctx context.Context, adminID, userID uint) (*model.User, error)
	Reject(ctx context.Context, adminID, userID uint, reason string) (*model.User, error)
	Return(ctx context.Context, adminID, userID uint, notes string) (*model.User, error)
}

type AuditService interface {
	Record(ctx context.Context, log *model.AuditLog) error
	Get(ctx context.Context, id uint) (*audit.Entry, error)
	List(ctx context.Context, filter audit.Filter, page common.PageRequest) (*audit.ListResult, error)
}

type MemberService interface {
	List(ctx context.Context, opts members.ListOptions, page common.PageRequest) (*members.ListResult, error)
	Get(ctx context.Context, userID uint) (*members.MemberDetail, error)
	Suspend(ctx context.Context, adminID, userID uint, reason string) (*model.User, error)
	Reinstate(ctx context.Context, adminID, userID uint) (*model.User, error)
}

type DuesService interface {
	List(ctx context.Context, filter dues.Filter, page common.PageRequest) (*dues.ListResult, error)
	ListForUser(ctx context.Context, userID uint) ([]*model.DuesLedger, error)
	StandingOf(ctx context.Context, userID uint) (dues.Standing, error)
	Create(ctx context.Context, adminID uint, opts dues.CreateOptions) (*model.DuesLedger, error)
	Generate(ctx context.Context, adminID uint, opts dues.GenerateOptions) (int, error)
	Pay(ctx context.Context, adminID, id uint, amountCents int64, reference string) (*model.DuesLedger, error)
	Waive(ctx context.Context, adminID, id uint, reason string) (*model.DuesLedger, error)
	Summary(ctx context.Context, period string) (*dues.Summary, error)
}

type CardService interface {
	GetCard(ctx context.Context, userID uint) (*idcards.Card, error)
	List(ctx context.Context, page common.PageRequest) (*idcards.ListResult, error)
	Reissue(ctx context.Context, adminID, userID uint) (*idcards.Card, error)
	Verify(ctx context.Context, digitalID, code string) (*idcards.VerifyResult, error)
}

type TicketService interface {
	Create(ctx context.Context, userID uint, opts tickets.CreateOptions) (*model.Ticket, error)
	List(ctx context.Context, filter tickets.Filter, page common.PageRequest) (*tickets.ListResult, error)
	Update(ctx context.Context, adminID, ticketID uint, opts tickets.UpdateOptions) (*model.Ticket, error)
}

type BenefitService interface {
	Create(ctx context.Context, userID uint, opts benefits.CreateOptions) (*model.BenefitRequest, error)
	List(ctx context.Context, filter benefits.Filter, page common.PageRequest) (*benefits.ListResult, error)
	Approve(ctx context.Context, adminID, id uint, notes string) (*model.BenefitRequest, error)
	Reject(ctx context.Context, adminID, id uint, notes string) (*model.BenefitRequest, error)
	Release(ctx context.Context, adminID, id uint) (*model.BenefitRequest, error)
}

type EventService interface {
	Create(ctx context.Context, adminID uint, input events.EventInput, files []*multipart.FileHeader) (*model.Event, error)
	Get(ctx context.Context, id uint) (*events.EventView, error)
	List(ctx context.Context, filter events.Filter, page common.PageRequest) (*events.ListResult, error)
	ListUpcoming(ctx context.Context, page common.PageRequest) (*events.ListResult, error)
	Update(ctx context.Context, adminID, id uint, input events.EventInput) (*model.Event, error)
	Cancel(ctx context.Context, adminID, id uint) (*model.Event, error)
	Delete(ctx context.Context, adminID, id uint) error
	Register(ctx context.Context, userID, eventID uint) (*model.EventRegistration, error)
}

type SettingService interface {
	GetAll(ctx context.Context) (map[string]interface{}, error)
	Update(ctx context.Context, adminID uint, updates map[string]interface{}) (map[string]interface{}, error)
}

type DashboardService interface {
	Stats(ctx context.Context) (*dashboard.Stats, error)
}
