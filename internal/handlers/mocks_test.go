package handlers

import (
	"context"
	"mime/multipart"

	"github.com/khanghh/unionhub/internal/audit"
	"github.com/khanghh/unionhub/internal/auth"
	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/internal/dues"
	"github.com/khanghh/unionhub/internal/events"
	"github.com/khanghh/unionhub/internal/idcards"
	"github.com/khanghh/unionhub/internal/review"
	"github.com/khanghh/unionhub/internal/security"
	"github.com/khanghh/unionhub/internal/users"
	"github.com/khanghh/unionhub/model"
	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, userID uint) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Register(ctx context.Context, opts users.RegisterOptions) (*model.User, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password, ip string) (*users.LoginResult, error) {
	args := m.Called(ctx, email, password, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.LoginResult), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID uint, update users.ProfileUpdate) (*model.User, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) AddDocument(ctx context.Context, userID uint, info users.DocumentInfo) (*model.UserDocument, error) {
	args := m.Called(ctx, userID, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserDocument), args.Error(1)
}

func (m *MockUserService) ListDocuments(ctx context.Context, userID uint) ([]*model.UserDocument, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.UserDocument), args.Error(1)
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResult), args.Error(1)
}

func (m *MockAdminService) GetAdmin(ctx context.Context, adminID uint) (*model.Admin, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminService) SetupTOTP(ctx context.Context, adminID uint) (*security.TOTPKey, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.TOTPKey), args.Error(1)
}

func (m *MockAdminService) EnableTOTP(ctx context.Context, adminID uint, code string) error {
	return m.Called(ctx, adminID, code).Error(0)
}

func (m *MockAdminService) DisableTOTP(ctx context.Context, adminID uint, code string) error {
	return m.Called(ctx, adminID, code).Error(0)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) List(ctx context.Context, filter review.CandidateFilter, page common.PageRequest) (*review.ListResult, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.ListResult), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, userID uint) (*review.Candidate, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Candidate), args.Error(1)
}

func (m *MockReviewService) userResult(args mock.Arguments) (*model.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockReviewService) StartReview(ctx context.Context, adminID, userID uint) (*model.User, error) {
	return m.userResult(m.Called(ctx, adminID, userID))
}

func (m *MockReviewService) Approve(ctx context.Context, adminID, userID uint) (*model.User, error) {
	return m.userResult(m.Called(ctx, adminID, userID))
}

func (m *MockReviewService) Reject(ctx context.Context, adminID, userID uint, reason string) (*model.User, error) {
	return m.userResult(m.Called(ctx, adminID, userID, reason))
}

func (m *MockReviewService) Return(ctx context.Context, adminID, userID uint, notes string) (*model.User, error) {
	return m.userResult(m.Called(ctx, adminID, userID, notes))
}

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, log *model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockAuditService) Get(ctx context.Context, id uint) (*audit.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.Entry), args.Error(1)
}

func (m *MockAuditService) List(ctx context.Context, filter audit.Filter, page common.PageRequest) (*audit.ListResult, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.ListResult), args.Error(1)
}

type MockLoginUnlocker struct {
	mock.Mock
}

func (m *MockLoginUnlocker) Reset(ctx context.Context, kind security.LoginKind, identifier string) error {
	return m.Called(ctx, kind, identifier).Error(0)
}

type MockSettingService struct {
	mock.Mock
}

func (m *MockSettingService) GetAll(ctx context.Context) (map[string]interface{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockSettingService) Update(ctx context.Context, adminID uint, updates map[string]interface{}) (map[string]interface{}, error) {
	args := m.Called(ctx, adminID, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

type MockCardService struct {
	mock.Mock
}

func (m *MockCardService) GetCard(ctx context.Context, userID uint) (*idcards.Card, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idcards.Card), args.Error(1)
}

func (m *MockCardService) List(ctx context.Context, page common.PageRequest) (*idcards.ListResult, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idcards.ListResult), args.Error(1)
}

func (m *MockCardService) Reissue(ctx context.Context, adminID, userID uint) (*idcards.Card, error) {
	args := m.Called(ctx, adminID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idcards.Card), args.Error(1)
}

func (m *MockCardService) Verify(ctx context.Context, digitalID, code string) (*idcards.VerifyResult, error) {
	args := m.Called(ctx, digitalID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idcards.VerifyResult), args.Error(1)
}

type MockDuesService struct {
	mock.Mock
}

func (m *MockDuesService) ledgerResult(args mock.Arguments) (*model.DuesLedger, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DuesLedger), args.Error(1)
}

func (m *MockDuesService) List(ctx context.Context, filter dues.Filter, page common.PageRequest) (*dues.ListResult, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dues.ListResult), args.Error(1)
}

func (m *MockDuesService) ListForUser(ctx context.Context, userID uint) ([]*model.DuesLedger, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DuesLedger), args.Error(1)
}

func (m *MockDuesService) StandingOf(ctx context.Context, userID uint) (dues.Standing, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(dues.Standing), args.Error(1)
}

func (m *MockDuesService) Create(ctx context.Context, adminID uint, opts dues.CreateOptions) (*model.DuesLedger, error) {
	return m.ledgerResult(m.Called(ctx, adminID, opts))
}

func (m *MockDuesService) Generate(ctx context.Context, adminID uint, opts dues.GenerateOptions) (int, error) {
	args := m.Called(ctx, adminID, opts)
	return args.Int(0), args.Error(1)
}

func (m *MockDuesService) Pay(ctx context.Context, adminID, id uint, amountCents int64, reference string) (*model.DuesLedger, error) {
	return m.ledgerResult(m.Called(ctx, adminID, id, amountCents, reference))
}

func (m *MockDuesService) Waive(ctx context.Context, adminID, id uint, reason string) (*model.DuesLedger, error) {
	return m.ledgerResult(m.Called(ctx, adminID, id, reason))
}

func (m *MockDuesService) Summary(ctx context.Context, period string) (*dues.Summary, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dues.Summary), args.Error(1)
}

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) eventResult(args mock.Arguments) (*model.Event, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventService) Create(ctx context.Context, adminID uint, input events.EventInput, files []*multipart.FileHeader) (*model.Event, error) {
	return m.eventResult(m.Called(ctx, adminID, input, files))
}

func (m *MockEventService) Get(ctx context.Context, id uint) (*events.EventView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.EventView), args.Error(1)
}

func (m *MockEventService) List(ctx context.Context, filter events.Filter, page common.PageRequest) (*events.ListResult, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.ListResult), args.Error(1)
}

func (m *MockEventService) ListUpcoming(ctx context.Context, page common.PageRequest) (*events.ListResult, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.ListResult), args.Error(1)
}

func (m *MockEventService) Update(ctx context.Context, adminID, id uint, input events.EventInput) (*model.Event, error) {
	return m.eventResult(m.Called(ctx, adminID, id, input))
}

func (m *MockEventService) Cancel(ctx context.Context, adminID, id uint) (*model.Event, error) {
	return m.eventResult(m.Called(ctx, adminID, id))
}

func (m *MockEventService) Delete(ctx context.Context, adminID, id uint) error {
	return m.Called(ctx, adminID, id).Error(0)
}

func (m *MockEventService) Register(ctx context.Context, userID, eventID uint) (*model.EventRegistration, error) {
	args := m.Called(ctx, userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventRegistration), args.Error(1)
}

type MockCaptchaVerifier struct {
	mock.Mock
}

func (m *MockCaptchaVerifier) Verify(ctx context.Context, token string, remoteIP string) error {
	return m.Called(ctx, token, remoteIP).Error(0)
}
