package idcards

import (
	"context"
	"strings"
	"testing"

	"github.com/khanghh/unionhub/internal/audit"
	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTx struct{}

func (fakeTx) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type fakeRepo struct {
	users map[uint]*model.User
}

func (r *fakeRepo) WithTx(tx *gorm.DB) Repository { return r }
func (r *fakeRepo) First(ctx context.Context, conds ...interface{}) (*model.User, error) {
	for _, user := range r.users {
		switch v := conds[0].(type) {
		case uint:
			if user.ID == v {
				return user, nil
			}
		case string:
			if user.DigitalID != nil && *user.DigitalID == conds[1] {
				return user, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeRepo) FindIssued(ctx context.Context, page common.PageRequest) ([]*model.User, int64, error) {
	var users []*model.User
	for _, user := range r.users {
		if user.DigitalID != nil {
			users = append(users, user)
		}
	}
	return users, int64(len(users)), nil
}
func (r *fakeRepo) Updates(ctx context.Context, userID uint, columns map[string]interface{}) error {
	return nil
}

type fakeAuditRepo struct {
	logs []*model.AuditLog
}

func (r *fakeAuditRepo) WithTx(tx *gorm.DB) audit.Repository { return r }
func (r *fakeAuditRepo) Create(ctx context.Context, log *model.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}
func (r *fakeAuditRepo) First(ctx context.Context, id uint) (*model.AuditLog, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeAuditRepo) Find(ctx context.Context, filter audit.Filter, page common.PageRequest) ([]*model.AuditLog, int64, error) {
	return nil, 0, nil
}
func (r *fakeAuditRepo) CountByAction(ctx context.Context, filter audit.Filter) (map[string]int64, error) {
	return nil, nil
}
func (r *fakeAuditRepo) CountByActorType(ctx context.Context, filter audit.Filter) (map[string]int64, error) {
	return nil, nil
}

func strPtr(s string) *string { return &s }

func TestMembershipNumber(t *testing.T) {
	assert.Equal(t, "MEM-2026-000042", MembershipNumber("MEM", 2026, 42))
	assert.Equal(t, "UH-2025-1234567", MembershipNumber("UH", 2025, 1234567))
}

func TestNewDigitalID(t *testing.T) {
	a, b := NewDigitalID(), NewDigitalID()
	assert.True(t, strings.HasPrefix(a, "DID-"))
	assert.NotEqual(t, a, b)
}

func TestSignerCode(t *testing.T) {
	signer := NewSigner("secret")
	code := signer.Code("DID-abc", "MEM-2026-000001")
	assert.Len(t, code, 16)
	assert.Equal(t, code, signer.Code("DID-abc", "MEM-2026-000001"))
	assert.True(t, signer.Verify("DID-abc", "MEM-2026-000001", code))
	assert.False(t, signer.Verify("DID-abd", "MEM-2026-000001", code))
	assert.False(t, signer.Verify("DID-abc", "MEM-2026-000001", code[:8]))
	assert.NotEqual(t, code, NewSigner("other").Code("DID-abc", "MEM-2026-000001"))
}

func newTestService() (*CardService, *fakeRepo, *fakeAuditRepo) {
	repo := &fakeRepo{users: map[uint]*model.User{
		1: {ID: 1, FirstName: "Ana", LastName: "Cruz", Status: model.UserStatusApproved,
			MembershipNumber: strPtr("MEM-2026-000001"), DigitalID: strPtr("DID-one")},
		2: {ID: 2, FirstName: "Ben", Status: model.UserStatusPending},
	}}
	auditRepo := &fakeAuditRepo{}
	return NewCardService(fakeTx{}, repo, auditRepo, NewSigner("secret")), repo, auditRepo
}

func TestVerify(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	code := svc.Signer().Code("DID-one", "MEM-2026-000001")

	result, err := svc.Verify(ctx, "DID-one", strings.ToUpper(code))
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "Ana Cruz", result.Member.Name)

	result, err = svc.Verify(ctx, "DID-one", "0000000000000000")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Nil(t, result.Member)

	result, err = svc.Verify(ctx, "DID-missing", code)
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestReissue(t *testing.T) {
	svc, repo, auditRepo := newTestService()
	ctx := context.Background()

	card, err := svc.Reissue(ctx, 9, 1)
	require.NoError(t, err)
	assert.NotEqual(t, "DID-one", card.DigitalID)
	assert.Equal(t, card.DigitalID, *repo.users[1].DigitalID)
	require.Len(t, auditRepo.logs, 1)
	assert.Equal(t, ActionIDCardReissued, auditRepo.logs[0].Action)

	_, err = svc.Reissue(ctx, 9, 2)
	assert.ErrorIs(t, err, ErrCardNotIssued)
	_, err = svc.Reissue(ctx, 9, 3)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}
