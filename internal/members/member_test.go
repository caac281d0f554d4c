package members

import (
	"context"
	"testing"
	"time"

	"github.com/khanghh/unionhub/internal/audit"
	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/internal/dues"
	"github.com/khanghh/unionhub/internal/idcards"
	"github.com/khanghh/unionhub/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTx struct{}

func (fakeTx) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type fakeRepo struct {
	users      map[uint]*model.User
	lastFilter Filter
}

func (r *fakeRepo) WithTx(tx *gorm.DB) Repository { return r }
func (r *fakeRepo) First(ctx context.Context, userID uint) (*model.User, error) {
	if user, ok := r.users[userID]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeRepo) LockFirst(ctx context.Context, userID uint) (*model.User, error) {
	return r.First(ctx, userID)
}
func (r *fakeRepo) Find(ctx context.Context, filter Filter, page common.PageRequest) ([]*model.User, int64, error) {
	r.lastFilter = filter
	var users []*model.User
	for id := uint(1); id <= uint(len(r.users)); id++ {
		users = append(users, r.users[id])
	}
	return users, int64(len(users)), nil
}
func (r *fakeRepo) FindDocuments(ctx context.Context, userID uint) ([]*model.UserDocument, error) {
	return nil, nil
}
func (r *fakeRepo) Updates(ctx context.Context, userID uint, columns map[string]interface{}) error {
	return nil
}

type fakeDues struct {
	ledgers map[uint][]*model.DuesLedger
}

func (d *fakeDues) Standings(ctx context.Context, userIDs []uint) (map[uint]dues.Standing, error) {
	standings := map[uint]dues.Standing{}
	for _, id := range userIDs {
		var latest *model.DuesLedger
		if rows := d.ledgers[id]; len(rows) > 0 {
			latest = rows[0]
		}
		standings[id] = dues.Classify(latest, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), 0)
	}
	return standings, nil
}
func (d *fakeDues) ListForUser(ctx context.Context, userID uint) ([]*model.DuesLedger, error) {
	return d.ledgers[userID], nil
}
func (d *fakeDues) GraceDays(ctx context.Context) int { return 3 }

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

func newTestService() (*MemberService, *fakeRepo, *fakeAuditRepo) {
	repo := &fakeRepo{users: map[uint]*model.User{
		1: {ID: 1, FirstName: "Ana", LastName: "Cruz", Status: model.UserStatusApproved, MembershipNumber: strPtr("MEM-2026-000001"), DigitalID: strPtr("DID-1")},
		2: {ID: 2, FirstName: "Ben", LastName: "Diaz", Status: model.UserStatusApproved},
	}}
	duesReader := &fakeDues{ledgers: map[uint][]*model.DuesLedger{
		1: {
			{UserID: 1, Status: model.DuesStatusUnpaid, DueDate: time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)},
			{UserID: 1, Status: model.DuesStatusPaid, DueDate: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)},
		},
	}}
	auditRepo := &fakeAuditRepo{}
	svc := NewMemberService(fakeTx{}, repo, auditRepo, duesReader, idcards.NewSigner("secret"))
	svc.now = func() time.Time { return time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC) }
	return svc, repo, auditRepo
}

func TestListMembers(t *testing.T) {
	svc, repo, _ := newTestService()
	result, err := svc.List(context.Background(), ListOptions{DuesStatus: "overdue"}, common.NewPageRequest(1, 20))
	require.NoError(t, err)
	assert.Equal(t, dues.StandingOverdue, repo.lastFilter.Standing)
	assert.Equal(t, 3, repo.lastFilter.GraceDays)
	require.Len(t, result.Items, 2)
	assert.Equal(t, dues.StandingOverdue, result.Items[0].DuesStatus)
	assert.Equal(t, dues.StandingNoRecord, result.Items[1].DuesStatus)
	assert.Equal(t, "Ana Cruz", result.Items[0].FullName)

	_, err = svc.List(context.Background(), ListOptions{DuesStatus: "late"}, common.NewPageRequest(1, 20))
	assert.ErrorIs(t, err, ErrInvalidStanding)
}

func TestGetMember(t *testing.T) {
	svc, _, _ := newTestService()
	detail, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, dues.StandingOverdue, detail.DuesStatus)
	assert.Len(t, detail.Dues, 2)
	require.NotNil(t, detail.IDCard)
	assert.Equal(t, "MEM-2026-000001", detail.IDCard.MembershipNumber)

	detail, err = svc.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, detail.IDCard)
	assert.Equal(t, dues.StandingNoRecord, detail.DuesStatus)

	_, err = svc.Get(context.Background(), 3)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestSuspendAndReinstate(t *testing.T) {
	svc, repo, auditRepo := newTestService()
	ctx := context.Background()

	user, err := svc.Suspend(ctx, 9, 1, "unpaid dues")
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusSuspended, user.Status)
	_, err = svc.Suspend(ctx, 9, 1, "again")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	user, err = svc.Reinstate(ctx, 9, 1)
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusApproved, repo.users[1].Status)
	assert.Equal(t, model.UserStatusApproved, user.Status)
	require.Len(t, auditRepo.logs, 2)
	assert.Equal(t, ActionMemberSuspended, auditRepo.logs[0].Action)
	assert.Equal(t, ActionMemberReinstated, auditRepo.logs[1].Action)
}
