package benefits

import (
	"context"
	"testing"

	"github.com/khanghh/unionhub/internal/approvals"
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
	requests []*model.BenefitRequest
	statuses map[uint]model.UserStatus
}

func (r *fakeRepo) WithTx(tx *gorm.DB) Repository { return r }
func (r *fakeRepo) Create(ctx context.Context, req *model.BenefitRequest) error {
	req.ID = uint(len(r.requests) + 1)
	r.requests = append(r.requests, req)
	return nil
}
func (r *fakeRepo) LockFirst(ctx context.Context, id uint) (*model.BenefitRequest, error) {
	for _, req := range r.requests {
		if req.ID == id {
			return req, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeRepo) Find(ctx context.Context, filter Filter, page common.PageRequest) ([]*model.BenefitRequest, int64, error) {
	return r.requests, int64(len(r.requests)), nil
}
func (r *fakeRepo) Updates(ctx context.Context, id uint, columns map[string]interface{}) error {
	return nil
}
func (r *fakeRepo) UserStatus(ctx context.Context, userID uint) (model.UserStatus, error) {
	status, ok := r.statuses[userID]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return status, nil
}

type fakeQueueRepo struct {
	items map[uint]*model.ApprovalQueue
}

func (r *fakeQueueRepo) WithTx(tx *gorm.DB) approvals.Repository { return r }
func (r *fakeQueueRepo) Create(ctx context.Context, item *model.ApprovalQueue) error {
	r.items[item.ReferenceID] = item
	return nil
}
func (r *fakeQueueRepo) FindByReference(ctx context.Context, queueType model.QueueType, table string, refID uint) (*model.ApprovalQueue, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeQueueRepo) Transition(ctx context.Context, queueType model.QueueType, table string, refID uint, status model.QueueStatus, adminID *uint, notes string) error {
	r.items[refID].Status = status
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

func newTestService() (*BenefitService, *fakeRepo, *fakeQueueRepo, *fakeAuditRepo) {
	repo := &fakeRepo{statuses: map[uint]model.UserStatus{
		1: model.UserStatusApproved,
		2: model.UserStatusPending,
	}}
	queue := &fakeQueueRepo{items: map[uint]*model.ApprovalQueue{}}
	auditRepo := &fakeAuditRepo{}
	return NewBenefitService(fakeTx{}, repo, queue, auditRepo), repo, queue, auditRepo
}

func TestCreateBenefit(t *testing.T) {
	svc, _, queue, auditRepo := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, 2, CreateOptions{BenefitType: "medical", AmountCents: 1000})
	assert.ErrorIs(t, err, ErrNotApprovedMember)
	_, err = svc.Create(ctx, 3, CreateOptions{BenefitType: "medical", AmountCents: 1000})
	assert.ErrorIs(t, err, ErrNotApprovedMember)
	_, err = svc.Create(ctx, 1, CreateOptions{BenefitType: " ", AmountCents: 1000})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	req, err := svc.Create(ctx, 1, CreateOptions{BenefitType: "medical", AmountCents: 250000, Reason: "Surgery"})
	require.NoError(t, err)
	assert.Equal(t, model.BenefitStatusPending, req.Status)
	require.Contains(t, queue.items, req.ID)
	assert.Equal(t, model.QueueTypeBenefit, queue.items[req.ID].QueueType)
	assert.Equal(t, model.QueueStatusPending, queue.items[req.ID].Status)
	require.Len(t, auditRepo.logs, 1)
	assert.Equal(t, ActionBenefitRequested, auditRepo.logs[0].Action)
}

func TestBenefitDecisions(t *testing.T) {
	svc, _, queue, _ := newTestService()
	ctx := context.Background()
	first, err := svc.Create(ctx, 1, CreateOptions{BenefitType: "medical", AmountCents: 1000})
	require.NoError(t, err)
	second, err := svc.Create(ctx, 1, CreateOptions{BenefitType: "burial", AmountCents: 1000})
	require.NoError(t, err)

	_, err = svc.Release(ctx, 9, first.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	req, err := svc.Approve(ctx, 9, first.ID, "ok")
	require.NoError(t, err)
	assert.Equal(t, model.BenefitStatusApproved, req.Status)
	assert.Equal(t, uint(9), *req.ReviewedBy)
	assert.Equal(t, model.QueueStatusApproved, queue.items[first.ID].Status)

	_, err = svc.Approve(ctx, 9, first.ID, "again")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	req, err = svc.Release(ctx, 9, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BenefitStatusReleased, req.Status)
	assert.NotNil(t, req.ReleasedAt)

	_, err = svc.Reject(ctx, 9, second.ID, "")
	assert.ErrorIs(t, err, ErrNotesRequired)
	req, err = svc.Reject(ctx, 9, second.ID, "Not eligible")
	require.NoError(t, err)
	assert.Equal(t, model.BenefitStatusRejected, req.Status)
	assert.Equal(t, model.QueueStatusRejected, queue.items[second.ID].Status)

	_, err = svc.Reject(ctx, 9, 99, "x")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}
