package tickets

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
	tickets []*model.Ticket
}

func (r *fakeRepo) WithTx(tx *gorm.DB) Repository { return r }
func (r *fakeRepo) Create(ctx context.Context, ticket *model.Ticket) error {
	ticket.ID = uint(len(r.tickets) + 1)
	r.tickets = append(r.tickets, ticket)
	return nil
}
func (r *fakeRepo) LockFirst(ctx context.Context, id uint) (*model.Ticket, error) {
	for _, ticket := range r.tickets {
		if ticket.ID == id {
			return ticket, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeRepo) Find(ctx context.Context, filter Filter, page common.PageRequest) ([]*model.Ticket, int64, error) {
	return r.tickets, int64(len(r.tickets)), nil
}
func (r *fakeRepo) Updates(ctx context.Context, id uint, columns map[string]interface{}) error {
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

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to model.TicketStatus
		want     bool
	}{
		{model.TicketStatusOpen, model.TicketStatusInProgress, true},
		{model.TicketStatusInProgress, model.TicketStatusResolved, true},
		{model.TicketStatusResolved, model.TicketStatusClosed, true},
		{model.TicketStatusResolved, model.TicketStatusInProgress, true},
		{model.TicketStatusOpen, model.TicketStatusClosed, true},
		{model.TicketStatusInProgress, model.TicketStatusClosed, true},
		{model.TicketStatusOpen, model.TicketStatusResolved, false},
		{model.TicketStatusInProgress, model.TicketStatusOpen, false},
		{model.TicketStatusClosed, model.TicketStatusOpen, false},
		{model.TicketStatusClosed, model.TicketStatusInProgress, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTicketLifecycle(t *testing.T) {
	repo := &fakeRepo{}
	auditRepo := &fakeAuditRepo{}
	svc := NewTicketService(fakeTx{}, repo, auditRepo)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, CreateOptions{Subject: "  "})
	assert.ErrorIs(t, err, ErrSubjectRequired)
	_, err = svc.Create(ctx, 1, CreateOptions{Subject: "Help", Priority: "urgent"})
	assert.ErrorIs(t, err, ErrInvalidPriority)

	ticket, err := svc.Create(ctx, 1, CreateOptions{Subject: "Payroll deduction", Category: "dues"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ticket.TicketNumber, "TKT-"))
	assert.Equal(t, model.TicketPriorityNormal, ticket.Priority)
	assert.Equal(t, model.TicketStatusOpen, ticket.Status)

	resolved := model.TicketStatusResolved
	_, err = svc.Update(ctx, 9, ticket.ID, UpdateOptions{Status: &resolved})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	inProgress := model.TicketStatusInProgress
	adminID := uint(9)
	ticket, err = svc.Update(ctx, 9, ticket.ID, UpdateOptions{Status: &inProgress, AssignedAdminID: &adminID})
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusInProgress, ticket.Status)
	assert.Equal(t, uint(9), *ticket.AssignedAdminID)

	resolution := "Refund issued"
	ticket, err = svc.Update(ctx, 9, ticket.ID, UpdateOptions{Status: &resolved, Resolution: &resolution})
	require.NoError(t, err)
	assert.Equal(t, "Refund issued", ticket.Resolution)

	bogus := model.TicketStatus("archived")
	_, err = svc.Update(ctx, 9, ticket.ID, UpdateOptions{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = svc.Update(ctx, 9, 42, UpdateOptions{Status: &resolved})
	assert.ErrorIs(t, err, ErrTicketNotFound)

	actions := make([]string, 0, len(auditRepo.logs))
	for _, log := range auditRepo.logs {
		actions = append(actions, log.Action)
	}
	assert.Equal(t, []string{ActionTicketCreated, ActionTicketUpdated, ActionTicketUpdated}, actions)
}
